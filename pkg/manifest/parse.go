package manifest

import (
	"errors"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	macroerrors "github.com/matzehuels/macroscout/pkg/errors"
)

// Parse decodes a TOML document into a table Value.
// Invalid UTF-8 and TOML syntax errors are returned as MANIFEST_PARSE errors.
func Parse(data []byte) (Value, error) {
	if !utf8.Valid(data) {
		return Value{}, macroerrors.New(macroerrors.ErrCodeManifestParse, "manifest is not valid UTF-8")
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		var pe toml.ParseError
		if errors.As(err, &pe) {
			return Value{}, macroerrors.Wrap(macroerrors.ErrCodeManifestParse, err,
				"invalid TOML at line %d", pe.Position.Line)
		}
		return Value{}, macroerrors.Wrap(macroerrors.ErrCodeManifestParse, err, "decode manifest")
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return fromRaw(raw), nil
}
