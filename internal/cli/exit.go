package cli

import (
	"context"
	"errors"

	macroerrors "github.com/matzehuels/macroscout/pkg/errors"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2   // invalid arguments or configuration
	ExitUnavailable = 3   // the registry could not be reached or refused the request
	ExitInterrupted = 130 // standard shell convention for SIGINT
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	switch macroerrors.GetCode(err) {
	case macroerrors.ErrCodeInvalidInput, macroerrors.ErrCodeInvalidPackage:
		return ExitUsage
	case macroerrors.ErrCodeRegistry, macroerrors.ErrCodeNetwork:
		return ExitUnavailable
	default:
		return ExitFailure
	}
}
