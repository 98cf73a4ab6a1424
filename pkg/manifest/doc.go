// Package manifest parses crate manifests (Cargo.toml) and finds them inside
// crate archives.
//
// # Value Trees
//
// A parsed manifest is a [Value] of kind [KindTable]. Values are a tagged
// variant over the TOML data model: strings, integers, floats, booleans,
// datetimes, tables and arrays. [Value.Lookup] walks a key path and reports
// ok=false for a missing key or for a non-table value in the middle of the
// path; it never panics.
//
//	m, err := manifest.Parse(data)
//	if err != nil {
//	    return err
//	}
//	if v, ok := m.Lookup("package", "name"); ok {
//	    name, _ := v.AsString()
//	    fmt.Println(name)
//	}
//
// # Locating Manifests
//
// [Locate] scans an archive entry stream for the first entry whose base name
// equals the manifest filename (e.g., "demo-0.1.0/Cargo.toml") and parses it.
// An archive without a manifest is reported as absent (ok=false), which is
// distinct from a manifest that fails to parse.
//
// # Procedural Macros
//
// [IsProcMacro] reports whether a manifest declares its library target as a
// procedural macro:
//
//	[lib]
//	proc-macro = true
package manifest
