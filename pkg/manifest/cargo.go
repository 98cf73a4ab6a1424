package manifest

// Filename is the base name of a crate manifest inside a crate archive.
const Filename = "Cargo.toml"

// ProcMacroPath is the key path of the proc-macro flag in a crate manifest.
var ProcMacroPath = []string{"lib", "proc-macro"}

// IsProcMacro reports whether m sets lib.proc-macro to boolean true.
// A missing [lib] table, a missing key, or a non-boolean value all report false.
func IsProcMacro(m Value) bool {
	return m.LookupBool(false, ProcMacroPath...)
}

// PackageID returns the package name and version declared in m.
// Either may be empty if the manifest omits it.
func PackageID(m Value) (name, version string) {
	return m.LookupString("", "package", "name"), m.LookupString("", "package", "version")
}
