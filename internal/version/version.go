package version

import "runtime/debug"

// version is set at build time with -ldflags "-X github.com/psviderski/cpualloc/internal/version.version=v1.2.3".
var version string

// String returns the version of the binary. It falls back to the module version from the build info if
// the version is not set at build time.
func String() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return ""
}
