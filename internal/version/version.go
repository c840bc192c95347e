// Package version reports the version of this module as recorded in the build information of the binary.
package version

import (
	"runtime/debug"
	"strings"
)

// Default is the version reported when the build information carries none, e.g. in tests or with go run.
const Default = "dev"

const modulePath = "github.com/radeon-go/amdil"

// GetAMDILVersion returns the version of this module the running binary was built with.
func GetAMDILVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Default
	}
	return versionOf(info)
}

func versionOf(info *debug.BuildInfo) string {
	// The module is the main module when a binary of cmd/ is built from a checkout, and a dependency otherwise.
	if info.Main.Path == modulePath {
		return orDefault(info.Main.Version)
	}
	for _, dep := range info.Deps {
		if dep.Path != modulePath {
			continue
		}
		if dep.Replace != nil {
			dep = dep.Replace
		}
		return orDefault(dep.Version)
	}
	return Default
}

func orDefault(v string) string {
	// (devel) is what the toolchain records for a main module built outside of version control.
	if v == "" || strings.HasPrefix(v, "(") {
		return Default
	}
	return v
}
