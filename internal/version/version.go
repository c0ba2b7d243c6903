// Where: internal/version/version.go
// What: Version information retrieval.
// Why: Report the build revision and toolchain for bug reports.
package version

import (
	"fmt"
	"runtime/debug"
)

var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the short VCS revision of the binary, "dev" when the
// binary was built without VCS stamping. A modified tree is marked "(dirty)".
func GetVersion() string {
	info, ok := readBuildInfo()
	if !ok {
		return "dev"
	}
	revision, modified := vcsState(info.Settings)
	if revision == "" {
		return "dev"
	}
	if modified {
		return fmt.Sprintf("%s (dirty)", revision)
	}
	return revision
}

// Describe returns the version line printed by `smvllm version`.
func Describe(app string) string {
	goVersion := "unknown"
	if info, ok := readBuildInfo(); ok && info.GoVersion != "" {
		goVersion = info.GoVersion
	}
	return fmt.Sprintf("%s %s (%s)", app, GetVersion(), goVersion)
}

func vcsState(settings []debug.BuildSetting) (string, bool) {
	var revision string
	var modified bool
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	return revision, modified
}
