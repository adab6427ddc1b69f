package main

import "runtime/debug"

const shortCommitLen = 7

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		applyBuildInfo(info)
	}
}

// applyBuildInfo fills Version and Commit from the module build info when
// they were not set through ldflags (e.g. for `go install`).
func applyBuildInfo(info *debug.BuildInfo) {
	if info == nil {
		return
	}
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	if Commit != "unknown" {
		return
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			Commit = s.Value
			if len(Commit) > shortCommitLen {
				Commit = Commit[:shortCommitLen]
			}
			return
		}
	}
}
