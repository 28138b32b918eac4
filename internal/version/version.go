// Package version carries build identification for the astutus binaries.
package version

import "runtime/debug"

// Release builds set these with
// -ldflags "-X github.com/rich-dobbs-13440/astutus-sub000/internal/version.Version=v1.2.3 ..."
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Info is the resolved build identification
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Get returns the ldflags values, filling gaps from the module build info
// that go install and go build record.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	return fillFromBuildInfo(info, bi)
}

func fillFromBuildInfo(info Info, bi *debug.BuildInfo) Info {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = s.Value
			}
		}
	}
	return info
}
