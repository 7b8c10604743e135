package buildconfig

import (
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/Harshitk-cp/homesense/internal/buildconfig.version=v1.2.0".
var (
	version = "dev"
	commit  = ""
)

const service = "homesense"

// Info describes the running binary.
type Info struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
}

func Version() string {
	return version
}

// Commit returns the injected commit, else the VCS revision the toolchain
// stamped into the binary, else "unknown".
func Commit() string {
	if commit != "" {
		return commit
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return s.Value
			}
		}
	}
	return "unknown"
}

func Current() Info {
	return Info{
		Service:   service,
		Version:   Version(),
		Commit:    Commit(),
		GoVersion: runtime.Version(),
	}
}
