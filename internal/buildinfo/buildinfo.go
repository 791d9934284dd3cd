// Package buildinfo carries the version stamped in by the linker:
//
//	go build -ldflags "-X classroom/internal/buildinfo.Version=v1.2.0"
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// fromVCS fills Commit and Date from the module's VCS stamp when the linker
// did not set them.
var fromVCS = sync.OnceFunc(func() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "unknown" && len(s.Value) >= 7 {
				Commit = s.Value[:7]
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = s.Value
			}
		}
	}
})

// Short returns a compact build identifier for window titles and logs.
func Short() string {
	fromVCS()
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// String is the full version line printed by -version.
func String() string {
	fromVCS()
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
