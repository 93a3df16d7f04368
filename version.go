/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package eventmanager

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Overridden at link time with -ldflags "-X github.com/kamileo242/EventManager.GitCommit=...".
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type VersionInfo struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"gitCommit" yaml:"gitCommit"`
	BuildDate string `json:"buildDate" yaml:"buildDate"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
}

// GetVersionInfo reports the linked version. A commit or date left unset
// falls back to the VCS stamp the go command embeds in the binary.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.GitCommit == "unknown":
				info.GitCommit = s.Value
			case s.Key == "vcs.time" && info.BuildDate == "unknown":
				info.BuildDate = s.Value
			}
		}
	}
	return info
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("eventmanager %s (commit %s, built %s, %s)", v.Version, v.GitCommit, v.BuildDate, v.GoVersion)
}
