package main

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X main.commit=... -X main.buildDate=...".
var (
	commit    string
	buildDate string
)

func version() string {
	rev, date := commit, buildDate
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if rev == "" {
					rev = s.Value
				}
			case "vcs.time":
				if date == "" {
					date = s.Value
				}
			}
		}
	}

	if rev == "" {
		rev = "unknown"
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("%s built on %s", rev, date)
}
