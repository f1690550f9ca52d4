package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

const appURL = "https://github.com/babarot/kuzukago"

type Version struct {
	AppName   string
	Version   string
	Revision  string
	BuildDate string
}

// fill replaces values not stamped by ldflags with module build info
func (v Version) fill() Version {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}
	if unset(v.Version) {
		v.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if unset(v.Revision) {
				v.Revision = s.Value
			}
		case "vcs.time":
			if unset(v.BuildDate) {
				v.BuildDate = s.Value
			}
		}
	}
	return v
}

func unset(s string) bool {
	switch s {
	case "", "unset", "unknown", "develop":
		return true
	}
	return false
}

func (v Version) Print() string {
	v = v.fill()

	var s strings.Builder
	fmt.Fprintf(&s, "%s - a safe trash for files and streams\n", v.AppName)
	fmt.Fprintf(&s, "%s\n\n", appURL)
	fmt.Fprintf(&s, "version: %s\n", v.Version)
	fmt.Fprintf(&s, "revision: %s\n", v.Revision)
	fmt.Fprintf(&s, "buildDate: %s\n", v.BuildDate)
	fmt.Fprintf(&s, "go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return s.String()
}
