package info

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"

	semver "github.com/hashicorp/go-version"
)

var (
	name    string
	license string

	version       = "dev build"
	versionNumber = "0.0.0"
	buildSource   = "unknown"
	buildTime     = "unknown"

	info     *Info
	loadInfo sync.Once
)

func init() {
	// Replace space placeholders.
	buildSource = strings.ReplaceAll(buildSource, "_", " ")
	buildTime = strings.ReplaceAll(buildTime, "_", " ")

	// Convert version string from git tag to expected format.
	version = strings.TrimSpace(strings.ReplaceAll(strings.TrimPrefix(version, "v"), "_", " "))
	versionNumber = strings.TrimSpace(strings.TrimSuffix(version, "dev build"))
	if versionNumber == "" {
		versionNumber = "0.0.0"
	}

	// Add "dev build" to version if repo is dirty.
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range buildInfo.Settings {
			if setting.Key == "vcs.modified" && setting.Value == "true" &&
				!strings.HasSuffix(version, "dev build") {
				version += " dev build"
			}
		}
	}
}

// Info holds the programs meta information.
type Info struct { //nolint:maligned
	Name          string
	Version       string
	VersionNumber string
	License       string

	Source    string
	BuildTime string
	CGO       bool

	Commit     string
	CommitTime string
	Dirty      bool
}

// Set sets meta information via the main routine. This should be the first thing your program calls.
// The version, if given, must be a valid semantic version.
func Set(setName string, setVersion string, setLicenseName string) error {
	if setVersion != "" {
		v, err := semver.NewVersion(strings.TrimPrefix(setVersion, "v"))
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", setVersion, err)
		}
		version = setVersion
		versionNumber = v.String()
	}

	name = setName
	license = setLicenseName
	return nil
}

// GetInfo returns all the meta information about the program.
func GetInfo() *Info {
	loadInfo.Do(func() {
		buildSettings := make(map[string]string)
		if buildInfo, ok := debug.ReadBuildInfo(); ok {
			for _, setting := range buildInfo.Settings {
				buildSettings[setting.Key] = setting.Value
			}
		}

		info = &Info{
			Name:          name,
			Version:       version,
			VersionNumber: versionNumber,
			License:       license,
			Source:        buildSource,
			BuildTime:     buildTime,
			CGO:           buildSettings["CGO_ENABLED"] == "1",
			Commit:        buildSettings["vcs.revision"],
			CommitTime:    buildSettings["vcs.time"],
			Dirty:         buildSettings["vcs.modified"] == "true",
		}

		if info.Commit == "" {
			info.Commit = "unknown"
		}
		if info.CommitTime == "" {
			info.CommitTime = "unknown"
		}
	})

	return info
}

// SemVer returns the parsed version number. Dev builds are 0.0.0.
func SemVer() *semver.Version {
	v, err := semver.NewVersion(versionNumber)
	if err != nil {
		return semver.Must(semver.NewVersion("0.0.0"))
	}
	return v
}

// FullVersion returns the full and detailed version string.
func FullVersion() string {
	info := GetInfo()
	builder := new(strings.Builder)

	// Name and version.
	builder.WriteString(fmt.Sprintf("%s %s\n", info.Name, info.Version))

	// Build info.
	cgoInfo := "-cgo"
	if info.CGO {
		cgoInfo = "+cgo"
	}
	builder.WriteString(fmt.Sprintf("\nbuilt with %s (%s %s) for %s/%s\n", runtime.Version(), runtime.Compiler, cgoInfo, runtime.GOOS, runtime.GOARCH))
	builder.WriteString(fmt.Sprintf("  at %s\n", info.BuildTime))

	// Commit info.
	dirtyInfo := "clean"
	if info.Dirty {
		dirtyInfo = "dirty"
	}
	builder.WriteString(fmt.Sprintf("\ncommit %s (%s)\n", info.Commit, dirtyInfo))
	builder.WriteString(fmt.Sprintf("  at %s\n", info.CommitTime))
	builder.WriteString(fmt.Sprintf("  from %s\n", info.Source))

	builder.WriteString(fmt.Sprintf("\nLicensed under the %s license.", info.License))

	return builder.String()
}

// CheckVersion checks if the metadata is ok.
func CheckVersion() error {
	switch {
	case strings.HasSuffix(os.Args[0], ".test"):
		return nil // testing on linux/darwin
	case strings.HasSuffix(os.Args[0], ".test.exe"):
		return nil // testing on windows
	default:
		// check version information
		if name == "" || license == "" {
			return errors.New("must call Set() before calling CheckVersion()")
		}
	}

	return nil
}
