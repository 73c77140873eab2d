package version

import (
	"fmt"
)

var (
	// GitCommit is filled in by the compiler / build script
	GitCommit string

	// Number is the base semantic version number of the project
	Number = "0.1.0"

	// PreRelease is the pre-release information for this version
	PreRelease = ""

	// BuildMetadata is the build-metadata of this version
	BuildMetadata = ""
)

// Info about the version
type Info struct {
	Revision      string
	Number        string
	PreRelease    string
	BuildMetadata string
}

// GetInfo gets the version information
func GetInfo() Info {
	return Info{
		Revision:      GitCommit,
		Number:        Number,
		PreRelease:    PreRelease,
		BuildMetadata: BuildMetadata,
	}
}

// String returns the semantic version
func (i Info) String() string {
	version := i.Number
	if i.PreRelease != "" {
		version = fmt.Sprintf("%s-%s", version, i.PreRelease)
	}
	if i.BuildMetadata != "" {
		version = fmt.Sprintf("%s+%s", version, i.BuildMetadata)
	}
	return version
}

// FullString returns the full version string optionally including the git revision
func (i Info) FullString(rev bool) string {
	str := i.String()
	if rev && i.Revision != "" {
		return fmt.Sprintf("winsec v%s (%s)", str, i.Revision)
	}
	return fmt.Sprintf("winsec v%s", str)
}
