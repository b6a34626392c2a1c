package utils

import (
	"fmt"
	"runtime"
)

// These should be set at build time using -ldflags
var (
	VersionMajor = "0"
	VersionMinor = "1"
	VersionPatch = "0"
	Branch       = "main"
	Commit       = "dev"
	BuildDate    = "unknown"
	BuildHash    = "unknown"
)

// VersionObject holds the individual version components.
type VersionObject struct {
	Major     string `json:"major"`
	Minor     string `json:"minor"`
	Patch     string `json:"patch"`
	Branch    string `json:"branch"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	Arch      string `json:"arch"`
	BuildHash string `json:"build_hash"`
}

// Version is the rendered version of the running binary.
type Version struct {
	Tag string        `json:"tag"`
	Str string        `json:"str"`
	Obj VersionObject `json:"obj"`
}

// GetVersion constructs and returns the version information for the service.
func GetVersion() Version {
	commitShort := Commit
	if len(Commit) > 7 {
		commitShort = Commit[:7]
	}

	vObj := VersionObject{
		Major:     VersionMajor,
		Minor:     VersionMinor,
		Patch:     VersionPatch,
		Branch:    Branch,
		Commit:    commitShort,
		BuildDate: BuildDate,
		Arch:      fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		BuildHash: BuildHash,
	}

	tag := fmt.Sprintf("%s.%s.%s", vObj.Major, vObj.Minor, vObj.Patch)
	str := fmt.Sprintf("%s-%s+%s.%s.%s.%s",
		tag,
		vObj.Branch,
		vObj.Commit,
		vObj.BuildDate,
		vObj.Arch,
		vObj.BuildHash,
	)

	return Version{Tag: tag, Str: str, Obj: vObj}
}
