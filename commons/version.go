package commons

import (
	"encoding/json"
	"runtime"

	"golang.org/x/xerrors"
)

// these are set via ldflags at build time
var (
	clientVersion = "v0.0.0"
	gitCommit     = ""
	buildDate     = ""
)

// VersionInfo object contains version related info
type VersionInfo struct {
	ClientVersion string `json:"clientVersion"`
	GitCommit     string `json:"gitCommit"`
	BuildDate     string `json:"buildDate"`
	GoVersion     string `json:"goVersion"`
	Compiler      string `json:"compiler"`
	Platform      string `json:"platform"`
}

// GetClientVersion returns client version in string
func GetClientVersion() string {
	return clientVersion
}

// GetVersion returns VersionInfo object
func GetVersion() VersionInfo {
	return VersionInfo{
		ClientVersion: clientVersion,
		GitCommit:     gitCommit,
		BuildDate:     buildDate,
		GoVersion:     runtime.Version(),
		Compiler:      runtime.Compiler,
		Platform:      runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// GetVersionJSON returns VersionInfo object in JSON string
func GetVersionJSON() (string, error) {
	info := GetVersion()
	marshalled, err := json.MarshalIndent(&info, "", "  ")
	if err != nil {
		return "", xerrors.Errorf("failed to marshal version info to JSON: %w", err)
	}
	return string(marshalled), nil
}
