package commons

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/xerrors"
)

// ExpandHomeDir resolves a leading "~" to the user home dir and returns an absolute local path
func ExpandHomeDir(localPath string) (string, error) {
	if localPath == "~" || strings.HasPrefix(localPath, "~/") {
		homeDirPath, err := os.UserHomeDir()
		if err != nil {
			return "", xerrors.Errorf("failed to get user home dir: %w", err)
		}

		localPath = filepath.Join(homeDirPath, strings.TrimPrefix(localPath[1:], "/"))
	}

	absPath, err := filepath.Abs(localPath)
	if err != nil {
		return "", xerrors.Errorf("failed to get absolute path of %q: %w", localPath, err)
	}
	return absPath, nil
}
