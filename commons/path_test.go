package commons

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandHomeDir(t *testing.T) {
	homeDirPath, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := ExpandHomeDir("~")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(homeDirPath), expanded)

	expanded, err = ExpandHomeDir("~/.irods")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDirPath, ".irods"), expanded)

	expanded, err = ExpandHomeDir("/etc/irodshttp/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/etc/irodshttp/config.yaml", expanded)

	expanded, err = ExpandHomeDir("config.yaml")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(expanded))
}
