package validation

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "gpacalc/internal/errors"
	"gpacalc/internal/shared/testutil"
)

func TestValidateRosterFile(t *testing.T) {
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "roster.xlsx")
	csvFile := filepath.Join(dir, "roster.CSV")
	legacy := filepath.Join(dir, "roster.xls")
	lock := filepath.Join(dir, "~$roster.xlsx")
	for _, p := range []string{xlsx, csvFile, legacy, lock} {
		require.NoError(t, os.WriteFile(p, []byte("data"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.xlsx"), 0755))

	tests := []struct {
		name     string
		path     string
		wantType apperrors.ErrorType
	}{
		{name: "xlsx ok", path: xlsx},
		{name: "csv upper case ok", path: csvFile},
		{name: "legacy xls", path: legacy, wantType: apperrors.ErrTypeValidation},
		{name: "lock file", path: lock, wantType: apperrors.ErrTypeValidation},
		{name: "missing", path: filepath.Join(dir, "absent.xlsx"), wantType: apperrors.ErrTypeNotFound},
		{name: "directory", path: filepath.Join(dir, "folder.xlsx"), wantType: apperrors.ErrTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			err := NewFileValidator(logger).ValidateRosterFile(tt.path)
			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
		})
	}
}

func TestValidateOutputDirectory(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, v.ValidateOutputDirectory(dir))
	assert.DirExists(t, dir)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "the writability check file must be removed")

	if runtime.GOOS != "windows" && os.Geteuid() != 0 {
		readOnly := t.TempDir()
		require.NoError(t, os.Chmod(readOnly, 0555))
		t.Cleanup(func() { _ = os.Chmod(readOnly, 0755) })

		err := v.ValidateOutputDirectory(readOnly)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
	}
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsSupportedRoster("a/b/ROSTER.XLSM"))
	assert.False(t, IsSupportedRoster("roster.ods"))
	assert.True(t, IsLockFile("/tmp/~$grades.xlsx"))
	assert.False(t, IsLockFile("/tmp/grades.xlsx"))
}
