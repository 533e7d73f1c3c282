package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "gpacalc/internal/errors"
)

// SupportedRosterExtensions lists the roster formats that can be parsed.
var SupportedRosterExtensions = []string{".xlsx", ".xlsm", ".csv"}

// FileValidator checks input and output paths before any parsing happens
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist", slog.String("file", path))
		return apperrors.NewNotFoundError(fmt.Sprintf("file %s", path))
	}
	if err != nil {
		return apperrors.NewAppValidationError(fmt.Sprintf("failed to stat file %s", path), err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file", slog.String("path", path))
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is a directory, not a file", path), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewAppValidationError(fmt.Sprintf("file %s is not readable", path), err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateRosterFile checks that path is a readable roster in a supported
// format and not an Office lock file.
func (v *FileValidator) ValidateRosterFile(path string) error {
	if IsLockFile(path) {
		v.logger.Warn("Skipping Office lock file", slog.String("file", path))
		return apperrors.NewAppValidationError(fmt.Sprintf("file %s is a temporary Office lock file", path), nil)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !IsSupportedRoster(path) {
		v.logger.Error("Unsupported roster format",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewAppValidationError(
			fmt.Sprintf("file %s has unsupported extension %q (expected %s)",
				path, ext, strings.Join(SupportedRosterExtensions, ", ")), nil)
	}

	return v.ValidateFile(path)
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	// Check writability with a throwaway file
	tmp, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	tmp.Close()
	os.Remove(tmp.Name())

	return nil
}

// IsSupportedRoster reports whether path has a roster extension.
func IsSupportedRoster(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedRosterExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// IsLockFile reports whether path is an Office owner file such as ~$roster.xlsx.
func IsLockFile(path string) bool {
	return strings.HasPrefix(filepath.Base(path), "~$")
}
