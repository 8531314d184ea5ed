package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	apperrors "github.com/lizi12/hw5-2019/internal/errors"
)

// FileValidator provides file validation for questionnaire inputs and report outputs
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks that path names an existing regular file.
// It returns an INVALID_ARGUMENT error for an empty path or a directory and
// a NOT_FOUND error when nothing exists at path.
func (v *FileValidator) ValidateFile(path string) error {
	if path == "" {
		v.logger.Error("Empty file path")
		return apperrors.NewInvalidArgumentError("file path must not be empty")
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return apperrors.NewNotFoundError(fmt.Sprintf("file %s", path)).WithContext("path", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to stat file %s", path), err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return apperrors.NewInvalidArgumentError(fmt.Sprintf("%s is a directory, not a file", path)).
			WithContext("path", path)
	}

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateFSFile is ValidateFile for a file inside fsys
func (v *FileValidator) ValidateFSFile(fsys fs.FS, name string) error {
	if fsys == nil {
		return apperrors.NewInvalidArgumentError("file system must not be nil")
	}
	if !fs.ValidPath(name) || name == "." {
		v.logger.Error("Invalid file system path", slog.String("file", name))
		return apperrors.NewInvalidArgumentError(fmt.Sprintf("invalid file system path %q", name))
	}

	info, err := fs.Stat(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		v.logger.Error("File does not exist", slog.String("file", name))
		return apperrors.NewNotFoundError(fmt.Sprintf("file %s", name)).WithContext("path", name)
	}
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to stat file %s", name), err)
	}
	if info.IsDir() {
		return apperrors.NewInvalidArgumentError(fmt.Sprintf("%s is a directory, not a file", name)).
			WithContext("path", name)
	}

	v.logger.Debug("File validated",
		slog.String("file", name),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory creates dir when needed and checks that report
// files can be written into it. Failures are STORAGE errors carrying the
// directory in their context.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if dir == "" {
		return apperrors.NewInvalidArgumentError("output directory must not be empty")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Cannot create report directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("cannot create output directory %s", dir), err).
			WithContext("directory", dir)
	}

	tmp, err := os.CreateTemp(dir, writeCheckPattern)
	if err != nil {
		v.logger.Error("Report directory rejects writes",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err).
			WithContext("directory", dir)
	}
	name := tmp.Name()
	closeErr := tmp.Close()
	if err := os.Remove(name); err != nil && closeErr == nil {
		closeErr = err
	}
	if closeErr != nil {
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), closeErr).
			WithContext("directory", dir)
	}

	v.logger.Debug("Report directory ready", slog.String("directory", dir))
	return nil
}

const writeCheckPattern = ".qnr-write-*"
