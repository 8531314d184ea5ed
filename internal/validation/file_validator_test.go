package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lizi12/hw5-2019/internal/errors"
)

func TestFileValidator_ValidateFile(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		wantType  apperrors.ErrorType
	}{
		{
			name: "existing file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "data.json")
				require.NoError(t, os.WriteFile(file, []byte("[]"), 0644))
				return file
			},
		},
		{
			name: "empty path",
			setupFunc: func(t *testing.T) string {
				return ""
			},
			wantType: apperrors.ErrTypeInvalidArgument,
		},
		{
			name: "non-existent file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.json")
			},
			wantType: apperrors.ErrTypeNotFound,
		},
		{
			name: "path is a directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantType: apperrors.ErrTypeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			err := validator.ValidateFile(tt.setupFunc(t))

			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantType, apperrors.TypeOf(err))
		})
	}
}

func TestFileValidator_ValidateFSFile(t *testing.T) {
	fsys := fstest.MapFS{
		"survey/data.json": &fstest.MapFile{Data: []byte("[]")},
	}

	tests := []struct {
		name     string
		path     string
		wantType apperrors.ErrorType
	}{
		{name: "existing file", path: "survey/data.json"},
		{name: "missing file", path: "survey/other.json", wantType: apperrors.ErrTypeNotFound},
		{name: "directory", path: "survey", wantType: apperrors.ErrTypeInvalidArgument},
		{name: "invalid path", path: "../data.json", wantType: apperrors.ErrTypeInvalidArgument},
		{name: "root", path: ".", wantType: apperrors.ErrTypeInvalidArgument},
	}

	validator := NewFileValidator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateFSFile(fsys, tt.path)
			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantType, apperrors.TypeOf(err))
		})
	}

	assert.Equal(t, apperrors.ErrTypeInvalidArgument, apperrors.TypeOf(validator.ValidateFSFile(nil, "x")))
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
	}{
		{
			name: "existing directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
		},
		{
			name: "non-existent directory (should be created)",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "new", "nested", "dir")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			dir := tt.setupFunc(t)

			require.NoError(t, validator.ValidateOutputDirectory(dir))

			info, err := os.Stat(dir)
			require.NoError(t, err)
			assert.True(t, info.IsDir())
			leftovers, err := filepath.Glob(filepath.Join(dir, writeCheckPattern))
			require.NoError(t, err)
			assert.Empty(t, leftovers)
		})
	}
}

func TestFileValidator_ValidateOutputDirectory_FileInTheWay(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := NewFileValidator(nil).ValidateOutputDirectory(filepath.Join(blocker, "out"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeStorage, apperrors.TypeOf(err))
	assert.Contains(t, err.Error(), "cannot create output directory")
}

func TestFileValidator_ValidateOutputDirectory_Empty(t *testing.T) {
	err := NewFileValidator(nil).ValidateOutputDirectory("")
	assert.Equal(t, apperrors.ErrTypeInvalidArgument, apperrors.TypeOf(err))
}
