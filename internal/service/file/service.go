package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/storage"
)

var ErrInvalidFileType = errors.New("invalid file type: only csv and xlsx allowed")

// FileService keeps a copy of every generated export and every accepted upload.
type FileService interface {
	// ArchiveExport stores a generated bank file or register under the salary month.
	ArchiveExport(ctx context.Context, month period.Month, filename string, content io.Reader) (string, error)

	// ArchiveUpload stores an uploaded spreadsheet under its kind and upload date.
	ArchiveUpload(ctx context.Context, kind string, filename string, content io.Reader) (string, error)

	// Open returns an archived file.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
		now:     time.Now,
	}
}

// ArchiveExport implements FileService. Exports are timestamped so re-exports keep history.
func (s *fileServiceImpl) ArchiveExport(ctx context.Context, month period.Month, filename string, content io.Reader) (string, error) {
	name := sanitize(filename)
	if name == "" {
		return "", fmt.Errorf("archive export: empty filename")
	}

	key := path.Join("exports", month.String(), s.now().UTC().Format("20060102T150405Z")+"-"+name)
	stored, err := s.storage.Upload(ctx, content, key, contentType(name))
	if err != nil {
		return "", fmt.Errorf("failed to archive export: %w", err)
	}

	return stored, nil
}

// ArchiveUpload implements FileService.
func (s *fileServiceImpl) ArchiveUpload(ctx context.Context, kind string, filename string, content io.Reader) (string, error) {
	name := sanitize(filename)
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".csv" && ext != ".xlsx" {
		return "", ErrInvalidFileType
	}

	key := path.Join("uploads", sanitize(kind), s.now().UTC().Format("2006-01-02"), uuid.New().String()+"-"+name)
	stored, err := s.storage.Upload(ctx, content, key, contentType(name))
	if err != nil {
		return "", fmt.Errorf("failed to archive upload: %w", err)
	}

	return stored, nil
}

// Open implements FileService.
func (s *fileServiceImpl) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.storage.Download(ctx, key)
}

// sanitize keeps the base name and drops characters that are awkward in paths.
func sanitize(name string) string {
	name = filepath.Base(filepath.FromSlash(strings.TrimSpace(name)))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

func contentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return "text/plain"
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
