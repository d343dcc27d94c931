package file

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *fileServiceImpl {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return &fileServiceImpl{
		storage: local,
		now:     func() time.Time { return time.Date(2025, 8, 1, 10, 15, 0, 0, time.UTC) },
	}
}

func TestArchiveExport(t *testing.T) {
	t.Parallel()
	s := newTestService(t)
	month, err := period.New(2025, 7)
	require.NoError(t, err)

	key, err := s.ArchiveExport(t.Context(), month, "Salary_Transfer_File_SLE_HQ_MEMP_Jul_2025.txt", strings.NewReader("line-1\n"))
	require.NoError(t, err)
	assert.Equal(t, "exports/2025-07/20250801T101500Z-Salary_Transfer_File_SLE_HQ_MEMP_Jul_2025.txt", key)

	rc, err := s.Open(t.Context(), key)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "line-1\n", string(body))
}

func TestArchiveUpload(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	key, err := s.ArchiveUpload(t.Context(), "attendance", "../July sheet.csv", strings.NewReader("employee_no\n"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "uploads/attendance/2025-08-01/"), key)
	assert.True(t, strings.HasSuffix(key, "-July_sheet.csv"), key)

	_, err = s.ArchiveUpload(t.Context(), "loan", "loans.pdf", strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, ErrInvalidFileType)
}

func TestSanitize(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"bank.txt":          "bank.txt",
		"dir/../x y.xlsx":   "x_y.xlsx",
		"  spaced name.csv": "spaced_name.csv",
		"":                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitize(in), in)
	}
}
