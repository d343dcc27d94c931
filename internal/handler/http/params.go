package http

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/plantops-hr/payroll-backend-go/internal/handler/http/response"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/validator"
	"github.com/plantops-hr/payroll-backend-go/internal/service/file"
)

// queryInt reads an integer query parameter. A missing parameter reads as zero and is
// left for the request's own validation to report.
func queryInt(r *http.Request, name string, errs *validator.ValidationErrors) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		errs.Add(name, "must be a whole number")
		return 0
	}
	return n
}

// queryOptional returns nil for a missing or blank query parameter.
func queryOptional(r *http.Request, name string) *string {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil
	}
	return &raw
}

const maxUploadSize = 10 << 20

// uploadedFile opens the "file" part of a multipart request. The caller closes it.
func uploadedFile(w http.ResponseWriter, r *http.Request) (multipart.File, string, bool) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return nil, "", false
	}

	f, fileHeader, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.BadRequest(w, "File is required", nil)
			return nil, "", false
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return nil, "", false
	}
	return f, fileHeader.Filename, true
}

// readUpload reads the uploaded file into memory and archives a copy. A failed archive
// is logged and does not stop the import.
func readUpload(w http.ResponseWriter, r *http.Request, fileService file.FileService, kind string) ([]byte, string, bool) {
	f, filename, ok := uploadedFile(w, r)
	if !ok {
		return nil, "", false
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Failed to read uploaded file", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return nil, "", false
	}

	if key, err := fileService.ArchiveUpload(r.Context(), kind, filename, bytes.NewReader(content)); err != nil {
		slog.Warn("Failed to archive upload", "error", err, "kind", kind, "filename", filename)
	} else {
		slog.Info("Upload archived", "key", key, "kind", kind)
	}
	return content, filename, true
}
