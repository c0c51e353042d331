package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ukaji3/exmerge-go/pkg/exmerge"
	"github.com/ukaji3/exmerge-go/pkg/exmerge/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": s.svc.Health()})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	err := s.svc.Ready(r.Context())
	if err == nil {
		// Another instance or a TTL may have changed the shared store.
		var loaded bool
		if loaded, err = s.svc.HasTemplate(r.Context()); err == nil {
			s.metrics.SetTemplateLoaded(loaded)
		}
	}
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleUploadTemplate(w http.ResponseWriter, r *http.Request) {
	const op = "upload"
	if err := s.parseForm(w, r); err != nil {
		s.writeError(w, op, err)
		return
	}

	data, filename, err := readFormFile(r, "template")
	if err != nil {
		s.writeError(w, op, err)
		return
	}
	if filename == "" {
		s.writeError(w, op, &exmerge.MissingFileError{Field: "template"})
		return
	}

	tpl, err := s.svc.UploadTemplate(r.Context(), data, filename)
	if err != nil {
		s.writeError(w, op, err)
		return
	}
	s.metrics.SetTemplateLoaded(true)
	s.metrics.ObserveRequest(op, "")
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Template uploaded successfully",
		"filename": tpl.Name,
		"id":       tpl.ID,
	})
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	const op = "delete"
	if err := s.svc.DeleteTemplate(r.Context()); err != nil {
		s.writeError(w, op, err)
		return
	}
	s.metrics.SetTemplateLoaded(false)
	s.metrics.ObserveRequest(op, "")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Template deleted"})
}

type templateResponse struct {
	ID         string                `json:"id"`
	Filename   string                `json:"filename"`
	UploadedAt time.Time             `json:"uploaded_at"`
	Sheets     []models.SheetSummary `json:"sheets"`
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	const op = "template"
	tpl, err := s.svc.CurrentTemplate(r.Context())
	if errors.Is(err, exmerge.ErrNoTemplate) {
		s.metrics.ObserveRequest(op, string(exmerge.CodeNoTemplate))
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error: err.Error(),
			Code:  string(exmerge.CodeNoTemplate),
		})
		return
	}
	if err != nil {
		s.writeError(w, op, err)
		return
	}

	summary, err := exmerge.Summarize(tpl.Name, tpl.Data)
	if err != nil {
		s.writeError(w, op, err)
		return
	}
	s.metrics.ObserveRequest(op, "")
	writeJSON(w, http.StatusOK, templateResponse{
		ID:         tpl.ID,
		Filename:   tpl.Name,
		UploadedAt: tpl.UploadedAt,
		Sheets:     summary.Sheets,
	})
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	const op = "merge"
	if err := s.parseForm(w, r); err != nil {
		s.writeError(w, op, err)
		return
	}

	file1, _, err := readFormFile(r, "file1")
	if err != nil {
		s.writeError(w, op, err)
		return
	}
	file2, _, err := readFormFile(r, "file2")
	if err != nil {
		s.writeError(w, op, err)
		return
	}

	start := time.Now()
	result, err := s.svc.Merge(r.Context(), file1, file2)
	if err != nil {
		s.writeError(w, op, err)
		return
	}
	s.metrics.ObserveMerge(time.Since(start), result.RowsFromSource1, result.RowsFromSource2)
	s.metrics.ObserveRequest(op, "")

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", result.FileName))
	w.Header().Set("X-Merge-Info", fmt.Sprintf("%d,%d", result.RowsFromSource1, result.RowsFromSource2))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

// parseForm bounds the request body and parses it as a multipart form.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	if r.ContentLength > s.maxUpload {
		return fmt.Errorf("%w: limit is %d bytes", errTooLarge, s.maxUpload)
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %d bytes", errTooLarge, tooLarge.Limit)
		}
		// A body that is not multipart carries no files.
		if errors.Is(err, http.ErrNotMultipart) {
			return nil
		}
		return fmt.Errorf("read upload: %w", err)
	}
	return nil
}

// readFormFile returns the bytes and client file name of an uploaded field.
// An absent field yields nil data and no error; the service reports it.
func readFormFile(r *http.Request, field string) ([]byte, string, error) {
	if r.MultipartForm == nil {
		return nil, "", nil
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", field, err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", field, err)
	}
	return data, header.Filename, nil
}
