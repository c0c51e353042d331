package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ukaji3/exmerge-go/pkg/exmerge"
)

// errTooLarge marks a request body over the upload limit.
var errTooLarge = errors.New("request body too large")

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

const codeTooLarge = "REQUEST_TOO_LARGE"

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusOf maps an error to its HTTP status and code.
func statusOf(err error) (int, string) {
	if errors.Is(err, errTooLarge) {
		return http.StatusRequestEntityTooLarge, codeTooLarge
	}
	code := exmerge.CodeOf(err)
	switch code {
	case exmerge.CodeNoTemplate, exmerge.CodeMissingFile, exmerge.CodeDecodeFailed,
		exmerge.CodeSheetMissing, exmerge.CodeSheetNotFound:
		return http.StatusBadRequest, string(code)
	}
	return http.StatusInternalServerError, string(code)
}

// writeError sends the error body and counts the request under operation.
func (s *Server) writeError(w http.ResponseWriter, operation string, err error) {
	status, code := statusOf(err)
	s.metrics.ObserveRequest(operation, code)
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed", map[string]interface{}{
			"operation": operation,
			"code":      code,
		})
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}
