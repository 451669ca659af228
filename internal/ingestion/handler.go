package ingestion

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	httperr "github.com/aevon-lab/tripstats/internal/core/errors"
	"github.com/aevon-lab/tripstats/internal/core/storage"
	"github.com/gin-gonic/gin"
)

const (
	originUpload = "upload"

	msgReadBodyFailed = "Failed to read request body"
	msgBodyTooLarge   = "Request body exceeds maximum allowed size"
	msgPersistFailed  = "Trips ingested but the snapshot could not be persisted"
	msgIngestFailed   = "Failed to ingest trips"
)

// ingestionError carries the structured HTTP error shape from a helper back to the handler.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// UploadHandler ingests a CSV request body, replacing the current run.
func (s *Service) UploadHandler(c *gin.Context) {
	body, ierr := s.readBody(c)
	if ierr != nil {
		writeError(c, ierr)
		return
	}

	slog.Info("[Ingestion] Received upload", "payload_size", len(body))

	run, err := s.IngestReader(c.Request.Context(), originUpload, bytes.NewReader(body))
	if err != nil {
		writeError(c, runError(run, err))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "run": run})
}

// ReloadHandler re-ingests the configured source file.
func (s *Service) ReloadHandler(c *gin.Context) {
	run, err := s.Reload(c.Request.Context())
	if err != nil {
		writeError(c, runError(run, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reloaded", "run": run})
}

// readBody reads the request body up to the configured limit.
func (s *Service) readBody(c *gin.Context) ([]byte, *ingestionError) {
	maxBytes := s.maxBodySizeBytes
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	body, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("[Ingestion] Failed to read request body", "error", err)
		return nil, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpReadBodyError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(body)) > maxBytes {
		slog.Warn("[Ingestion] Request body exceeds maximum size", "size", len(body), "max", maxBytes)
		return nil, &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpPayloadTooLargeError,
			message:    msgBodyTooLarge,
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	return body, nil
}

func runError(run storage.RunRecord, err error) *ingestionError {
	if errors.Is(err, ErrPersist) {
		return &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgPersistFailed,
			details:    map[string]interface{}{"run_id": run.ID},
		}
	}
	return &ingestionError{
		statusCode: http.StatusInternalServerError,
		errorType:  httperr.HttpInternalError,
		message:    msgIngestFailed,
	}
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
