package projection

import (
	"errors"
	"log/slog"
	"net/http"

	httperr "github.com/aevon-lab/tripstats/internal/core/errors"
	"github.com/aevon-lab/tripstats/internal/core/storage"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all projection API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/reports/zones", s.HandleTopZones)
	r.GET("/v1/reports/slots", s.HandleTopSlots)
	r.GET("/v1/runs/latest", s.HandleLatestRun)
	r.GET("/v1/runs/latest/slots", s.HandleLatestSlots)
}

// HandleTopZones handles GET /v1/reports/zones?k=N
func (s *Service) HandleTopZones(c *gin.Context) {
	query, ok := bindReportQuery(c)
	if !ok {
		return
	}

	resp, err := s.Zones(query.K)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleTopSlots handles GET /v1/reports/slots?k=N
func (s *Service) HandleTopSlots(c *gin.Context) {
	query, ok := bindReportQuery(c)
	if !ok {
		return
	}

	resp, err := s.Slots(query.K)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleLatestRun handles GET /v1/runs/latest
func (s *Service) HandleLatestRun(c *gin.Context) {
	run, err := s.LatestRun(c.Request.Context())
	if err != nil {
		writeHistoryError(c, err, "Failed to read latest run")
		return
	}

	c.JSON(http.StatusOK, run)
}

// HandleLatestSlots handles GET /v1/runs/latest/slots?k=N
func (s *Service) HandleLatestSlots(c *gin.Context) {
	query, ok := bindReportQuery(c)
	if !ok {
		return
	}

	resp, err := s.LatestSlots(c.Request.Context(), query.K)
	if err != nil {
		if errors.Is(err, ErrInvalidQuery) {
			writeQueryError(c, err)
			return
		}
		writeHistoryError(c, err, "Failed to read persisted slots")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func bindReportQuery(c *gin.Context) (ReportQuery, bool) {
	var query ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return query, false
	}
	return query, true
}

func writeQueryError(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidQuery) {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid report query",
			Details:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
		ErrorType: httperr.HttpInternalError,
		Message:   "Failed to build report",
		Details:   err.Error(),
	})
}

func writeHistoryError(c *gin.Context, err error, message string) {
	if errors.Is(err, storage.ErrNoSnapshot) {
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpSnapshotNotFoundError,
			Message:   "No persisted run found",
		})
		return
	}

	slog.Error("[Projection] "+message, "error", err)
	c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
		ErrorType: httperr.HttpInternalError,
		Message:   message,
		Details:   err.Error(),
	})
}
