package assessment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/recorderfy/analysis-service/pkg/pagination"
)

// Handler provides the HTTP endpoints for analyses, baselines and full
// assessments.
type Handler struct {
	svc *Service
}

// NewHandler creates a new assessment handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the analysis endpoints on the provided route group.
//
//	POST /api/v1/analysis                     - Analyze a single question
//	POST /api/v1/analysis/batch               - Analyze questions one call each
//	GET  /api/v1/analysis/:id                 - Fetch one analysis
//	GET  /api/v1/analysis/patient/:patientId  - Patient analysis history
//	GET  /api/v1/analysis/deterioration       - Deterioration-flagged analyses
//	GET  /api/v1/analysis/baseline/:patientId - Patient's active baseline
//	POST /api/v1/assessments                  - Process a full assessment
//	GET  /api/v1/assessments/:id              - Fetch one assessment
//	GET  /api/v1/assessments/patient/:patientId - Patient assessments
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/analysis", h.Analyze)
	g.POST("/analysis/batch", h.AnalyzeBatch)
	g.GET("/analysis/deterioration", h.FlaggedAnalyses)
	g.GET("/analysis/patient/:patientId", h.PatientHistory)
	g.GET("/analysis/baseline/:patientId", h.ActiveBaseline)
	g.GET("/analysis/:id", h.GetAnalysis)
	g.POST("/assessments", h.ProcessAssessment)
	g.GET("/assessments/patient/:patientId", h.PatientAssessments)
	g.GET("/assessments/:id", h.GetAssessment)
}

// httpError maps service errors to transport status codes. Upstream model
// failures surface as 502 so callers can distinguish them from local faults.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrExternalService), errors.Is(err, ErrMalformedResponse):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	case errors.Is(err, ErrNoQuestionsProcessed):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrBaselineConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a valid UUID")
	}
	return id, nil
}

// Analyze handles POST /api/v1/analysis.
func (h *Handler) Analyze(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.svc.Analyze(c.Request().Context(), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

type batchRequest struct {
	PatientID uuid.UUID         `json:"patient_id"`
	Questions []*AnalyzeRequest `json:"questions"`
}

// AnalyzeBatch handles POST /api/v1/analysis/batch: one model call per
// question, partial results allowed under the skip policy.
func (h *Handler) AnalyzeBatch(c echo.Context) error {
	var req batchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	// A JSON null in the questions array decodes to a nil element; leave it
	// for the service to reject rather than dereference it here.
	for _, q := range req.Questions {
		if q != nil && q.PatientID == uuid.Nil {
			q.PatientID = req.PatientID
		}
	}

	result, err := h.svc.AnalyzeEach(c.Request().Context(), req.Questions, req.PatientID)
	if err != nil {
		return httpError(err)
	}

	status := http.StatusCreated
	if len(result.Failures) > 0 {
		status = http.StatusMultiStatus
	}
	return c.JSON(status, result)
}

// GetAnalysis handles GET /api/v1/analysis/:id.
func (h *Handler) GetAnalysis(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	resp, err := h.svc.GetAnalysis(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// PatientHistory handles GET /api/v1/analysis/patient/:patientId.
func (h *Handler) PatientHistory(c echo.Context) error {
	patientID, err := pathUUID(c, "patientId")
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)

	analyses, total, err := h.svc.PatientHistory(c.Request().Context(), patientID, p.Limit, p.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(analyses, total, p.Limit, p.Offset))
}

// FlaggedAnalyses handles GET /api/v1/analysis/deterioration.
func (h *Handler) FlaggedAnalyses(c echo.Context) error {
	p := pagination.FromContext(c)

	analyses, total, err := h.svc.FlaggedAnalyses(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(analyses, total, p.Limit, p.Offset))
}

// ActiveBaseline handles GET /api/v1/analysis/baseline/:patientId.
func (h *Handler) ActiveBaseline(c echo.Context) error {
	patientID, err := pathUUID(c, "patientId")
	if err != nil {
		return err
	}

	baseline, err := h.svc.ActiveBaseline(c.Request().Context(), patientID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, baseline)
}

// ProcessAssessment handles POST /api/v1/assessments.
func (h *Handler) ProcessAssessment(c echo.Context) error {
	var req AssessmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.svc.ProcessAssessment(c.Request().Context(), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// GetAssessment handles GET /api/v1/assessments/:id.
func (h *Handler) GetAssessment(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	assessment, err := h.svc.GetAssessment(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, assessment)
}

// PatientAssessments handles GET /api/v1/assessments/patient/:patientId.
func (h *Handler) PatientAssessments(c echo.Context) error {
	patientID, err := pathUUID(c, "patientId")
	if err != nil {
		return err
	}

	assessments, err := h.svc.PatientAssessments(c.Request().Context(), patientID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"assessments": assessments,
		"count":       len(assessments),
	})
}
