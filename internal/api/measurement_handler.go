package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/phrazzld/bmi-api/internal/api/shared"
	"github.com/phrazzld/bmi-api/internal/domain"
	"github.com/phrazzld/bmi-api/internal/export"
	"github.com/phrazzld/bmi-api/internal/service"
)

// MeasurementHandler serves the BMI endpoints for the authenticated owner.
type MeasurementHandler struct {
	measurements service.MeasurementService
}

// NewMeasurementHandler creates a new MeasurementHandler.
func NewMeasurementHandler(measurements service.MeasurementService) *MeasurementHandler {
	return &MeasurementHandler{measurements: measurements}
}

// Calculate handles POST /api/measurements.
func (h *MeasurementHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req MeasurementRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	rec, err := h.measurements.Calculate(r.Context(), ownerID,
		rawNumberFromJSON(req.Weight), rawNumberFromJSON(req.Height))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, measurementToResponse(rec))
}

// History handles GET /api/measurements.
func (h *MeasurementHandler) History(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	q, err := parseHistoryQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	records, err := h.measurements.History(r.Context(), ownerID, q)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, measurementsToResponse(records))
}

// Statistics handles GET /api/measurements/statistics.
func (h *MeasurementHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	stats, err := h.measurements.Statistics(r.Context(), ownerID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, statisticsToResponse(stats))
}

// Export handles GET /api/measurements/export?format=xlsx|pdf.
func (h *MeasurementHandler) Export(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	data, err := h.measurements.Export(r.Context(), ownerID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	body, err := export.Build(format, export.Report{
		Owner:      data.OwnerEmail,
		History:    data.History,
		Statistics: data.Statistics,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to build export", err)
		return
	}

	filename := fmt.Sprintf("bmi-%s.%s", time.Now().UTC().Format("20060102"), format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
