package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"vivendi/backend/internal/model"
	"vivendi/backend/internal/service"
)

type MeasurementHandler struct {
	measurements service.MeasurementService
	rp           *Responder
}

func NewMeasurementHandler(measurements service.MeasurementService, rp *Responder) *MeasurementHandler {
	return &MeasurementHandler{measurements: measurements, rp: rp}
}

type CreateMeasurementRequest struct {
	ClientID string `json:"clientId" validate:"required,uuid4"`
	Year     int    `json:"year" validate:"required,min=1"`
	Month    int    `json:"month" validate:"required,min=1,max=12"`

	Good           int `json:"good" validate:"min=0"`
	Observation    int `json:"observation" validate:"min=0"`
	Unsatisfactory int `json:"unsatisfactory" validate:"min=0"`
	Danger         int `json:"danger" validate:"min=0"`
	Unmeasured     int `json:"unmeasured" validate:"min=0"`

	Causes model.CauseBreakdown `json:"causes"`
}

// Find godoc
// @Summary      List measurements
// @Description  Filters by clientId, year, month and last12. Client-role
// @Description  callers are always scoped to their own tenant.
// @Tags         Measurements
// @Produce      json
// @Param        clientId  query     string  false  "Tenant id"
// @Param        year      query     int     false  "Calendar year"
// @Param        month     query     int     false  "Month 1-12"
// @Param        last12    query     bool    false  "Trailing 12 months, ascending"
// @Success      200       {object}  DataResponse
// @Failure      400       {object}  ErrorBody
// @Router       /v1/measurements [get]
func (h *MeasurementHandler) Find(w http.ResponseWriter, r *http.Request) {
	query, violations := parseMeasurementQuery(r)
	if len(violations) > 0 {
		h.rp.Error(w, r, raiseViolations(violations))
		return
	}

	measurements, err := h.measurements.Find(r.Context(), identityFrom(r.Context()), query)
	if err != nil {
		h.rp.Error(w, r, err)
		return
	}
	if measurements == nil {
		measurements = []*model.Measurement{}
	}
	h.rp.Data(w, http.StatusOK, measurements)
}

// parseMeasurementQuery checks every filter parameter and reports all of the
// invalid ones at once, mirroring how body validation behaves.
func parseMeasurementQuery(r *http.Request) (service.MeasurementQuery, []string) {
	q := r.URL.Query()
	var query service.MeasurementQuery
	var violations []string

	if v := q.Get("clientId"); v != "" {
		if uuid.Validate(v) != nil {
			violations = append(violations, "clientId must be a valid uuid")
		} else {
			query.ClientID = v
		}
	}
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			violations = append(violations, "year must be a positive integer")
		} else {
			query.Year = n
		}
	}
	if v := q.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			violations = append(violations, "month must be an integer between 1 and 12")
		} else {
			query.Month = n
		}
	}
	if v := q.Get("last12"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			violations = append(violations, "last12 must be a boolean")
		} else {
			query.Last12 = b
		}
	}

	return query, violations
}

// Create godoc
// @Summary  Report a monthly measurement
// @Tags     Measurements
// @Accept   json
// @Produce  json
// @Param    measurement  body      CreateMeasurementRequest  true  "Monthly report"
// @Success  201          {object}  DataResponse
// @Failure  400          {object}  ErrorBody
// @Failure  404          {object}  ErrorBody
// @Router   /v1/measurements [post]
func (h *MeasurementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMeasurementRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.rp.Error(w, r, err)
		return
	}

	measurement, err := h.measurements.Create(r.Context(), service.CreateMeasurementInput{
		ClientID:       req.ClientID,
		Year:           req.Year,
		Month:          req.Month,
		Good:           req.Good,
		Observation:    req.Observation,
		Unsatisfactory: req.Unsatisfactory,
		Danger:         req.Danger,
		Unmeasured:     req.Unmeasured,
		Causes:         req.Causes,
	})
	if err != nil {
		h.rp.Error(w, r, err)
		return
	}
	h.rp.Data(w, http.StatusCreated, measurement)
}
