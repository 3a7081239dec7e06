package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"

	"vivendi/backend/internal/apperrors"
)

// DataResponse is the standard success envelope.
type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorBody is the uniform error envelope produced by the responder. The
// request echo and stack only appear outside production.
type ErrorBody struct {
	Status    int          `json:"status"`
	Message   string       `json:"message"`
	Name      string       `json:"name"`
	Error     any          `json:"error"`
	Cause     any          `json:"cause"`
	Code      string       `json:"code"`
	Timestamp string       `json:"timestamp"`
	Request   *RequestEcho `json:"request,omitempty"`
	Stack     string       `json:"stack,omitempty"`
}

// RequestEcho mirrors the inbound request for debugging.
type RequestEcho struct {
	Method string            `json:"method"`
	URL    string            `json:"url"`
	Body   any               `json:"body"`
	Query  map[string]string `json:"query"`
	Params map[string]string `json:"params"`
}

// Responder is the terminal sink for every request-processing failure.
// It formats, logs, and writes — it never fails itself and nothing
// downstream of it runs.
type Responder struct {
	production bool
}

func NewResponder(production bool) *Responder {
	return &Responder{production: production}
}

// Error converts any raised error into the uniform envelope. Errors that
// never went through a builder fall back to a 500 with the unhandled code.
func (rp *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	body := ErrorBody{
		Status:    http.StatusInternalServerError,
		Message:   err.Error(),
		Name:      "Error",
		Code:      apperrors.CodeUnhandled,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	stack := string(debug.Stack())
	if e, ok := apperrors.From(err); ok {
		body.Status = e.Status
		body.Message = e.Message
		body.Name = e.Name
		body.Code = e.Code
		body.Cause = e.Cause
		if e.Err != nil {
			body.Error = e.Err.Error()
		}
		if e.Stack != "" {
			stack = e.Stack
		}
	}

	if !rp.production {
		body.Request = echoRequest(r)
		body.Stack = stack
	}

	slog.Error("Request failed",
		"status", body.Status,
		"code", body.Code,
		"name", body.Name,
		"message", body.Message,
		"cause", body.Cause,
		"method", r.Method,
		"url", r.URL.String(),
	)

	rp.JSON(w, body.Status, body)
}

// JSON marshals a payload and writes it with the given status code.
func (rp *Responder) JSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		// A marshal failure here is a programming error.
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// Data wraps a payload in the success envelope.
func (rp *Responder) Data(w http.ResponseWriter, code int, payload any) {
	rp.JSON(w, code, DataResponse{Success: true, Data: payload})
}

func echoRequest(r *http.Request) *RequestEcho {
	echo := &RequestEcho{
		Method: r.Method,
		URL:    r.URL.String(),
		Query:  map[string]string{},
		Params: map[string]string{},
	}

	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			echo.Query[key] = values[0]
		}
	}

	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			if key != "*" {
				echo.Params[key] = rctx.URLParams.Values[i]
			}
		}
	}

	if raw := bufferedBody(r.Context()); len(raw) > 0 {
		if json.Valid(raw) {
			echo.Body = json.RawMessage(raw)
		} else {
			echo.Body = string(raw)
		}
	}

	return echo
}
