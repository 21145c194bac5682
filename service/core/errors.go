package core

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	m "stockanalyzer/service/models"
)

const maxBodyBytes = 1 << 20

// RequestError is a failure the caller should see verbatim
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func badRequest(message string) error {
	return &RequestError{Status: http.StatusBadRequest, Message: message}
}

func unauthorized(message string) error {
	return &RequestError{Status: http.StatusUnauthorized, Message: message}
}

func notFound(message string) error {
	return &RequestError{Status: http.StatusNotFound, Message: message}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOk[T any](w http.ResponseWriter, status int, data *T, message string) {
	if message == "" {
		writeJSON(w, status, m.GetServiceResponseOk(data))
		return
	}
	writeJSON(w, status, m.GetServiceResponseMessage(data, message))
}

func writeMessage(w http.ResponseWriter, message string) {
	writeOk[any](w, http.StatusOK, nil, message)
}

// writeError answers with the RequestError carried by err, anything else is
// logged and reported as a 500 with the generic fallback message
func (sc *ServiceContext) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var re *RequestError
	if errors.As(err, &re) {
		writeJSON(w, re.Status, m.GetServiceResponseError(re.Message))
		return
	}

	sc.logger().Error(fallback,
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
	)
	writeJSON(w, http.StatusInternalServerError, m.GetServiceResponseError(fallback))
}

// decodeJSON reads one JSON document from the body, an empty body is "No data provided"
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("No data provided")
		}
		return badRequest("Invalid JSON body")
	}
	return nil
}
