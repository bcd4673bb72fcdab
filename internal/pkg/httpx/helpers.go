package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/serr"
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func ReadJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(out)
}

func WriteJSON(w http.ResponseWriter, status int, resp any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	return enc.Encode(resp)
}

func HandleErr(w http.ResponseWriter, r *http.Request, err error) {
	var se *serr.ServiceError
	if errors.As(err, &se) {
		attrs := []any{
			"error", err,
			"status", se.StatusCode,
			"method", r.Method,
			"url", r.URL.String(),
			"remote_addr", r.RemoteAddr,
		}
		for k, v := range se.Env {
			attrs = append(attrs, k, v)
		}

		if se.StatusCode >= http.StatusInternalServerError {
			slog.Error("request error", append(attrs, "stack_trace", se.StackTrace)...)
		} else {
			slog.Warn("request rejected", attrs...)
		}

		for k, v := range se.Header {
			w.Header().Set(k, v)
		}
		_ = WriteJSON(w, se.StatusCode, ErrorResponse{Detail: se.Msg})
		return
	}

	slog.Error("request error",
		"error", err,
		"method", r.Method,
		"url", r.URL.String(),
		"remote_addr", r.RemoteAddr,
	)

	_ = WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Detail: "Internal Server Error"})
}
