package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/creditwatch/backend/internal/external/bridge"
)

// Error reasons returned alongside the message
const (
	ReasonBadRequest = "bad_request"
	ReasonNotFound   = "not_found"
	ReasonInternal   = "internal_error"
)

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, reason, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:  message,
		Reason: reason,
	})
}

// respondFetchError maps a data-acquisition failure to its HTTP status.
// The upstream reason is passed through verbatim.
func respondFetchError(w http.ResponseWriter, err error) {
	var upstream *bridge.UpstreamError

	switch {
	case errors.Is(err, bridge.ErrBondNotFound):
		respondError(w, http.StatusNotFound, ReasonNotFound, err.Error())

	case errors.As(err, &upstream) && upstream.Kind == bridge.KindUnavailable:
		respondError(w, http.StatusServiceUnavailable, string(upstream.Kind), upstream.Message)

	case errors.As(err, &upstream):
		respondError(w, http.StatusBadGateway, string(upstream.Kind), upstream.Message)

	default:
		respondError(w, http.StatusInternalServerError, ReasonInternal, err.Error())
	}
}
