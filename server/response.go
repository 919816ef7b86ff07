package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"melodex/apperr"
	"melodex/logger"
)

// envelope is the uniform response shape: {status, data|errors, message?}.
type envelope struct {
	Status  int         `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Message string      `json:"message,omitempty"`
}

func writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	env.Status = status
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

// respond writes a success envelope.
func respond(w http.ResponseWriter, status int, data interface{}, message string) {
	writeEnvelope(w, status, envelope{Data: data, Message: message})
}

// respondError converts a domain error into the uniform envelope. This
// is the single place errors cross the API boundary; no raw internal
// failure reaches a client.
func respondError(w http.ResponseWriter, err error) {
	var de *apperr.Error
	if !errors.As(err, &de) {
		logger.Error("internal server error", logger.ErrorField(err))
		writeEnvelope(w, http.StatusInternalServerError, envelope{Message: "internal server error"})
		return
	}

	switch de.Kind {
	case apperr.KindValidation:
		env := envelope{Message: de.Message}
		if len(de.Fields) > 0 {
			env.Errors = de.Fields
		}
		writeEnvelope(w, http.StatusBadRequest, env)
	case apperr.KindAuthentication:
		writeEnvelope(w, http.StatusUnauthorized, envelope{
			Errors:  map[string][]string{"credentials": {de.Message}},
			Message: de.Message,
		})
	case apperr.KindForbidden:
		writeEnvelope(w, http.StatusForbidden, envelope{Message: de.Message})
	case apperr.KindNotFound:
		writeEnvelope(w, http.StatusNotFound, envelope{Message: de.Message})
	case apperr.KindInvalidCode, apperr.KindExpiredCode:
		// Both surface as 400 with a human-readable message; the
		// response shape does not distinguish them.
		writeEnvelope(w, http.StatusBadRequest, envelope{Message: de.Message})
	default:
		logger.Error("unclassified domain error", logger.ErrorField(err))
		writeEnvelope(w, http.StatusInternalServerError, envelope{Message: "internal server error"})
	}
}
