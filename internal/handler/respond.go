package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/comanda-pos/api/internal/enum"
	"github.com/comanda-pos/api/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeStoreError maps the store error taxonomy onto HTTP statuses:
// validation 400, missing id 404, disallowed transition 409.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	var vErr *store.ValidationError
	var tErr *store.InvalidTransitionError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": vErr.Error()})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.As(err, &tErr):
		writeJSON(w, http.StatusConflict, map[string]string{"error": tErr.Error()})
	default:
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// committed reports whether a store mutation took effect despite err.
// A post-commit *IOError counts as committed: the save failure is
// logged and raised as a warning, but the request still succeeds.
func committed(op string, notifier store.Notifier, err error) bool {
	if err == nil {
		return true
	}
	var ioErr *store.IOError
	if errors.As(err, &ioErr) {
		log.Printf("ERROR: %s: %v", op, err)
		if notifier != nil {
			notifier.Notify("Changes could not be saved", enum.SeverityWarning)
		}
		return true
	}
	return false
}
