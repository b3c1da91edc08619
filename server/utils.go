package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// decodeBody reads a JSON body into target, answering 400 when it cannot
func decodeBody(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if r.Body == nil {
		writeParseError(io.EOF, w, r)
		return false
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeParseError(err, w, r)
		return false
	}
	return true
}

func writeParseError(err error, w http.ResponseWriter, r *http.Request) {
	if errors.Is(err, io.EOF) {
		writeText(w, http.StatusBadRequest, "Missing body")
		return
	}
	writeText(w, http.StatusBadRequest, "Could not parse body")
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(text))
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
