package api

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// forbidden is the uniform rejection for auth failures: an error tag and
// nothing else.
func forbidden(w http.ResponseWriter) {
	writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
}

// serveJSONFile sends a sidecar JSON file, or an empty object when the map
// exists but the file was never built.
func serveJSONFile(w http.ResponseWriter, r *http.Request, path string) {
	if _, err := os.Stat(path); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	http.ServeFile(w, r, path)
}

// jsonParam decodes a query parameter the way map viewers send them:
// JSON-encoded values. A value that is not valid JSON is taken verbatim.
// Returns nil when the parameter is absent.
func jsonParam(r *http.Request, name string) any {
	if !r.URL.Query().Has(name) {
		return nil
	}
	raw := r.URL.Query().Get(name)
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return raw
	}
	return decoded
}

// stringParam returns a query parameter as its string form.
func stringParam(r *http.Request, name string) string {
	switch v := jsonParam(r, name).(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return r.URL.Query().Get(name)
	}
}

// tileCoords parses the {z}/{x}/{y} route segments.
func tileCoords(r *http.Request) (z, x, y int, ok bool) {
	var errZ, errX, errY error
	z, errZ = strconv.Atoi(chi.URLParam(r, "z"))
	x, errX = strconv.Atoi(chi.URLParam(r, "x"))
	y, errY = strconv.Atoi(chi.URLParam(r, "y"))
	ok = errZ == nil && errX == nil && errY == nil && z >= 0
	return z, x, y, ok
}
