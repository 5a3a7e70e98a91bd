package api

import (
	"errors"
	"net/http"

	"github.com/dbrnz/flatmap-server/pkg/types"
)

// authenticate resolves the credential key and opens a session. The
// response carries the derived session token and the resolved identity.
func (rt *Router) authenticate(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	auth, err := rt.svc.Authenticate(r.Context(), key)
	if err != nil {
		forbidden(w)
		return
	}
	writeJSON(w, http.StatusOK, auth)
}

// unauthenticate drops the caller's session. The reply does not disclose
// whether a session existed.
func (rt *Router) unauthenticate(w http.ResponseWriter, r *http.Request) {
	rt.svc.Unauthenticate(r.URL.Query().Get("session"))
	writeJSON(w, http.StatusOK, map[string]string{"success": "Unauthenticated"})
}

// annotatedItems lists annotated items for a resource; with a user
// parameter it lists the items that user did (or, with participated=false,
// did not) annotate.
func (rt *Router) annotatedItems(w http.ResponseWriter, r *http.Request) {
	resource := stringParam(r, "resource")

	var userID *string
	participated := true
	if user := stringParam(r, "user"); user != "" {
		userID = &user
		if p, ok := jsonParam(r, "participated").(bool); ok {
			participated = p
		}
	}

	result, err := rt.svc.ListItems(resource, userID, participated)
	if err != nil {
		rt.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// features lists the current feature blobs for a resource, restricted to
// the given items when an items parameter is present.
func (rt *Router) features(w http.ResponseWriter, r *http.Request) {
	resource := stringParam(r, "resource")

	var items []string
	switch v := jsonParam(r, "items").(type) {
	case string:
		items = []string{v}
	case []any:
		items = []string{}
		for _, it := range v {
			if s, ok := it.(string); ok {
				items = append(items, s)
			}
		}
	}

	result, err := rt.svc.ListFeatures(resource, items)
	if err != nil {
		rt.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// annotations lists annotation records filtered by resource and item.
func (rt *Router) annotations(w http.ResponseWriter, r *http.Request) {
	result, err := rt.svc.ListAnnotations(stringParam(r, "resource"), stringParam(r, "item"))
	if err != nil {
		rt.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// annotation returns a single annotation by identifier, or an empty object
// when the identifier is unknown.
func (rt *Router) annotation(w http.ResponseWriter, r *http.Request) {
	id, ok := jsonParam(r, "annotation").(float64)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	result, err := rt.svc.GetAnnotation(int64(id))
	if err != nil {
		rt.serviceError(w, err)
		return
	}
	if result == nil {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// addAnnotation stores a new annotation. The session's update capability,
// captured at authentication time, gates the write; validation and store
// failures come back as structured error results, not transport faults.
func (rt *Router) addAnnotation(w http.ResponseWriter, r *http.Request) {
	if !canUpdate(r) {
		forbidden(w)
		return
	}
	payload, _ := requestBody(r)["data"].(map[string]any)
	if payload == nil {
		payload = map[string]any{}
	}

	result, err := rt.svc.AddAnnotation(payload)
	switch {
	case errors.Is(err, types.ErrValidation):
		writeJSON(w, http.StatusOK, map[string]string{"error": "validation"})
	case err != nil:
		writeJSON(w, http.StatusOK, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

// download exports every annotation in the store. The export is public by
// design; it contains only what authenticated users chose to publish.
func (rt *Router) download(w http.ResponseWriter, r *http.Request) {
	result, err := rt.svc.ExportAll()
	if err != nil {
		rt.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// serviceError maps unexpected service failures onto a 500 with a terse
// body; details go to the log, not the client.
func (rt *Router) serviceError(w http.ResponseWriter, err error) {
	rt.log.Error().Err(err).Msg("annotation service failure")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
