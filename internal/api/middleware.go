package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// Context keys set by the session middleware.
type contextKey int

const (
	canUpdateKey contextKey = iota
	requestBodyKey
)

// requireSession validates the caller's credential key and session token
// before the wrapped handler runs. The key/session pair arrives in the
// query string on GET and at the top level of the JSON body on POST; the
// decoded POST body is stashed in the context so handlers do not re-read
// it. On success the session's update-capability flag — fixed at
// authentication time — is exposed through the context.
func (rt *Router) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var key, token string
		var body map[string]any

		switch r.Method {
		case http.MethodGet:
			key = r.URL.Query().Get("key")
			token = r.URL.Query().Get("session")
		case http.MethodPost:
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				forbidden(w)
				return
			}
			key, _ = body["key"].(string)
			token, _ = body["session"].(string)
		}

		data, ok := rt.svc.ValidateSession(key, token)
		if !ok {
			forbidden(w)
			return
		}

		ctx := context.WithValue(r.Context(), canUpdateKey, data.CanUpdate)
		if body != nil {
			ctx = context.WithValue(ctx, requestBodyKey, body)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// canUpdate reports the update-capability flag the session middleware
// recorded for this request.
func canUpdate(r *http.Request) bool {
	v, _ := r.Context().Value(canUpdateKey).(bool)
	return v
}

// requestBody returns the JSON body decoded by the session middleware.
func requestBody(r *http.Request) map[string]any {
	body, _ := r.Context().Value(requestBodyKey).(map[string]any)
	return body
}
