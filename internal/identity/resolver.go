// Package identity resolves credential keys to user identities through an
// external identity provider.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dbrnz/flatmap-server/pkg/types"
)

// Resolver resolves a credential key to a user identity. Resolution happens
// once per session, at authentication time.
type Resolver interface {
	Resolve(ctx context.Context, key string) (types.UserData, error)
}

// HTTPResolver queries an identity endpoint with the credential key. The
// endpoint is expected to return a JSON identity object, or an object with
// an "error" member when the key is not recognised.
type HTTPResolver struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPResolver returns a resolver for the given endpoint with a bounded
// request timeout.
func NewHTTPResolver(endpoint string) *HTTPResolver {
	return &HTTPResolver{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Resolve calls the identity endpoint. Unrecognised keys and transport
// failures both surface as ErrForbidden so callers leak nothing about
// which occurred.
func (r *HTTPResolver) Resolve(ctx context.Context, key string) (types.UserData, error) {
	u, err := url.Parse(r.Endpoint)
	if err != nil {
		return types.UserData{}, fmt.Errorf("identity endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", key)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return types.UserData{}, fmt.Errorf("building identity request: %w", err)
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return types.UserData{}, types.ErrForbidden
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.UserData{}, types.ErrForbidden
	}

	var body struct {
		types.UserData
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return types.UserData{}, types.ErrForbidden
	}
	if body.Error != "" || body.ORCID == "" {
		return types.UserData{}, types.ErrForbidden
	}
	return body.UserData, nil
}

// Static resolves every key to a fixed identity. It backs local development
// and tests when no identity endpoint is configured.
type Static struct {
	User types.UserData
}

// TestUser is the development identity used when no endpoint is configured.
var TestUser = types.UserData{
	Name:      "Test User",
	Email:     "test@example.org",
	ORCID:     "0000-0002-1825-0097",
	CanUpdate: true,
}

// Resolve returns the fixed identity for any non-empty key.
func (s Static) Resolve(_ context.Context, key string) (types.UserData, error) {
	if key == "" {
		return types.UserData{}, types.ErrForbidden
	}
	return s.User, nil
}
