// Package annotator composes the session registry, the identity resolver,
// and the annotation store into the operation surface the serving layer
// calls. Each operation opens a store handle, dispatches, and closes it;
// no handle outlives a request.
package annotator

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dbrnz/flatmap-server/internal/identity"
	"github.com/dbrnz/flatmap-server/internal/session"
	"github.com/dbrnz/flatmap-server/internal/store"
	"github.com/dbrnz/flatmap-server/pkg/types"
)

// Service exposes the annotation query and mutation operations.
type Service struct {
	dbPath   string
	sessions *session.Registry
	resolver identity.Resolver
	log      zerolog.Logger
}

// New returns a Service persisting to the database at dbPath.
func New(dbPath string, sessions *session.Registry, resolver identity.Resolver, log zerolog.Logger) *Service {
	return &Service{
		dbPath:   dbPath,
		sessions: sessions,
		resolver: resolver,
		log:      log.With().Str("component", "annotator").Logger(),
	}
}

// AuthResponse is the result of a successful authentication.
type AuthResponse struct {
	Session string         `json:"session"`
	Data    types.UserData `json:"data"`
}

// Authenticate resolves key through the identity provider and registers a
// session for it. Unresolvable keys return ErrForbidden.
func (s *Service) Authenticate(ctx context.Context, key string) (AuthResponse, error) {
	if key == "" {
		return AuthResponse{}, types.ErrForbidden
	}
	data, err := s.resolver.Resolve(ctx, key)
	if err != nil {
		s.log.Debug().Err(err).Msg("authentication refused")
		return AuthResponse{}, err
	}
	token := s.sessions.Create(key, data)
	s.log.Debug().Str("orcid", data.ORCID).Msg("session created")
	return AuthResponse{Session: token, Data: data}, nil
}

// Unauthenticate removes the session for token, reporting whether one
// existed.
func (s *Service) Unauthenticate(token string) bool {
	return s.sessions.Remove(token)
}

// ValidateSession checks that token is the derived token for key and that
// a session exists for it, returning the session's identity.
func (s *Service) ValidateSession(key, token string) (types.UserData, bool) {
	if key == "" || token == "" || token != session.DeriveToken(key) {
		return types.UserData{}, false
	}
	return s.sessions.Lookup(token)
}

// ListItems returns the annotated items under resource; with a user it
// returns the items the user did (or did not) participate in annotating.
func (s *Service) ListItems(resource string, userID *string, participated bool) (any, error) {
	var result any
	err := s.withStore(func(st *store.Store) error {
		var err error
		if userID != nil {
			result, err = st.UserItems(resource, userID, participated)
		} else {
			result, err = st.AnnotatedItems(resource)
		}
		return err
	})
	return result, err
}

// ListFeatures returns the current feature blobs under resource, restricted
// to items when items is non-nil.
func (s *Service) ListFeatures(resource string, items []string) (types.FeatureList, error) {
	var result types.FeatureList
	err := s.withStore(func(st *store.Store) error {
		var err error
		if items != nil {
			result, err = st.ItemFeatures(resource, items)
		} else {
			result, err = st.Features(resource)
		}
		return err
	})
	return result, err
}

// ListAnnotations returns annotation records filtered by resource and item.
// Both filters empty returns the full log.
func (s *Service) ListAnnotations(resource, item string) ([]types.Annotation, error) {
	var result []types.Annotation
	err := s.withStore(func(st *store.Store) error {
		var err error
		result, err = st.Annotations(resource, item)
		return err
	})
	return result, err
}

// GetAnnotation returns the annotation with the given identifier, or nil
// when it does not exist.
func (s *Service) GetAnnotation(id int64) (*types.Annotation, error) {
	var result *types.Annotation
	err := s.withStore(func(st *store.Store) error {
		var err error
		result, err = st.Annotation(id)
		return err
	})
	return result, err
}

// AddAnnotation validates and persists a caller-supplied payload.
func (s *Service) AddAnnotation(payload map[string]any) (types.AddResult, error) {
	req := types.ParseAnnotationRequest(payload)
	var result types.AddResult
	err := s.withStore(func(st *store.Store) error {
		var err error
		result, err = st.AddAnnotation(req)
		return err
	})
	if err != nil {
		s.log.Warn().Err(err).Str("resource", req.Resource).Str("item", req.Item).
			Msg("annotation rejected")
	}
	return result, err
}

// ExportAll returns every annotation in the store, newest first.
func (s *Service) ExportAll() ([]types.Annotation, error) {
	return s.ListAnnotations("", "")
}

// withStore opens the annotation store for one logical operation and
// guarantees it is closed on every exit path.
func (s *Service) withStore(fn func(*store.Store) error) error {
	st, err := store.Open(s.dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}
