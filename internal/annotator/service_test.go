package annotator

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbrnz/flatmap-server/internal/identity"
	"github.com/dbrnz/flatmap-server/internal/session"
	"github.com/dbrnz/flatmap-server/pkg/types"
)

func newService(t *testing.T) *Service {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "annotation_store.db")
	return New(dbPath, session.NewRegistry(), identity.Static{User: identity.TestUser}, zerolog.Nop())
}

func validPayload(item string) map[string]any {
	return map[string]any{
		"resource": "map1",
		"item":     item,
		"creator": map[string]any{
			"name":  "Test User",
			"orcid": "0000-0002-1825-0097",
		},
		"comment": "note on " + item,
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newService(t)

	resp, err := svc.Authenticate(context.Background(), "my-key")
	require.NoError(t, err)
	assert.Equal(t, session.DeriveToken("my-key"), resp.Session)
	assert.Equal(t, identity.TestUser, resp.Data)

	data, ok := svc.ValidateSession("my-key", resp.Session)
	assert.True(t, ok)
	assert.Equal(t, identity.TestUser, data)

	t.Run("empty key is forbidden", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "")
		assert.ErrorIs(t, err, types.ErrForbidden)
	})
}

func TestUnauthenticate(t *testing.T) {
	svc := newService(t)

	resp, err := svc.Authenticate(context.Background(), "my-key")
	require.NoError(t, err)

	assert.True(t, svc.Unauthenticate(resp.Session))

	// The session is gone: a matching key/token pair no longer validates.
	_, ok := svc.ValidateSession("my-key", resp.Session)
	assert.False(t, ok)
	assert.False(t, svc.Unauthenticate(resp.Session))
}

func TestValidateSession(t *testing.T) {
	svc := newService(t)
	resp, err := svc.Authenticate(context.Background(), "my-key")
	require.NoError(t, err)

	tests := []struct {
		name  string
		key   string
		token string
		ok    bool
	}{
		{"matching pair", "my-key", resp.Session, true},
		{"wrong token for key", "my-key", session.DeriveToken("other"), false},
		{"token without session", "other", session.DeriveToken("other"), false},
		{"empty key", "", resp.Session, false},
		{"empty token", "my-key", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := svc.ValidateSession(tt.key, tt.token)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestListItemsDispatch(t *testing.T) {
	svc := newService(t)

	_, err := svc.AddAnnotation(validPayload("itemA"))
	require.NoError(t, err)

	payload := validPayload("itemB")
	payload["creator"] = map[string]any{"name": "Other", "orcid": "0000-9"}
	_, err = svc.AddAnnotation(payload)
	require.NoError(t, err)

	t.Run("without a user", func(t *testing.T) {
		result, err := svc.ListItems("map1", nil, true)
		require.NoError(t, err)
		items, ok := result.(types.ItemList)
		require.True(t, ok)
		assert.Equal(t, []string{"itemA", "itemB"}, items.Items)
	})

	t.Run("with a user", func(t *testing.T) {
		user := "0000-9"
		result, err := svc.ListItems("map1", &user, true)
		require.NoError(t, err)
		items, ok := result.(types.UserItemList)
		require.True(t, ok)
		assert.Equal(t, []string{"itemB"}, items.Items)
	})
}

func TestListFeaturesDispatch(t *testing.T) {
	svc := newService(t)

	payload := validPayload("itemA")
	payload["feature"] = map[string]any{"type": "Point"}
	_, err := svc.AddAnnotation(payload)
	require.NoError(t, err)

	all, err := svc.ListFeatures("map1", nil)
	require.NoError(t, err)
	assert.Len(t, all.Features, 1)

	selected, err := svc.ListFeatures("map1", []string{"itemB"})
	require.NoError(t, err)
	assert.Empty(t, selected.Features)
}

func TestAddAnnotationErrors(t *testing.T) {
	svc := newService(t)

	_, err := svc.AddAnnotation(map[string]any{"resource": "map1"})
	assert.ErrorIs(t, err, types.ErrValidation)

	annotations, err := svc.ListAnnotations("", "")
	require.NoError(t, err)
	assert.Empty(t, annotations)
}

func TestGetAnnotation(t *testing.T) {
	svc := newService(t)

	added, err := svc.AddAnnotation(validPayload("itemA"))
	require.NoError(t, err)

	a, err := svc.GetAnnotation(added.AnnotationID)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "itemA", a.Item)

	missing, err := svc.GetAnnotation(999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestExportAll(t *testing.T) {
	svc := newService(t)

	for _, item := range []string{"itemA", "itemB"} {
		_, err := svc.AddAnnotation(validPayload(item))
		require.NoError(t, err)
	}
	payload := validPayload("other")
	payload["resource"] = "map2"
	_, err := svc.AddAnnotation(payload)
	require.NoError(t, err)

	all, err := svc.ExportAll()
	require.NoError(t, err)
	assert.Len(t, all, 3, "export spans all resources")
}
