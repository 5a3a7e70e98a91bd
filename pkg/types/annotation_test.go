package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnnotationRequest(t *testing.T) {
	t.Run("splits fixed columns from the opaque remainder", func(t *testing.T) {
		req := ParseAnnotationRequest(map[string]any{
			"resource": "map1",
			"item":     "itemA",
			"created":  "2023-05-01T10:00:00+00:00",
			"creator": map[string]any{
				"name":      "Test User",
				"email":     "test@example.org",
				"orcid":     "0000-0002-1825-0097",
				"canUpdate": true,
			},
			"feature": map[string]any{"type": "Point"},
			"comment": "looks wrong",
			"rdfs:comment": "a label",
		})

		assert.Equal(t, "map1", req.Resource)
		assert.Equal(t, "itemA", req.Item)
		assert.Equal(t, "2023-05-01T10:00:00+00:00", req.Created)
		assert.Equal(t, "0000-0002-1825-0097", req.Creator.ORCID)
		assert.True(t, req.Creator.CanUpdate)
		assert.Equal(t, map[string]any{"type": "Point"}, req.Feature)
		assert.Equal(t, map[string]any{
			"comment":      "looks wrong",
			"rdfs:comment": "a label",
		}, req.Extra)
	})

	t.Run("defaults created to now in UTC at second precision", func(t *testing.T) {
		req := ParseAnnotationRequest(map[string]any{"resource": "map1", "item": "a"})

		created, err := time.Parse(CreatedLayout, req.Created)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().UTC(), created, 5*time.Second)
		assert.Equal(t, 0, created.Nanosecond())
	})

	t.Run("discards a feature that is not an object", func(t *testing.T) {
		req := ParseAnnotationRequest(map[string]any{
			"resource": "map1",
			"item":     "a",
			"feature":  "not-a-feature",
		})
		assert.Nil(t, req.Feature)
		assert.NotContains(t, req.Extra, "feature")
	})
}

func TestAnnotationRequestValidate(t *testing.T) {
	valid := AnnotationRequest{
		Resource: "map1",
		Item:     "itemA",
		Creator:  UserData{ORCID: "0000-1"},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*AnnotationRequest)
	}{
		{"missing resource", func(r *AnnotationRequest) { r.Resource = "" }},
		{"missing item", func(r *AnnotationRequest) { r.Item = "" }},
		{"missing creator orcid", func(r *AnnotationRequest) { r.Creator.ORCID = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			assert.ErrorIs(t, req.Validate(), ErrValidation)
		})
	}
}

func TestAnnotationMarshalJSON(t *testing.T) {
	t.Run("flattens extra fields beside the fixed keys", func(t *testing.T) {
		a := Annotation{
			ID:       7,
			Resource: "map1",
			Item:     "itemA",
			Created:  "2023-05-01T10:00:00+00:00",
			Creator:  UserData{Name: "Test User", ORCID: "0000-1", CanUpdate: true},
			Extra:    map[string]any{"comment": "x"},
		}

		data, err := json.Marshal(a)
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		assert.EqualValues(t, 7, m["annotationId"])
		assert.Equal(t, "map1", m["resource"])
		assert.Equal(t, "x", m["comment"])
		assert.NotContains(t, m, "feature")

		creator := m["creator"].(map[string]any)
		assert.Equal(t, "0000-1", creator["orcid"])
		assert.NotContains(t, creator, "canUpdate")
	})

	t.Run("encodes an explicit null feature on lookups", func(t *testing.T) {
		a := Annotation{ID: 1, WithFeature: true}
		data, err := json.Marshal(a)
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		v, ok := m["feature"]
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("round-trips through UnmarshalJSON", func(t *testing.T) {
		a := Annotation{
			ID:       3,
			Resource: "map1",
			Item:     "itemB",
			Created:  "2023-05-01T10:00:00+00:00",
			Creator:  UserData{Name: "Test User", Email: "test@example.org", ORCID: "0000-1"},
			Extra:    map[string]any{"comment": "x", "evidence": []any{"https://example.org"}},
		}

		data, err := json.Marshal(a)
		require.NoError(t, err)

		var got Annotation
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, a.ID, got.ID)
		assert.Equal(t, a.Resource, got.Resource)
		assert.Equal(t, a.Item, got.Item)
		assert.Equal(t, a.Creator, got.Creator)
		assert.Equal(t, a.Extra, got.Extra)
		assert.False(t, got.WithFeature)
	})
}

func TestUserDataStored(t *testing.T) {
	u := UserData{Name: "Test User", ORCID: "0000-1", CanUpdate: true}
	stored := u.Stored()
	assert.False(t, stored.CanUpdate)
	assert.Equal(t, u.ORCID, stored.ORCID)
	assert.True(t, u.CanUpdate, "original is not mutated")
}
