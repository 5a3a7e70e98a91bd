package types

import (
	"encoding/json"
	"time"
)

// CreatedLayout is the timestamp format of the annotations.created column:
// UTC, second precision, numeric offset. Rows written by earlier deployments
// use the same form, so the column stays byte-comparable and `order by
// created desc` remains a valid recency sort.
const CreatedLayout = "2006-01-02T15:04:05-07:00"

// Now returns the current UTC time formatted for the created column.
func Now() string {
	return time.Now().UTC().Format(CreatedLayout)
}

// Annotation is one record of the append-only annotation log. The fixed
// columns are explicit fields; caller-defined fields (comment, evidence
// links, arbitrary properties) live in Extra and are flattened into the
// JSON encoding alongside the fixed keys.
type Annotation struct {
	ID       int64
	Resource string
	Item     string
	Created  string
	Creator  UserData
	Extra    map[string]any

	// Feature is the annotation's still-current feature, populated only by
	// single-annotation lookup. WithFeature controls whether the encoding
	// carries a feature key at all, so list results stay free of it while
	// lookups encode an explicit null when the feature was superseded.
	Feature     map[string]any
	WithFeature bool
}

// annotationKeys are the fixed keys of the JSON encoding; everything else
// round-trips through Extra.
var annotationKeys = map[string]bool{
	"annotationId": true,
	"resource":     true,
	"item":         true,
	"created":      true,
	"creator":      true,
	"feature":      true,
}

// MarshalJSON flattens Extra into the record. Fixed keys win over Extra.
func (a Annotation) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(a.Extra)+6)
	for k, v := range a.Extra {
		m[k] = v
	}
	m["annotationId"] = a.ID
	m["resource"] = a.Resource
	m["item"] = a.Item
	m["created"] = a.Created
	m["creator"] = a.Creator.Stored()
	if a.WithFeature {
		m["feature"] = a.Feature
	}
	return json.Marshal(m)
}

// UnmarshalJSON splits a flattened record back into fixed fields and Extra.
func (a *Annotation) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if v, ok := m["annotationId"].(float64); ok {
		a.ID = int64(v)
	}
	a.Resource, _ = m["resource"].(string)
	a.Item, _ = m["item"].(string)
	a.Created, _ = m["created"].(string)
	if creator, ok := m["creator"].(map[string]any); ok {
		a.Creator = userDataFromMap(creator)
	}
	if feature, ok := m["feature"]; ok {
		a.WithFeature = true
		a.Feature, _ = feature.(map[string]any)
	}
	a.Extra = make(map[string]any)
	for k, v := range m {
		if !annotationKeys[k] {
			a.Extra[k] = v
		}
	}
	if len(a.Extra) == 0 {
		a.Extra = nil
	}
	return nil
}

// AnnotationRequest is a caller-supplied annotation payload split into the
// fixed columns and the opaque remainder.
type AnnotationRequest struct {
	Resource string
	Item     string
	Created  string
	Creator  UserData
	Feature  map[string]any
	Extra    map[string]any
}

// ParseAnnotationRequest splits a decoded JSON payload. The recognised keys
// are removed; whatever remains is the opaque annotation blob. A feature
// value that is not a JSON object is discarded.
func ParseAnnotationRequest(payload map[string]any) AnnotationRequest {
	var req AnnotationRequest
	req.Extra = make(map[string]any, len(payload))
	for k, v := range payload {
		switch k {
		case "resource":
			req.Resource, _ = v.(string)
		case "item":
			req.Item, _ = v.(string)
		case "created":
			req.Created, _ = v.(string)
		case "creator":
			if m, ok := v.(map[string]any); ok {
				req.Creator = userDataFromMap(m)
			}
		case "feature":
			req.Feature, _ = v.(map[string]any)
		default:
			req.Extra[k] = v
		}
	}
	if req.Created == "" {
		req.Created = Now()
	}
	return req
}

// Validate reports ErrValidation unless resource, item, and the creator
// ORCID are all present.
func (r AnnotationRequest) Validate() error {
	if r.Resource == "" || r.Item == "" || r.Creator.ORCID == "" {
		return ErrValidation
	}
	return nil
}
