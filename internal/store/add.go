package store

import (
	"encoding/json"
	"fmt"

	"github.com/dbrnz/flatmap-server/pkg/types"
)

// AddAnnotation appends an annotation record and updates feature state in a
// single transaction:
//
//  1. the annotation row is inserted and its rowid captured;
//  2. every feature row for (resource, item) still marked current is
//     superseded by the new rowid — unconditionally, so an annotation
//     without a feature leaves the item with no current feature;
//  3. when the request carries a non-empty feature, a new current row is
//     inserted; an empty feature object behaves like no feature at all.
//
// Validation failures return ErrValidation with nothing written. Any
// storage failure rolls the whole transaction back; no partial state is
// observable afterwards.
func (s *Store) AddAnnotation(req types.AnnotationRequest) (types.AddResult, error) {
	var result types.AddResult
	if err := s.ready(); err != nil {
		return result, err
	}
	if err := req.Validate(); err != nil {
		return result, err
	}

	creatorJSON, err := json.Marshal(req.Creator.Stored())
	if err != nil {
		return result, fmt.Errorf("encoding creator: %w", err)
	}
	blob := req.Extra
	if blob == nil {
		blob = map[string]any{}
	}
	blobJSON, err := json.Marshal(blob)
	if err != nil {
		return result, fmt.Errorf("encoding annotation: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return result, fmt.Errorf("beginning annotation transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`insert into annotations (resource, item, created, orcid, creator, annotation)
		 values (?, ?, ?, ?, ?, ?)`,
		req.Resource, req.Item, req.Created, req.Creator.ORCID,
		string(creatorJSON), string(blobJSON),
	)
	if err != nil {
		return result, fmt.Errorf("inserting annotation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return result, fmt.Errorf("reading annotation id: %w", err)
	}

	// Supersede whatever feature is current for this item, whether or not
	// a replacement follows.
	_, err = tx.Exec(
		`update features set deleted = ? where deleted is null and resource = ? and item = ?`,
		id, req.Resource, req.Item,
	)
	if err != nil {
		return result, fmt.Errorf("superseding features: %w", err)
	}

	if len(req.Feature) > 0 {
		featureJSON, err := json.Marshal(req.Feature)
		if err != nil {
			return result, fmt.Errorf("encoding feature: %w", err)
		}
		_, err = tx.Exec(
			`insert into features (resource, item, annotation, deleted, feature)
			 values (?, ?, ?, null, ?)`,
			req.Resource, req.Item, id, string(featureJSON),
		)
		if err != nil {
			return result, fmt.Errorf("inserting feature: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("committing annotation: %w", err)
	}

	result.AnnotationID = id
	return result, nil
}
