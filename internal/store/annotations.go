package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dbrnz/flatmap-server/pkg/types"
)

// AnnotatedItems returns the distinct items with at least one annotation
// under resource, sorted ascending. An empty store yields an empty list.
func (s *Store) AnnotatedItems(resource string) (types.ItemList, error) {
	result := types.ItemList{Resource: resource, Items: []string{}}
	if err := s.ready(); err != nil {
		return result, err
	}

	rows, err := s.db.Query(
		`select distinct item from annotations where resource = ? order by item`,
		resource,
	)
	if err != nil {
		return result, fmt.Errorf("querying annotated items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item string
		if err := rows.Scan(&item); err != nil {
			return result, fmt.Errorf("scanning annotated item: %w", err)
		}
		result.Items = append(result.Items, item)
	}
	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("reading annotated items: %w", err)
	}
	return result, nil
}

// UserItems returns the distinct items under resource that the given user
// annotated (participated true) or did not (participated false). A nil
// user yields an empty list.
func (s *Store) UserItems(resource string, userID *string, participated bool) (types.UserItemList, error) {
	result := types.UserItemList{
		Resource:     resource,
		Items:        []string{},
		UserID:       userID,
		Participated: participated,
	}
	if err := s.ready(); err != nil {
		return result, err
	}
	if userID == nil {
		return result, nil
	}

	op := "="
	if !participated {
		op = "!="
	}
	rows, err := s.db.Query(
		`select distinct item from annotations where resource = ? and orcid `+op+` ? order by item`,
		resource, *userID,
	)
	if err != nil {
		return result, fmt.Errorf("querying user items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item string
		if err := rows.Scan(&item); err != nil {
			return result, fmt.Errorf("scanning user item: %w", err)
		}
		result.Items = append(result.Items, item)
	}
	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("reading user items: %w", err)
	}
	return result, nil
}

// Annotations returns full annotation records, newest first with creator
// ascending as the tie-break. An empty resource returns every annotation
// in the store (bulk export); item only filters when resource is given.
func (s *Store) Annotations(resource, item string) ([]types.Annotation, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	query := `select rowid, created, creator, annotation, resource, item from annotations`
	args := []any{}
	if resource != "" {
		query += ` where resource = ?`
		args = append(args, resource)
		if item != "" {
			query += ` and item = ?`
			args = append(args, item)
		}
	}
	query += ` order by created desc, creator`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying annotations: %w", err)
	}
	defer rows.Close()

	annotations := []types.Annotation{}
	for rows.Next() {
		a, err := scanAnnotation(rows)
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading annotations: %w", err)
	}
	return annotations, nil
}

// Annotation returns the annotation with the given row identifier, joined
// with its still-current feature. Feature is null when it was superseded
// or never existed. An unknown id returns nil, not an error.
func (s *Store) Annotation(id int64) (*types.Annotation, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	row := s.db.QueryRow(
		`select a.resource, a.item, a.created, a.creator, a.annotation, f.feature
		 from annotations as a
		 left join features as f on a.rowid = f.annotation and f.deleted is null
		 where a.rowid = ?`,
		id,
	)

	var a types.Annotation
	var creatorJSON, blobJSON string
	var featureJSON sql.NullString
	err := row.Scan(&a.Resource, &a.Item, &a.Created, &creatorJSON, &blobJSON, &featureJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning annotation %d: %w", id, err)
	}

	a.ID = id
	a.WithFeature = true
	if err := json.Unmarshal([]byte(creatorJSON), &a.Creator); err != nil {
		return nil, fmt.Errorf("decoding creator of annotation %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(blobJSON), &a.Extra); err != nil {
		return nil, fmt.Errorf("decoding annotation %d: %w", id, err)
	}
	if featureJSON.Valid {
		if err := json.Unmarshal([]byte(featureJSON.String), &a.Feature); err != nil {
			return nil, fmt.Errorf("decoding feature of annotation %d: %w", id, err)
		}
	}
	return &a, nil
}

// scanAnnotation hydrates one row of the list query into an Annotation.
func scanAnnotation(rows *sql.Rows) (types.Annotation, error) {
	var a types.Annotation
	var creatorJSON, blobJSON string
	if err := rows.Scan(&a.ID, &a.Created, &creatorJSON, &blobJSON, &a.Resource, &a.Item); err != nil {
		return a, fmt.Errorf("scanning annotation: %w", err)
	}
	if err := json.Unmarshal([]byte(creatorJSON), &a.Creator); err != nil {
		return a, fmt.Errorf("decoding creator of annotation %d: %w", a.ID, err)
	}
	if err := json.Unmarshal([]byte(blobJSON), &a.Extra); err != nil {
		return a, fmt.Errorf("decoding annotation %d: %w", a.ID, err)
	}
	return a, nil
}
