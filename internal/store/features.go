package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dbrnz/flatmap-server/pkg/types"
)

// Features returns every currently-undeleted feature blob for resource,
// ordered by item.
func (s *Store) Features(resource string) (types.FeatureList, error) {
	result := types.FeatureList{Resource: resource, Features: []map[string]any{}}
	if err := s.ready(); err != nil {
		return result, err
	}
	return s.queryFeatures(result,
		`select feature from features where deleted is null and resource = ? order by item`,
		resource,
	)
}

// ItemFeatures restricts Features to the given item identifiers. An empty
// item list returns an empty result without touching the database.
func (s *Store) ItemFeatures(resource string, items []string) (types.FeatureList, error) {
	result := types.FeatureList{Resource: resource, Features: []map[string]any{}}
	if err := s.ready(); err != nil {
		return result, err
	}
	if len(items) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(items)), ", ")
	args := make([]any, 0, len(items)+1)
	args = append(args, resource)
	for _, item := range items {
		args = append(args, item)
	}
	return s.queryFeatures(result,
		`select feature from features where deleted is null and resource = ?
		 and item in (`+placeholders+`) order by item`,
		args...,
	)
}

func (s *Store) queryFeatures(result types.FeatureList, query string, args ...any) (types.FeatureList, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return result, fmt.Errorf("querying features: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return result, fmt.Errorf("scanning feature: %w", err)
		}
		var feature map[string]any
		if err := json.Unmarshal([]byte(blob), &feature); err != nil {
			return result, fmt.Errorf("decoding feature: %w", err)
		}
		result.Features = append(result.Features, feature)
	}
	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("reading features: %w", err)
	}
	return result, nil
}
