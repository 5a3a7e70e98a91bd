package types

// Response shapes returned by the store's read operations. Slices are
// always non-nil so empty results encode as [] rather than null.

// ItemList is the set of annotated items under a resource.
type ItemList struct {
	Resource string   `json:"resource"`
	Items    []string `json:"items"`
}

// UserItemList is the set of items a given user did (or did not)
// participate in annotating.
type UserItemList struct {
	Resource     string   `json:"resource"`
	Items        []string `json:"items"`
	UserID       *string  `json:"userId"`
	Participated bool     `json:"participated"`
}

// FeatureList is the currently-undeleted feature blobs for a resource,
// ordered by item.
type FeatureList struct {
	Resource string           `json:"resource"`
	Features []map[string]any `json:"features"`
}

// AddResult is the outcome of adding an annotation.
type AddResult struct {
	AnnotationID int64 `json:"annotationId"`
}
