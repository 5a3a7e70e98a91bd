package types

// Store is the annotation store's public contract. Handles are scoped per
// logical operation: open, use, close.
type Store interface {
	// AnnotatedItems returns the distinct items with at least one
	// annotation under resource, sorted ascending.
	AnnotatedItems(resource string) (ItemList, error)

	// UserItems returns the distinct items under resource that the given
	// user annotated (participated true) or did not (participated false).
	// A nil user yields an empty list.
	UserItems(resource string, userID *string, participated bool) (UserItemList, error)

	// Features returns every currently-undeleted feature blob for
	// resource, ordered by item.
	Features(resource string) (FeatureList, error)

	// ItemFeatures restricts Features to the given item identifiers.
	// An empty item list yields an empty result.
	ItemFeatures(resource string, items []string) (FeatureList, error)

	// Annotations returns full annotation records, newest first with
	// creator ascending as the tie-break. An empty resource returns every
	// annotation; item only filters when resource is given.
	Annotations(resource, item string) ([]Annotation, error)

	// Annotation returns the annotation with the given row identifier
	// joined with its still-current feature, or nil when unknown.
	Annotation(id int64) (*Annotation, error)

	// AddAnnotation appends an annotation and updates feature state in a
	// single transaction. Incomplete payloads return ErrValidation with
	// nothing written.
	AddAnnotation(req AnnotationRequest) (AddResult, error)

	// Close releases the store handle.
	Close() error
}
