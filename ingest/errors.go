package ingest

import "errors"

var (
	// ErrMissingFrontmatter is returned when a record has no metadata envelope.
	ErrMissingFrontmatter = errors.New("frontmatter not found")

	// ErrInvalidFrontmatter is returned when the metadata envelope cannot be parsed.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")

	// ErrMissingMetadataField is returned when a required metadata field is empty.
	ErrMissingMetadataField = errors.New("missing required metadata field")

	// ErrCatalogRequired is returned when a concept catalog is not provided.
	ErrCatalogRequired = errors.New("concept catalog required")

	// ErrEntityRepositoryRequired is returned when an entity repository is not provided.
	ErrEntityRepositoryRequired = errors.New("entity repository required")

	// ErrWarehouseRequired is returned when a warehouse is not provided.
	ErrWarehouseRequired = errors.New("warehouse required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")
)
