package sharebox

import "context"

// TagRepo persists object tags for backends that have no native tagging,
// such as the local filesystem store.
type TagRepo interface {
	// SetTag creates or replaces the tag name on the object.
	SetTag(ctx context.Context, bucket, key, name, value string) error

	// GetTags returns every tag of the object, or an empty map when it has none.
	GetTags(ctx context.Context, bucket, key string) (map[string]string, error)
}
