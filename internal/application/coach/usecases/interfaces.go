package usecases

import "context"

// ListingCache stores serialized coach directory pages.
type ListingCache interface {
	Get(ctx context.Context, query string) ([]byte, error)
	Set(ctx context.Context, query string, page []byte) error
	Invalidate(ctx context.Context) error
}
