package repository

import (
	"context"

	"github.com/faqhub/faqhub/backend/go-services/internal/faq"
)

// ErrNotFound is returned by every implementation when an id does not resolve.
var ErrNotFound = faq.ErrNotFound

// Repository is the document store contract the FAQ manager depends on.
// List returns records in a stable order (creation time, then id).
type Repository interface {
	Create(ctx context.Context, r *faq.Record) error
	List(ctx context.Context) ([]*faq.Record, error)
	Get(ctx context.Context, id string) (*faq.Record, error)
	Update(ctx context.Context, r *faq.Record) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
