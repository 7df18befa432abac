package odm

import "context"

// Collection is a named set of documents in a Store. out arguments are
// pointers to a document (FindByID, FindOne) or to a slice of documents (Find).
type Collection interface {
	Name() string
	// Init prepares the backing storage (tables, etc.), if the backend needs it.
	Init(ctx context.Context) error
	EnsureUnique(ctx context.Context, field string) error

	Insert(ctx context.Context, doc Document) error
	Replace(ctx context.Context, doc Document) error
	Delete(ctx context.Context, id string) error

	FindByID(ctx context.Context, id string, out any) error
	FindOne(ctx context.Context, filter *Filter, out any) error
	Find(ctx context.Context, filter *Filter, opts FindOptions, out any) error
	Count(ctx context.Context, filter *Filter) (int64, error)

	// Inc atomically adds delta to a numeric field of the documents matched
	// by filter. Returns ErrNotFound if nothing matched.
	Inc(ctx context.Context, filter *Filter, field string, delta int64) error
}

type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	Driver() string
}
