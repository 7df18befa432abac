package odm

import (
	"context"
	"time"
)

// Document is anything stored in a Collection.
type Document interface {
	GetID() string
	SetID(id string)
	GetCreatedAt() time.Time
	SetCreatedAt(t time.Time)
	SetUpdatedAt(t time.Time)
}

// BeforeSaver is implemented by documents that need to normalize or derive
// fields before being validated and written.
type BeforeSaver interface {
	BeforeSave(ctx context.Context) error
}

// Base carries the id and timestamps every document has.
// Embed it with `bson:",inline"`.
type Base struct {
	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (b *Base) GetID() string            { return b.ID }
func (b *Base) SetID(id string)          { b.ID = id }
func (b *Base) GetCreatedAt() time.Time  { return b.CreatedAt }
func (b *Base) SetCreatedAt(t time.Time) { b.CreatedAt = t }
func (b *Base) SetUpdatedAt(t time.Time) { b.UpdatedAt = t }

// IsNew reports whether the document was never saved.
func (b *Base) IsNew() bool { return b.ID == "" }
