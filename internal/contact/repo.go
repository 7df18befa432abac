package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/portfolio/internal/odm"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
)

const CollectionName = "contact_messages"

var ErrMessageNotFound = errors.New("contact message not found")

type Repo struct {
	coll odm.Collection
}

func NewRepo(store odm.Store) *Repo {
	return &Repo{
		coll: store.Collection(CollectionName),
	}
}

func (r *Repo) Setup(ctx context.Context) error {
	return r.coll.Init(ctx)
}

func (r *Repo) Save(ctx context.Context, msg *Message) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "contactRepo.save")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if err := odm.Save(ctx, r.coll, msg); err != nil {
		if errors.Is(err, odm.ErrNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Message, error) {
	msg, err := odm.Get[Message](ctx, r.coll, id)
	if err != nil {
		if errors.Is(err, odm.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("get message %s: %w", id, err)
	}
	return msg, nil
}

// List returns a page of messages, newest first. An empty status lists all.
func (r *Repo) List(ctx context.Context, status string, page, size int) ([]Message, int64, error) {
	var filter *odm.Filter
	if status != "" {
		filter = odm.Where("status", status)
	}

	msgs, err := odm.All[Message](ctx, r.coll, filter, odm.Page(page, size, odm.Desc("created_at")))
	if err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}
	total, err := r.coll.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}
	return msgs, total, nil
}

func (r *Repo) SetStatus(ctx context.Context, id, status string) (*Message, error) {
	msg, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	msg.Status = status
	if err := r.Save(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.coll.Delete(ctx, id); err != nil {
		if errors.Is(err, odm.ErrNotFound) {
			return ErrMessageNotFound
		}
		return fmt.Errorf("delete message %s: %w", id, err)
	}
	return nil
}

func (r *Repo) Count(ctx context.Context, status string) (int64, error) {
	var filter *odm.Filter
	if status != "" {
		filter = odm.Where("status", status)
	}
	return r.coll.Count(ctx, filter)
}
