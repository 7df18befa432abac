package uploads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/2beens/portfolio/internal/odm"
)

const (
	CollectionName     = "uploads"
	maxOriginalNameLen = 255
)

var ErrUploadNotFound = errors.New("upload not found")

type Upload struct {
	odm.Base      `bson:",inline"`
	FileName      string     `bson:"file_name" json:"file_name" validate:"required,max=100"`
	ThumbnailName string     `bson:"thumbnail_name" json:"thumbnail_name" validate:"required,max=100"`
	OriginalName  string     `bson:"original_name" json:"original_name" validate:"max=255"`
	MimeType      string     `bson:"mime_type" json:"mime_type" validate:"required,oneof=image/jpeg image/png"`
	Size          int64      `bson:"size" json:"size"`
	Width         int        `bson:"width" json:"width"`
	Height        int        `bson:"height" json:"height"`
	URL           string     `bson:"url" json:"url" validate:"required"`
	ThumbnailURL  string     `bson:"thumbnail_url" json:"thumbnail_url"`
	UploaderID    string     `bson:"uploader_id,omitempty" json:"uploader_id,omitempty"`
	TakenAt       *time.Time `bson:"taken_at,omitempty" json:"taken_at,omitempty"`
}

func (u *Upload) BeforeSave(_ context.Context) error {
	u.OriginalName = strings.TrimSpace(u.OriginalName)
	// validated in runes, cut on a rune boundary
	if utf8.RuneCountInString(u.OriginalName) > maxOriginalNameLen {
		u.OriginalName = string([]rune(u.OriginalName)[:maxOriginalNameLen])
	}
	return nil
}

type Repo struct {
	coll odm.Collection
}

func NewRepo(store odm.Store) *Repo {
	return &Repo{
		coll: store.Collection(CollectionName),
	}
}

func (r *Repo) Setup(ctx context.Context) error {
	if err := r.coll.Init(ctx); err != nil {
		return err
	}
	return r.coll.EnsureUnique(ctx, "file_name")
}

func (r *Repo) Save(ctx context.Context, upload *Upload) error {
	return odm.Save(ctx, r.coll, upload)
}

func (r *Repo) Get(ctx context.Context, id string) (*Upload, error) {
	upload, err := odm.Get[Upload](ctx, r.coll, id)
	if err != nil {
		if errors.Is(err, odm.ErrNotFound) {
			return nil, ErrUploadNotFound
		}
		return nil, fmt.Errorf("get upload %s: %w", id, err)
	}
	return upload, nil
}

func (r *Repo) List(ctx context.Context, page, size int) ([]Upload, int64, error) {
	uploads, err := odm.All[Upload](ctx, r.coll, nil, odm.Page(page, size, odm.Desc("created_at")))
	if err != nil {
		return nil, 0, fmt.Errorf("list uploads: %w", err)
	}
	total, err := r.coll.Count(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("count uploads: %w", err)
	}
	return uploads, total, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.coll.Delete(ctx, id); err != nil {
		if errors.Is(err, odm.ErrNotFound) {
			return ErrUploadNotFound
		}
		return fmt.Errorf("delete upload %s: %w", id, err)
	}
	return nil
}

func (r *Repo) Count(ctx context.Context) (int64, error) {
	return r.coll.Count(ctx, nil)
}
