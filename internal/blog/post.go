package blog

import (
	"context"
	"strings"
	"time"

	"github.com/2beens/portfolio/internal/odm"
	"github.com/2beens/portfolio/pkg"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

type Post struct {
	odm.Base    `bson:",inline"`
	Title       string     `bson:"title" json:"title" validate:"required,max=200"`
	Slug        string     `bson:"slug" json:"slug" validate:"required,max=250"`
	Excerpt     string     `bson:"excerpt" json:"excerpt" validate:"max=500"`
	Content     string     `bson:"content" json:"content" validate:"required"`
	ContentHTML string     `bson:"content_html" json:"content_html"`
	CoverImage  string     `bson:"cover_image,omitempty" json:"cover_image,omitempty" validate:"max=500"`
	AuthorID    string     `bson:"author_id" json:"author_id"`
	Tags        []string   `bson:"tags" json:"tags"`
	Status      string     `bson:"status" json:"status" validate:"required,oneof=draft published"`
	PublishedAt *time.Time `bson:"published_at" json:"published_at"`
	Views       int64      `bson:"views" json:"views"`
	Likes       int64      `bson:"likes" json:"likes"`
	ReadingTime int        `bson:"reading_time" json:"reading_time"`
}

func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}

// BeforeSave derives the slug, rendered content, excerpt, reading time and
// publish date from the authored fields.
func (p *Post) BeforeSave(_ context.Context) error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Status == "" {
		p.Status = StatusDraft
	}

	if p.Slug == "" {
		p.Slug = pkg.Slugify(p.Title)
	} else {
		p.Slug = pkg.Slugify(p.Slug)
	}

	p.Tags = NormalizeTags(p.Tags)

	rendered, err := RenderMarkdown(p.Content)
	if err != nil {
		return err
	}
	p.ContentHTML = rendered

	text := PlainText(rendered)
	p.Excerpt = strings.TrimSpace(p.Excerpt)
	if p.Excerpt == "" {
		p.Excerpt = Excerpt(text)
	}
	p.ReadingTime = ReadingTime(text)

	if p.IsPublished() && p.PublishedAt == nil {
		now := odm.Now()
		p.PublishedAt = &now
	}

	return nil
}
