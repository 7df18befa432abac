package blog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/2beens/portfolio/internal/odm"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"
)

const (
	CollectionName = "posts"
	maxSlugSuffix  = 100
)

var (
	ErrPostNotFound = errors.New("blog post not found")
	ErrSlugTaken    = errors.New("slug already taken")
)

type ListParams struct {
	Page   int
	Size   int
	Tag    string
	Query  string
	Status string // empty means any
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
	return r.coll.EnsureUnique(ctx, "slug")
}

// Save stores the post, picking a free slug: the derived one, or the
// derived one with a -2, -3, ... suffix.
func (r *Repo) Save(ctx context.Context, post *Post) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.save")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	base := post.Slug
	if base == "" {
		base = post.Title
	}
	base = pkg.Slugify(base)

	if base != "" {
		slug, err := r.freeSlug(ctx, base, post.ID)
		if err != nil {
			return err
		}
		post.Slug = slug
	}

	if err := odm.Save(ctx, r.coll, post); err != nil {
		switch {
		case errors.Is(err, odm.ErrDuplicate):
			return ErrSlugTaken
		case errors.Is(err, odm.ErrNotFound):
			return ErrPostNotFound
		}
		return err
	}
	return nil
}

func (r *Repo) freeSlug(ctx context.Context, base, ownID string) (string, error) {
	candidate := base
	for i := 2; i <= maxSlugSuffix+1; i++ {
		var existing Post
		err := r.coll.FindOne(ctx, odm.Where("slug", candidate), &existing)
		if errors.Is(err, odm.ErrNotFound) || (err == nil && existing.ID == ownID) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("check slug %s: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", ErrSlugTaken
}

func (r *Repo) Get(ctx context.Context, id string) (*Post, error) {
	post, err := odm.Get[Post](ctx, r.coll, id)
	if err != nil {
		if errors.Is(err, odm.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	return post, nil
}

// GetPublished returns the published post with the given slug.
func (r *Repo) GetPublished(ctx context.Context, slug string) (*Post, error) {
	post, err := odm.First[Post](ctx, r.coll, odm.Where("slug", slug).And("status", StatusPublished))
	if err != nil {
		if errors.Is(err, odm.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post by slug %s: %w", slug, err)
	}
	return post, nil
}

func listFilter(params ListParams) *odm.Filter {
	f := &odm.Filter{}
	if params.Status != "" {
		f.And("status", params.Status)
	}
	if params.Tag != "" {
		f.ArrayContains("tags", params.Tag)
	}
	return f.Search(params.Query, "title", "excerpt", "content")
}

// List returns a page of posts. Published listings are ordered by publish
// date, the rest by creation date, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Post, total int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	sortBy := []odm.SortField{odm.Desc("created_at")}
	if params.Status == StatusPublished {
		sortBy = []odm.SortField{odm.Desc("published_at"), odm.Desc("created_at")}
	}

	filter := listFilter(params)
	posts, err := odm.All[Post](ctx, r.coll, filter, odm.Page(params.Page, params.Size, sortBy...))
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	total, err = r.coll.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	return posts, total, nil
}

// Tags returns the distinct tags of published posts, sorted.
func (r *Repo) Tags(ctx context.Context) ([]string, error) {
	posts, err := odm.All[Post](ctx, r.coll, odm.Where("status", StatusPublished), odm.FindOptions{})
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}

	seen := map[string]bool{}
	tags := []string{}
	for _, p := range posts {
		for _, t := range p.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags, nil
}

// IncrementViews counts a view, only for published posts.
func (r *Repo) IncrementViews(ctx context.Context, id string) error {
	err := r.coll.Inc(ctx, odm.ByID(id).And("status", StatusPublished), "views", 1)
	if errors.Is(err, odm.ErrNotFound) {
		return ErrPostNotFound
	}
	return err
}

// IncrementLikes counts a like, regardless of the post status.
func (r *Repo) IncrementLikes(ctx context.Context, id string) error {
	err := r.coll.Inc(ctx, odm.ByID(id), "likes", 1)
	if errors.Is(err, odm.ErrNotFound) {
		return ErrPostNotFound
	}
	return err
}

// GetBySlug returns the post with the given slug, in any status.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	post, err := odm.First[Post](ctx, r.coll, odm.Where("slug", slug))
	if err != nil {
		if errors.Is(err, odm.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post by slug %s: %w", slug, err)
	}
	return post, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.coll.Delete(ctx, id); err != nil {
		if errors.Is(err, odm.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}

// Count returns the number of posts in the given status, or all when empty.
func (r *Repo) Count(ctx context.Context, status string) (int64, error) {
	var filter *odm.Filter
	if status != "" {
		filter = odm.Where("status", status)
	}
	return r.coll.Count(ctx, filter)
}

type Totals struct {
	Views int64 `json:"views"`
	Likes int64 `json:"likes"`
}

func (r *Repo) Totals(ctx context.Context) (Totals, error) {
	posts, err := odm.All[Post](ctx, r.coll, nil, odm.FindOptions{})
	if err != nil {
		return Totals{}, fmt.Errorf("list posts: %w", err)
	}
	var t Totals
	for _, p := range posts {
		t.Views += p.Views
		t.Likes += p.Likes
	}
	return t, nil
}
