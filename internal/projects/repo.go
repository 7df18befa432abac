package projects

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/portfolio/internal/odm"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
)

const CollectionName = "projects"

var ErrProjectNotFound = errors.New("project not found")

type ListParams struct {
	Category string
	Featured *bool
	Status   string // empty means any
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
	return r.coll.Init(ctx)
}

func (r *Repo) Save(ctx context.Context, project *Project) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectsRepo.save")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if err := odm.Save(ctx, r.coll, project); err != nil {
		if errors.Is(err, odm.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Project, error) {
	project, err := odm.Get[Project](ctx, r.coll, id)
	if err != nil {
		if errors.Is(err, odm.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return project, nil
}

func (r *Repo) GetPublished(ctx context.Context, id string) (*Project, error) {
	project, err := odm.First[Project](ctx, r.coll, odm.ByID(id).And("status", StatusPublished))
	if err != nil {
		if errors.Is(err, odm.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("get published project %s: %w", id, err)
	}
	return project, nil
}

// List returns the matching projects: featured first, then by order, then newest.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Project, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectsRepo.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	filter := &odm.Filter{}
	if params.Status != "" {
		filter.And("status", params.Status)
	}
	if params.Category != "" {
		filter.And("category", params.Category)
	}
	if params.Featured != nil {
		filter.And("featured", *params.Featured)
	}

	projects, err := odm.All[Project](ctx, r.coll, filter, odm.FindOptions{
		Sort: []odm.SortField{odm.Desc("featured"), odm.Asc("order"), odm.Desc("created_at")},
	})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.coll.Delete(ctx, id); err != nil {
		if errors.Is(err, odm.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return nil
}

// Count returns the number of projects in the given status, or all when empty.
func (r *Repo) Count(ctx context.Context, status string) (int64, error) {
	var filter *odm.Filter
	if status != "" {
		filter = odm.Where("status", status)
	}
	return r.coll.Count(ctx, filter)
}
