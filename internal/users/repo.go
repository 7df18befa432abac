package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/portfolio/internal/odm"
)

const CollectionName = "users"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type Repo struct {
	coll        odm.Collection
	adminEmails map[string]bool
}

func NewRepo(store odm.Store, adminEmails []string) *Repo {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		if e = NormalizeEmail(e); e != "" {
			admins[e] = true
		}
	}
	return &Repo{
		coll:        store.Collection(CollectionName),
		adminEmails: admins,
	}
}

func (r *Repo) Setup(ctx context.Context) error {
	if err := r.coll.Init(ctx); err != nil {
		return err
	}
	return r.coll.EnsureUnique(ctx, "email")
}

func (r *Repo) IsAdminEmail(email string) bool {
	return r.adminEmails[NormalizeEmail(email)]
}

// Save inserts or updates the user, enforcing the admin allow-list.
func (r *Repo) Save(ctx context.Context, user *User) error {
	user.adminEmails = r.adminEmails
	if err := odm.Save(ctx, r.coll, user); err != nil {
		switch {
		case errors.Is(err, odm.ErrDuplicate):
			return ErrEmailTaken
		case errors.Is(err, odm.ErrNotFound):
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (*User, error) {
	u, err := odm.Get[User](ctx, r.coll, id)
	if err != nil {
		if errors.Is(err, odm.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := odm.First[User](ctx, r.coll, odm.Where("email", NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, odm.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *Repo) List(ctx context.Context, page, size int) ([]User, int64, error) {
	list, err := odm.All[User](ctx, r.coll, nil, odm.Page(page, size, odm.Desc("created_at")))
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	total, err := r.coll.Count(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	return list, total, nil
}

// Count returns the number of users with the given role, or all when role is empty.
func (r *Repo) Count(ctx context.Context, role string) (int64, error) {
	var filter *odm.Filter
	if role != "" {
		filter = odm.Where("role", role)
	}
	return r.coll.Count(ctx, filter)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.coll.Delete(ctx, id); err != nil {
		if errors.Is(err, odm.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return nil
}
