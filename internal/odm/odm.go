package odm

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json field names in validation errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Now is used for document timestamps, replaceable in tests.
var Now = func() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Validate runs struct validation on doc using its `validate` tags.
func Validate(doc any) error {
	if err := validate.Struct(doc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fromValidatorErrors(verrs)
		}
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

// Save runs the BeforeSave hook and validation, then inserts the document
// when it has no id yet, or replaces it otherwise.
func Save(ctx context.Context, coll Collection, doc Document) error {
	if hook, ok := doc.(BeforeSaver); ok {
		if err := hook.BeforeSave(ctx); err != nil {
			return err
		}
	}
	if err := Validate(doc); err != nil {
		return err
	}

	now := Now()
	doc.SetUpdatedAt(now)

	if doc.GetID() == "" {
		doc.SetID(uuid.NewString())
		doc.SetCreatedAt(now)
		if err := coll.Insert(ctx, doc); err != nil {
			doc.SetID("")
			return err
		}
		return nil
	}

	if doc.GetCreatedAt().IsZero() {
		doc.SetCreatedAt(now)
	}
	return coll.Replace(ctx, doc)
}

// Get loads the document with the given id.
func Get[T any](ctx context.Context, coll Collection, id string) (*T, error) {
	var out T
	if err := coll.FindByID(ctx, id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// First loads the first document matching filter.
func First[T any](ctx context.Context, coll Collection, filter *Filter) (*T, error) {
	var out T
	if err := coll.FindOne(ctx, filter, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// All loads every document matching filter, never returning a nil slice.
func All[T any](ctx context.Context, coll Collection, filter *Filter, opts FindOptions) ([]T, error) {
	out := []T{}
	if err := coll.Find(ctx, filter, opts, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
