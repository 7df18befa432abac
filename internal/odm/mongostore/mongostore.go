// Package mongostore is the MongoDB odm backend.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/2beens/portfolio/internal/odm"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ odm.Store = (*Store)(nil)

func New(client *mongo.Client, dbName string) *Store {
	return &Store{
		client: client,
		db:     client.Database(dbName),
	}
}

func (s *Store) Collection(name string) odm.Collection {
	return &Collection{coll: s.db.Collection(name)}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Driver() string { return "mongo" }

type Collection struct {
	coll *mongo.Collection
}

var _ odm.Collection = (*Collection)(nil)

func (c *Collection) Name() string { return c.coll.Name() }

// Init is a no-op, mongo creates collections on first write.
func (c *Collection) Init(_ context.Context) error { return nil }

func (c *Collection) EnsureUnique(ctx context.Context, field string) error {
	_, err := c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: fieldKey(field), Value: 1}},
		Options: options.Index().SetUnique(true).SetName(field + "_uniq"),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("ensure unique %s.%s: %w", c.Name(), field, odm.ErrDuplicate)
		}
		return fmt.Errorf("create unique index %s.%s: %w", c.Name(), field, err)
	}
	return nil
}

func (c *Collection) Insert(ctx context.Context, doc odm.Document) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "mongostore.insert")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if _, err = c.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return odm.ErrDuplicate
		}
		return fmt.Errorf("insert into %s: %w", c.Name(), err)
	}
	return nil
}

func (c *Collection) Replace(ctx context.Context, doc odm.Document) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "mongostore.replace")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": doc.GetID()}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return odm.ErrDuplicate
		}
		return fmt.Errorf("replace in %s: %w", c.Name(), err)
	}
	if res.MatchedCount == 0 {
		return odm.ErrNotFound
	}
	return nil
}

func (c *Collection) Delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", c.Name(), err)
	}
	if res.DeletedCount == 0 {
		return odm.ErrNotFound
	}
	return nil
}

func (c *Collection) FindByID(ctx context.Context, id string, out any) error {
	return c.FindOne(ctx, odm.ByID(id), out)
}

func (c *Collection) FindOne(ctx context.Context, filter *odm.Filter, out any) error {
	err := c.coll.FindOne(ctx, toBSON(filter)).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return odm.ErrNotFound
		}
		return fmt.Errorf("find in %s: %w", c.Name(), err)
	}
	return nil
}

func (c *Collection) Find(ctx context.Context, filter *odm.Filter, opts odm.FindOptions, out any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "mongostore.find")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	cursor, err := c.coll.Find(ctx, toBSON(filter), toFindOptions(opts))
	if err != nil {
		return fmt.Errorf("find in %s: %w", c.Name(), err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", c.Name(), err)
	}
	return nil
}

func (c *Collection) Count(ctx context.Context, filter *odm.Filter) (int64, error) {
	count, err := c.coll.CountDocuments(ctx, toBSON(filter))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", c.Name(), err)
	}
	return count, nil
}

func (c *Collection) Inc(ctx context.Context, filter *odm.Filter, field string, delta int64) error {
	res, err := c.coll.UpdateMany(ctx, toBSON(filter), bson.M{
		"$inc": bson.M{fieldKey(field): delta},
	})
	if err != nil {
		return fmt.Errorf("inc %s.%s: %w", c.Name(), field, err)
	}
	if res.MatchedCount == 0 {
		return odm.ErrNotFound
	}
	return nil
}

func fieldKey(field string) string {
	if field == "id" {
		return "_id"
	}
	return field
}

func toBSON(filter *odm.Filter) bson.M {
	if filter.IsEmpty() {
		return bson.M{}
	}

	var conds []bson.M
	for _, c := range filter.Equals {
		conds = append(conds, bson.M{fieldKey(c.Field): c.Value})
	}
	// equality on an array field matches any element
	for _, c := range filter.Contains {
		conds = append(conds, bson.M{fieldKey(c.Field): c.Value})
	}
	if filter.SearchTerm != "" {
		var ors bson.A
		for _, f := range filter.SearchFields {
			ors = append(ors, bson.M{fieldKey(f): bson.M{
				"$regex":   regexp.QuoteMeta(filter.SearchTerm),
				"$options": "i",
			}})
		}
		conds = append(conds, bson.M{"$or": ors})
	}

	if len(conds) == 1 {
		return conds[0]
	}
	and := make(bson.A, 0, len(conds))
	for _, c := range conds {
		and = append(and, c)
	}
	return bson.M{"$and": and}
}

func toFindOptions(opts odm.FindOptions) *options.FindOptions {
	fo := options.Find()
	if len(opts.Sort) > 0 {
		sort := bson.D{}
		for _, s := range opts.Sort {
			dir := 1
			if s.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: fieldKey(s.Field), Value: dir})
		}
		fo.SetSort(sort)
	}
	if opts.Skip > 0 {
		fo.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		fo.SetLimit(opts.Limit)
	}
	return fo
}
