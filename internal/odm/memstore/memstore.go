// Package memstore is an in-memory odm backend, used in development and tests.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/2beens/portfolio/internal/odm"
)

type Store struct {
	mutex       sync.Mutex
	collections map[string]*Collection
}

var _ odm.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		collections: make(map[string]*Collection),
	}
}

func (s *Store) Collection(name string) odm.Collection {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	c, ok := s.collections[name]
	if !ok {
		c = &Collection{
			name:   name,
			docs:   make(map[string]map[string]any),
			unique: make(map[string]bool),
		}
		s.collections[name] = c
	}
	return c
}

func (s *Store) Ping(_ context.Context) error  { return nil }
func (s *Store) Close(_ context.Context) error { return nil }
func (s *Store) Driver() string                { return "memory" }

type Collection struct {
	name   string
	mutex  sync.RWMutex
	docs   map[string]map[string]any
	order  []string
	unique map[string]bool
}

var _ odm.Collection = (*Collection)(nil)

func (c *Collection) Name() string { return c.name }

func (c *Collection) Init(_ context.Context) error { return nil }

func (c *Collection) EnsureUnique(_ context.Context, field string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	seen := map[string]bool{}
	for _, id := range c.order {
		key := uniqueKey(c.docs[id][field])
		if key == "" {
			continue
		}
		if seen[key] {
			return fmt.Errorf("ensure unique %s.%s: %w", c.name, field, odm.ErrDuplicate)
		}
		seen[key] = true
	}
	c.unique[field] = true
	return nil
}

func (c *Collection) Insert(_ context.Context, doc odm.Document) error {
	m, err := toMap(doc)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	id := doc.GetID()
	if _, ok := c.docs[id]; ok {
		return odm.ErrDuplicate
	}
	if err := c.checkUnique(id, m); err != nil {
		return err
	}
	c.docs[id] = m
	c.order = append(c.order, id)
	return nil
}

func (c *Collection) Replace(_ context.Context, doc odm.Document) error {
	m, err := toMap(doc)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	id := doc.GetID()
	if _, ok := c.docs[id]; !ok {
		return odm.ErrNotFound
	}
	if err := c.checkUnique(id, m); err != nil {
		return err
	}
	c.docs[id] = m
	return nil
}

func (c *Collection) Delete(_ context.Context, id string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, ok := c.docs[id]; !ok {
		return odm.ErrNotFound
	}
	delete(c.docs, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *Collection) FindByID(_ context.Context, id string, out any) error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	m, ok := c.docs[id]
	if !ok {
		return odm.ErrNotFound
	}
	return fromAny(m, out)
}

func (c *Collection) FindOne(_ context.Context, filter *odm.Filter, out any) error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	matched, err := c.match(filter)
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		return odm.ErrNotFound
	}
	return fromAny(matched[0], out)
}

func (c *Collection) Find(_ context.Context, filter *odm.Filter, opts odm.FindOptions, out any) error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	matched, err := c.match(filter)
	if err != nil {
		return err
	}

	if len(opts.Sort) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			return less(matched[i], matched[j], opts.Sort)
		})
	}

	if opts.Skip > 0 {
		if opts.Skip >= int64(len(matched)) {
			matched = nil
		} else {
			matched = matched[opts.Skip:]
		}
	}
	if opts.Limit > 0 && opts.Limit < int64(len(matched)) {
		matched = matched[:opts.Limit]
	}

	if matched == nil {
		matched = []map[string]any{}
	}
	return fromAny(matched, out)
}

func (c *Collection) Count(_ context.Context, filter *odm.Filter) (int64, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	matched, err := c.match(filter)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (c *Collection) Inc(_ context.Context, filter *odm.Filter, field string, delta int64) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	matched, err := c.match(filter)
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		return odm.ErrNotFound
	}
	for _, m := range matched {
		current, _ := m[field].(float64)
		m[field] = current + float64(delta)
	}
	return nil
}

// match returns the documents matching filter, in insertion order.
// Must be called with the lock held.
func (c *Collection) match(filter *odm.Filter) ([]map[string]any, error) {
	f, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	var matched []map[string]any
	for _, id := range c.order {
		m := c.docs[id]
		if f.matches(m) {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

func (c *Collection) checkUnique(id string, m map[string]any) error {
	for field := range c.unique {
		key := uniqueKey(m[field])
		if key == "" {
			continue
		}
		for oid, other := range c.docs {
			if oid != id && uniqueKey(other[field]) == key {
				return fmt.Errorf("%s.%s [%s]: %w", c.name, field, key, odm.ErrDuplicate)
			}
		}
	}
	return nil
}

func uniqueKey(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func toMap(doc any) (map[string]any, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return m, nil
}

func fromAny(v any, out any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}
