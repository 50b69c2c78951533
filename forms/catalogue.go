// Package forms owns form definitions: the catalogue and its storage
// backends, the loader that primes it from documents, and the validator
// that checks submitted payloads against a definition.
package forms

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
)

type Catalogue struct {
	store Store
	now   func() time.Time

	// serializes mutations, so that check-then-write sequences are atomic
	mu sync.Mutex
}

type CatalogueOption func(*Catalogue)

// WithClock replaces time.Now as the source of created/updated timestamps.
func WithClock(now func() time.Time) CatalogueOption {
	return func(c *Catalogue) { c.now = now }
}

func NewCatalogue(store Store, opts ...CatalogueOption) *Catalogue {
	c := &Catalogue{store: store, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Catalogue) Exists(ctx context.Context, key string) (bool, error) {
	return c.store.Exists(ctx, key)
}

func (c *Catalogue) Get(ctx context.Context, key string) (model.Form, error) {
	return c.store.Get(ctx, key)
}

func (c *Catalogue) List(ctx context.Context) ([]model.Form, error) {
	return c.store.List(ctx)
}

// Keys lists the keys of every form, sorted.
func (c *Catalogue) Keys(ctx context.Context) ([]string, error) {
	forms, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(forms))
	for i, f := range forms {
		keys[i] = f.Key
	}
	sort.Strings(keys)
	return keys, nil
}

func (c *Catalogue) Create(ctx context.Context, form model.Form) (model.Form, error) {
	if err := Check(form); err != nil {
		return model.Form{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	exists, err := c.store.Exists(ctx, form.Key)
	if err != nil {
		return model.Form{}, err
	}
	if exists {
		return model.Form{}, model.ErrConflict
	}

	now := c.now().UTC()
	form.CreatedAt = now
	form.UpdatedAt = now
	err = c.store.Insert(ctx, form)
	if err != nil {
		return model.Form{}, err
	}

	log.WithFields(log.Fields{"form": form.Key}).Info("form created")
	return form, nil
}

// Update replaces title, description and the whole field list of an existing form.
func (c *Catalogue) Update(ctx context.Context, key string, title, description string, fields []model.Field) (model.Form, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.store.Get(ctx, key)
	if err != nil {
		return model.Form{}, err
	}

	existing.Title = title
	existing.Description = description
	existing.Fields = fields
	if err := Check(existing); err != nil {
		return model.Form{}, err
	}

	existing.UpdatedAt = c.now().UTC()
	err = c.store.Update(ctx, existing)
	if err != nil {
		return model.Form{}, err
	}

	log.WithFields(log.Fields{"form": key}).Info("form updated")
	return existing, nil
}

// Delete removes a form. Submissions made against it are kept.
func (c *Catalogue) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.store.Delete(ctx, key)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"form": key}).Info("form deleted")
	return nil
}
