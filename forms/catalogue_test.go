package forms

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mbolis/quick-forms/database"
	"github.com/mbolis/quick-forms/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends runs fn once per Store implementation.
func backends(t *testing.T, fn func(t *testing.T, store Store)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
	t.Run("sqlite", func(t *testing.T) {
		db, err := database.Open(filepath.Join(t.TempDir(), "forms.sqlite"))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		fn(t, NewSQLStore(db))
	})
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time and then moves it one minute forward.
func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(time.Minute)
	return now
}

func TestCatalogue_CreateThenConflict(t *testing.T) {
	backends(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		clock := newFakeClock()
		c := NewCatalogue(store, WithClock(clock.Now))

		created, err := c.Create(ctx, contactForm())
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), created.CreatedAt)
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)

		_, err = c.Create(ctx, contactForm())
		assert.ErrorIs(t, err, model.ErrConflict)

		forms, err := c.List(ctx)
		require.NoError(t, err)
		assert.Len(t, forms, 1)
	})
}

func TestCatalogue_CallerTimestampsIgnored(t *testing.T) {
	backends(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		clock := newFakeClock()
		c := NewCatalogue(store, WithClock(clock.Now))

		form := contactForm()
		form.CreatedAt = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
		_, err := c.Create(ctx, form)
		require.NoError(t, err)

		got, err := c.Get(ctx, "contact")
		require.NoError(t, err)
		assert.Equal(t, 2024, got.CreatedAt.Year())
	})
}

func TestCatalogue_GetRoundTrip(t *testing.T) {
	backends(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		c := NewCatalogue(store)

		hint := "Your name"
		form := contactForm()
		form.Description = "Get in touch"
		form.Fields[0].Placeholder = &hint
		created, err := c.Create(ctx, form)
		require.NoError(t, err)

		got, err := c.Get(ctx, "contact")
		require.NoError(t, err)
		assert.Equal(t, created.Key, got.Key)
		assert.Equal(t, "Get in touch", got.Description)
		assert.Equal(t, created.Fields, got.Fields)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
		assert.Nil(t, got.Fields[1].Options)
		require.NotNil(t, got.Fields[0].Placeholder)
		assert.Equal(t, "Your name", *got.Fields[0].Placeholder)
	})
}

func TestCatalogue_InvalidFormNotStored(t *testing.T) {
	backends(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		c := NewCatalogue(store)

		form := contactForm()
		form.Key = "Contact Us"
		_, err := c.Create(ctx, form)
		var verr *model.ValidationError
		assert.ErrorAs(t, err, &verr)

		keys, err := c.Keys(ctx)
		require.NoError(t, err)
		assert.Empty(t, keys)
	})
}

func TestCatalogue_Update(t *testing.T) {
	backends(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		clock := newFakeClock()
		c := NewCatalogue(store, WithClock(clock.Now))

		created, err := c.Create(ctx, contactForm())
		require.NoError(t, err)

		fields := []model.Field{{Name: "message", Label: "Message", Type: model.FieldTextarea, Required: true}}
		updated, err := c.Update(ctx, "contact", "Write to us", "", fields)
		require.NoError(t, err)
		assert.Equal(t, "contact", updated.Key)
		assert.Equal(t, "Write to us", updated.Title)
		assert.Equal(t, fields, updated.Fields)
		assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

		got, err := c.Get(ctx, "contact")
		require.NoError(t, err)
		assert.Equal(t, fields, got.Fields)
		assert.True(t, updated.UpdatedAt.Equal(got.UpdatedAt))
	})
}

func TestCatalogue_UpdateMissing(t *testing.T) {
	backends(t, func(t *testing.T, store Store) {
		c := NewCatalogue(store)
		_, err := c.Update(context.Background(), "nope", "Nope", "", contactForm().Fields)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestCatalogue_UpdateInvalidKeepsStored(t *testing.T) {
	backends(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		c := NewCatalogue(store)
		_, err := c.Create(ctx, contactForm())
		require.NoError(t, err)

		_, err = c.Update(ctx, "contact", "Contact", "", nil)
		var verr *model.ValidationError
		require.ErrorAs(t, err, &verr)

		got, err := c.Get(ctx, "contact")
		require.NoError(t, err)
		assert.Len(t, got.Fields, 3)
	})
}

func TestCatalogue_DeleteThenGet(t *testing.T) {
	backends(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		c := NewCatalogue(store)
		_, err := c.Create(ctx, contactForm())
		require.NoError(t, err)

		require.NoError(t, c.Delete(ctx, "contact"))

		_, err = c.Get(ctx, "contact")
		assert.ErrorIs(t, err, model.ErrNotFound)

		exists, err := c.Exists(ctx, "contact")
		require.NoError(t, err)
		assert.False(t, exists)

		assert.ErrorIs(t, c.Delete(ctx, "contact"), model.ErrNotFound)
	})
}

func TestCatalogue_Keys(t *testing.T) {
	backends(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		c := NewCatalogue(store)
		for _, key := range []string{"survey", "contact", "feedback"} {
			form := contactForm()
			form.Key = key
			_, err := c.Create(ctx, form)
			require.NoError(t, err)
		}

		keys, err := c.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"contact", "feedback", "survey"}, keys)
	})
}

func TestCatalogue_ConcurrentCreate(t *testing.T) {
	backends(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		c := NewCatalogue(store)

		const n = 8
		errs := make(chan error, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := c.Create(ctx, contactForm())
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		succeeded := 0
		for err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, model.ErrConflict)
		}
		assert.Equal(t, 1, succeeded)
	})
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Insert(ctx, contactForm()))

	got, err := store.Get(ctx, "contact")
	require.NoError(t, err)
	got.Fields[2].Options[0].Value = "tampered"

	again, err := store.Get(ctx, "contact")
	require.NoError(t, err)
	assert.Equal(t, "low", again.Fields[2].Options[0].Value)
}
