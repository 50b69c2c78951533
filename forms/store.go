package forms

import (
	"context"
	"sort"
	"sync"

	"github.com/mbolis/quick-forms/model"
)

// Store is the persistence backend behind a Catalogue. Implementations
// report model.ErrNotFound and model.ErrConflict; the Catalogue owns
// validation and timestamps.
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (model.Form, error)
	List(ctx context.Context) ([]model.Form, error)
	Insert(ctx context.Context, form model.Form) error
	Update(ctx context.Context, form model.Form) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps forms in a map. Nothing survives a restart; it is
// meant to be primed from form documents at startup.
type MemoryStore struct {
	mu    sync.RWMutex
	forms map[string]model.Form
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{forms: make(map[string]model.Form)}
}

func (s *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.forms[key]
	return ok, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (model.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	form, ok := s.forms[key]
	if !ok {
		return model.Form{}, model.ErrNotFound
	}
	return cloneForm(form), nil
}

func (s *MemoryStore) List(_ context.Context) ([]model.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	forms := make([]model.Form, 0, len(s.forms))
	for _, f := range s.forms {
		forms = append(forms, cloneForm(f))
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i].Key < forms[j].Key })
	return forms, nil
}

func (s *MemoryStore) Insert(_ context.Context, form model.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.forms[form.Key]; ok {
		return model.ErrConflict
	}
	s.forms[form.Key] = cloneForm(form)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, form model.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.forms[form.Key]; !ok {
		return model.ErrNotFound
	}
	s.forms[form.Key] = cloneForm(form)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.forms[key]; !ok {
		return model.ErrNotFound
	}
	delete(s.forms, key)
	return nil
}

// cloneForm copies the field and option slices so callers never share
// backing arrays with the stored copy.
func cloneForm(f model.Form) model.Form {
	fields := make([]model.Field, len(f.Fields))
	for i, fd := range f.Fields {
		if fd.Options != nil {
			fd.Options = append([]model.Option(nil), fd.Options...)
		}
		if fd.Placeholder != nil {
			p := *fd.Placeholder
			fd.Placeholder = &p
		}
		fields[i] = fd
	}
	f.Fields = fields
	return f
}
