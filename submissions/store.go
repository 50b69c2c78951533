package submissions

import (
	"context"
	"sort"
	"sync"

	"github.com/mbolis/quick-forms/model"
)

// Store holds submission records. Insert assigns the id; records are
// never modified afterwards.
type Store interface {
	Insert(ctx context.Context, s *model.Submission) error
	Get(ctx context.Context, id int64) (model.Submission, error)
	List(ctx context.Context) ([]model.Submission, error)
	// ListByKey returns the submissions for a form, most recent first.
	ListByKey(ctx context.Context, formKey string) ([]model.Submission, error)
	Delete(ctx context.Context, id int64) error
}

type MemoryStore struct {
	mu      sync.RWMutex
	lastID  int64
	records map[int64]model.Submission
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[int64]model.Submission)}
}

func (m *MemoryStore) Insert(_ context.Context, s *model.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastID++
	s.ID = m.lastID
	m.records[s.ID] = cloneSubmission(*s)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id int64) (model.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.records[id]
	if !ok {
		return model.Submission{}, model.ErrNotFound
	}
	return cloneSubmission(s), nil
}

func (m *MemoryStore) List(_ context.Context) ([]model.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]model.Submission, 0, len(m.records))
	for _, s := range m.records {
		list = append(list, cloneSubmission(s))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *MemoryStore) ListByKey(_ context.Context, formKey string) ([]model.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := []model.Submission{}
	for _, s := range m.records {
		if s.FormKey == formKey {
			list = append(list, cloneSubmission(s))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].SubmittedAt.Equal(list[j].SubmittedAt) {
			return list[i].SubmittedAt.After(list[j].SubmittedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (m *MemoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return model.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func cloneSubmission(s model.Submission) model.Submission {
	data := make(model.Payload, len(s.Data))
	for k, v := range s.Data {
		if v.List != nil {
			v.List = append([]string(nil), v.List...)
		}
		data[k] = v
	}
	s.Data = data
	return s
}
