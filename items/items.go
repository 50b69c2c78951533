// Package items is the item catalogue: named entries with a description,
// unique by name.
package items

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/mbolis/quick-forms/database"
	"github.com/mbolis/quick-forms/model"
	"github.com/pkg/errors"
)

type Service struct {
	db  *sql.DB
	now func() time.Time
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, now: time.Now}
}

func (s *Service) Create(ctx context.Context, item model.Item) (model.Item, error) {
	if err := check(item); err != nil {
		return model.Item{}, err
	}

	item.CreatedAt = s.now().UTC()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO item (name, description, created_at) VALUES (?, ?, ?)
		RETURNING id`,
		item.Name,
		item.Description,
		item.CreatedAt,
	).Scan(&item.ID)
	if database.IsUniqueViolation(err) {
		return model.Item{}, model.ErrConflict
	}
	if err != nil {
		return model.Item{}, errors.Wrap(err, "items.create")
	}
	return item, nil
}

func (s *Service) Get(ctx context.Context, id int64) (model.Item, error) {
	item := model.Item{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at
		FROM item
		WHERE id = ?`,
		id,
	).Scan(&item.ID, &item.Name, &item.Description, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, model.ErrNotFound
	}
	if err != nil {
		return model.Item{}, errors.Wrap(err, "items.get")
	}
	item.CreatedAt = item.CreatedAt.UTC()
	return item, nil
}

// List returns every item, newest first.
func (s *Service) List(ctx context.Context) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, created_at
		FROM item
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "items.list")
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item := model.Item{}
		err = rows.Scan(&item.ID, &item.Name, &item.Description, &item.CreatedAt)
		if err != nil {
			return nil, errors.Wrap(err, "items.list.scan")
		}
		item.CreatedAt = item.CreatedAt.UTC()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "items.list")
	}
	return items, nil
}

// Update renames and redescribes an item. Taking the name of another item is a conflict.
func (s *Service) Update(ctx context.Context, id int64, item model.Item) (model.Item, error) {
	if err := check(item); err != nil {
		return model.Item{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE item
		SET
			name = ?,
			description = ?
		WHERE id = ?`,
		item.Name,
		item.Description,
		id,
	)
	if database.IsUniqueViolation(err) {
		return model.Item{}, model.ErrConflict
	}
	if err != nil {
		return model.Item{}, errors.Wrap(err, "items.update")
	}
	err = database.VerifyAffected(res, "items.update.verify")
	if err != nil {
		return model.Item{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM item WHERE id = ?`,
		id,
	)
	if err != nil {
		return errors.Wrap(err, "items.delete")
	}
	return database.VerifyAffected(res, "items.delete.verify")
}

func check(item model.Item) error {
	if strings.TrimSpace(item.Name) == "" {
		return &model.ValidationError{
			Message: "invalid item",
			Errors:  model.FieldErrors{"name": "required"},
		}
	}
	return nil
}
