package forms

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/mbolis/quick-forms/database"
	"github.com/mbolis/quick-forms/model"
	"github.com/pkg/errors"
)

// SQLStore persists forms in the "form" table, with the field list held
// as a JSON document in a single column.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db}
}

func (s *SQLStore) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM form WHERE form_key = ?)`,
		key,
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "forms.sqlstore.exists")
	}
	return exists, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (model.Form, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT form_key, title, description, fields, created_at, updated_at
		FROM form
		WHERE form_key = ?`,
		key,
	)

	form, err := scanForm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Form{}, model.ErrNotFound
	}
	if err != nil {
		return model.Form{}, errors.Wrap(err, "forms.sqlstore.get")
	}
	return form, nil
}

func (s *SQLStore) List(ctx context.Context) ([]model.Form, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT form_key, title, description, fields, created_at, updated_at
		FROM form
		ORDER BY form_key`)
	if err != nil {
		return nil, errors.Wrap(err, "forms.sqlstore.list")
	}
	defer rows.Close()

	forms := []model.Form{}
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, errors.Wrap(err, "forms.sqlstore.list.scan")
		}
		forms = append(forms, form)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "forms.sqlstore.list")
	}
	return forms, nil
}

func (s *SQLStore) Insert(ctx context.Context, form model.Form) error {
	fieldsJson, err := json.Marshal(form.Fields)
	if err != nil {
		return errors.Wrap(err, "forms.sqlstore.insert.fields")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO form (form_key, title, description, fields, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		form.Key,
		form.Title,
		form.Description,
		string(fieldsJson),
		form.CreatedAt.UTC(),
		form.UpdatedAt.UTC(),
	)
	if database.IsUniqueViolation(err) {
		return model.ErrConflict
	}
	if err != nil {
		return errors.Wrap(err, "forms.sqlstore.insert")
	}
	return nil
}

func (s *SQLStore) Update(ctx context.Context, form model.Form) error {
	fieldsJson, err := json.Marshal(form.Fields)
	if err != nil {
		return errors.Wrap(err, "forms.sqlstore.update.fields")
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE form
		SET
			title = ?,
			description = ?,
			fields = ?,
			updated_at = ?
		WHERE form_key = ?`,
		form.Title,
		form.Description,
		string(fieldsJson),
		form.UpdatedAt.UTC(),
		form.Key,
	)
	if err != nil {
		return errors.Wrap(err, "forms.sqlstore.update")
	}
	return database.VerifyAffected(res, "forms.sqlstore.update.verify")
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM form WHERE form_key = ?`,
		key,
	)
	if err != nil {
		return errors.Wrap(err, "forms.sqlstore.delete")
	}
	return database.VerifyAffected(res, "forms.sqlstore.delete.verify")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanForm(row scanner) (model.Form, error) {
	form := model.Form{}
	var description sql.NullString
	var fieldsJson string
	var createdAt, updatedAt time.Time
	err := row.Scan(&form.Key, &form.Title, &description, &fieldsJson, &createdAt, &updatedAt)
	if err != nil {
		return model.Form{}, err
	}

	err = json.Unmarshal([]byte(fieldsJson), &form.Fields)
	if err != nil {
		return model.Form{}, errors.Wrap(err, "parse_fields")
	}

	form.Description = description.String
	form.CreatedAt = createdAt.UTC()
	form.UpdatedAt = updatedAt.UTC()
	return form, nil
}
