package submissions

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/mbolis/quick-forms/database"
	"github.com/mbolis/quick-forms/model"
	"github.com/pkg/errors"
)

// SQLStore keeps submissions in the "form_data" table; the payload is
// stored as a JSON document.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db}
}

func (st *SQLStore) Insert(ctx context.Context, s *model.Submission) error {
	dataJson, err := json.Marshal(s.Data)
	if err != nil {
		return errors.Wrap(err, "submissions.sqlstore.insert.data")
	}

	err = st.db.QueryRowContext(ctx, `
		INSERT INTO form_data (form_key, data, submitted_at, submitted_by)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		s.FormKey,
		string(dataJson),
		s.SubmittedAt.UTC(),
		s.SubmittedBy,
	).Scan(&s.ID)
	if err != nil {
		return errors.Wrap(err, "submissions.sqlstore.insert")
	}
	return nil
}

func (st *SQLStore) Get(ctx context.Context, id int64) (model.Submission, error) {
	row := st.db.QueryRowContext(ctx, `
		SELECT id, form_key, data, submitted_at, submitted_by
		FROM form_data
		WHERE id = ?`,
		id,
	)

	s, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Submission{}, model.ErrNotFound
	}
	if err != nil {
		return model.Submission{}, errors.Wrap(err, "submissions.sqlstore.get")
	}
	return s, nil
}

func (st *SQLStore) List(ctx context.Context) ([]model.Submission, error) {
	return st.query(ctx, "submissions.sqlstore.list", `
		SELECT id, form_key, data, submitted_at, submitted_by
		FROM form_data
		ORDER BY id`)
}

func (st *SQLStore) ListByKey(ctx context.Context, formKey string) ([]model.Submission, error) {
	return st.query(ctx, "submissions.sqlstore.list_by_key", `
		SELECT id, form_key, data, submitted_at, submitted_by
		FROM form_data
		WHERE form_key = ?
		ORDER BY submitted_at DESC, id DESC`,
		formKey,
	)
}

func (st *SQLStore) Delete(ctx context.Context, id int64) error {
	res, err := st.db.ExecContext(ctx, `
		DELETE FROM form_data WHERE id = ?`,
		id,
	)
	if err != nil {
		return errors.Wrap(err, "submissions.sqlstore.delete")
	}
	return database.VerifyAffected(res, "submissions.sqlstore.delete.verify")
}

func (st *SQLStore) query(ctx context.Context, code string, query string, args ...any) ([]model.Submission, error) {
	rows, err := st.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, code)
	}
	defer rows.Close()

	list := []model.Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, errors.Wrap(err, code+".scan")
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, code)
	}
	return list, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row scanner) (model.Submission, error) {
	s := model.Submission{}
	var dataJson string
	var submittedAt time.Time
	err := row.Scan(&s.ID, &s.FormKey, &dataJson, &submittedAt, &s.SubmittedBy)
	if err != nil {
		return model.Submission{}, err
	}

	err = json.Unmarshal([]byte(dataJson), &s.Data)
	if err != nil {
		return model.Submission{}, errors.Wrap(err, "parse_data")
	}
	s.SubmittedAt = submittedAt.UTC()
	return s, nil
}
