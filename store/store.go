// Package store implements the form repository over a SQL database. Field,
// step and settings collections are persisted as JSON blobs, mirroring the
// logical schema's jsonb columns.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/gofrs/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/formforge/formforge/model"
)

var (
	// ErrNotFound marks a missing form or response.
	ErrNotFound = errors.New("not found")
	// ErrInvalid marks a payload that failed structural validation.
	ErrInvalid = errors.New("invalid form")
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db}
}

const formColumns = `id, public_id, title, description, fields, steps, settings, is_published, created_at, updated_at`

// CreateForm persists a new form, assigning its internal id and a freshly
// generated public id. On the (practically unreachable) collision of a
// public id the generation is retried.
func (s *Store) CreateForm(ctx context.Context, form model.Form) (model.Form, error) {
	fieldsJSON, stepsJSON, settingsJSON, err := marshalForm(form)
	if err != nil {
		return model.Form{}, err
	}

	now := time.Now().UTC()
	for {
		publicID := newPublicID()
		err = s.db.QueryRowContext(ctx, `
			INSERT INTO form (public_id, title, description, fields, steps, settings, is_published, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			publicID,
			form.Title,
			form.Description,
			fieldsJSON,
			stepsJSON,
			settingsJSON,
			form.IsPublished,
			now,
			now,
		).Scan(&form.ID)
		if isUniqueViolation(err) {
			continue
		}
		if err != nil {
			return model.Form{}, errors.Wrap(err, "insert form")
		}

		form.PublicID = publicID
		form.CreatedAt = now
		form.UpdatedAt = now
		return form, nil
	}
}

func (s *Store) GetForm(ctx context.Context, id int) (model.Form, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+formColumns+` FROM form WHERE id = ?`, id)
	return scanForm(row)
}

func (s *Store) GetFormByPublicID(ctx context.Context, publicID string) (model.Form, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+formColumns+` FROM form WHERE public_id = ?`, publicID)
	return scanForm(row)
}

func (s *Store) ListForms(ctx context.Context) ([]model.Form, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+formColumns+` FROM form`)
	if err != nil {
		return nil, errors.Wrap(err, "select forms")
	}
	defer rows.Close()

	forms := []model.Form{}
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, rows.Err()
}

// FormUpdate is a partial form; nil members leave the stored value as-is.
type FormUpdate struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Fields      *[]model.Field  `json:"fields,omitempty"`
	Steps       *[]model.Step   `json:"steps,omitempty"`
	Settings    *model.Settings `json:"settings,omitempty"`
	IsPublished *bool           `json:"isPublished,omitempty"`
}

// UpdateForm merges the partial update into the stored form, validates the
// result and bumps updated_at. The public id and created_at never change.
func (s *Store) UpdateForm(ctx context.Context, id int, update FormUpdate) (model.Form, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Form{}, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	form, err := scanForm(tx.QueryRowContext(ctx, `SELECT `+formColumns+` FROM form WHERE id = ?`, id))
	if err != nil {
		return model.Form{}, err
	}

	if update.Title != nil {
		form.Title = *update.Title
	}
	if update.Description != nil {
		form.Description = *update.Description
	}
	if update.Fields != nil {
		form.Fields = *update.Fields
	}
	if update.Steps != nil {
		form.Steps = *update.Steps
	}
	if update.Settings != nil {
		form.Settings = *update.Settings
	}
	if update.IsPublished != nil {
		form.IsPublished = *update.IsPublished
	}

	if err := form.Validate(); err != nil {
		return model.Form{}, errors.WithMessage(ErrInvalid, err.Error())
	}

	fieldsJSON, stepsJSON, settingsJSON, err := marshalForm(form)
	if err != nil {
		return model.Form{}, err
	}

	form.UpdatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		UPDATE form
		SET
			title = ?,
			description = ?,
			fields = ?,
			steps = ?,
			settings = ?,
			is_published = ?,
			updated_at = ?
		WHERE id = ?`,
		form.Title,
		form.Description,
		fieldsJSON,
		stepsJSON,
		settingsJSON,
		form.IsPublished,
		form.UpdatedAt,
		id,
	)
	if err != nil {
		return model.Form{}, errors.Wrap(err, "update form")
	}

	if err := tx.Commit(); err != nil {
		return model.Form{}, errors.Wrap(err, "commit update")
	}
	return form, nil
}

// DeleteForm removes a form and, via the schema's cascade, its responses.
// It reports whether anything was deleted.
func (s *Store) DeleteForm(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM form WHERE id = ?`, id)
	if err != nil {
		return false, errors.Wrap(err, "delete form")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "delete form")
	}
	return n > 0, nil
}

// CreateResponse persists a new response. The referenced form must exist.
func (s *Store) CreateResponse(ctx context.Context, resp model.Response) (model.Response, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM form WHERE id = ?`, resp.FormID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Response{}, ErrNotFound
	}
	if err != nil {
		return model.Response{}, errors.Wrap(err, "check form")
	}

	dataJSON, err := json.Marshal(resp.Data)
	if err != nil {
		return model.Response{}, errors.Wrap(err, "marshal response data")
	}

	resp.CreatedAt = time.Now().UTC()
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO response (form_id, data, is_complete, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		resp.FormID,
		string(dataJSON),
		resp.IsComplete,
		resp.CreatedAt,
	).Scan(&resp.ID)
	if err != nil {
		return model.Response{}, errors.Wrap(err, "insert response")
	}
	return resp, nil
}

func (s *Store) ListResponsesByForm(ctx context.Context, formID int) ([]model.Response, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, form_id, data, is_complete, created_at
		FROM response
		WHERE form_id = ?`,
		formID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "select responses")
	}
	defer rows.Close()

	responses := []model.Response{}
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

func (s *Store) GetResponse(ctx context.Context, id int) (model.Response, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, form_id, data, is_complete, created_at
		FROM response
		WHERE id = ?`,
		id,
	)
	return scanResponse(row)
}

func (s *Store) DeleteResponse(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM response WHERE id = ?`, id)
	if err != nil {
		return false, errors.Wrap(err, "delete response")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "delete response")
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanForm(row scanner) (model.Form, error) {
	var form model.Form
	var fieldsJSON, stepsJSON, settingsJSON string
	err := row.Scan(
		&form.ID,
		&form.PublicID,
		&form.Title,
		&form.Description,
		&fieldsJSON,
		&stepsJSON,
		&settingsJSON,
		&form.IsPublished,
		&form.CreatedAt,
		&form.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Form{}, ErrNotFound
	}
	if err != nil {
		return model.Form{}, errors.Wrap(err, "scan form")
	}

	if err := json.Unmarshal([]byte(fieldsJSON), &form.Fields); err != nil {
		return model.Form{}, errors.Wrap(err, "parse fields")
	}
	if err := json.Unmarshal([]byte(stepsJSON), &form.Steps); err != nil {
		return model.Form{}, errors.Wrap(err, "parse steps")
	}
	if err := json.Unmarshal([]byte(settingsJSON), &form.Settings); err != nil {
		return model.Form{}, errors.Wrap(err, "parse settings")
	}
	return form, nil
}

func scanResponse(row scanner) (model.Response, error) {
	var resp model.Response
	var dataJSON string
	err := row.Scan(&resp.ID, &resp.FormID, &dataJSON, &resp.IsComplete, &resp.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Response{}, ErrNotFound
	}
	if err != nil {
		return model.Response{}, errors.Wrap(err, "scan response")
	}
	if err := json.Unmarshal([]byte(dataJSON), &resp.Data); err != nil {
		return model.Response{}, errors.Wrap(err, "parse response data")
	}
	return resp, nil
}

func marshalForm(form model.Form) (fields, steps, settings string, err error) {
	if form.Fields == nil {
		form.Fields = []model.Field{}
	}
	if form.Steps == nil {
		form.Steps = []model.Step{}
	}

	b, err := json.Marshal(form.Fields)
	if err != nil {
		return "", "", "", errors.Wrap(err, "marshal fields")
	}
	fields = string(b)

	b, err = json.Marshal(form.Steps)
	if err != nil {
		return "", "", "", errors.Wrap(err, "marshal steps")
	}
	steps = string(b)

	b, err = json.Marshal(form.Settings)
	if err != nil {
		return "", "", "", errors.Wrap(err, "marshal settings")
	}
	settings = string(b)
	return fields, steps, settings, nil
}

// newPublicID generates the respondent-facing identifier: an opaque,
// URL-safe token, unique-constrained in the schema.
func newPublicID() string {
	return uuid.Must(uuid.NewV4()).String()
}

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique
}
