package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/formatech/coursegate/internal/content"
	"github.com/formatech/coursegate/internal/quiz"
)

var ErrNotFound = errors.New("course record not found")

// Record is the authored per-course data the training API does not carry:
// the access key and per-module quizzes, keyed by module id.
type Record struct {
	CourseID  string               `json:"course_id"`
	AccessKey string               `json:"access_key,omitempty"`
	Quizzes   map[string]quiz.Quiz `json:"quizzes,omitempty"`
}

type Store interface {
	Get(ctx context.Context, courseID string) (Record, error)
	Put(ctx context.Context, rec Record) error
	Delete(ctx context.Context, courseID string) error
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Get(ctx context.Context, courseID string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT course_id, access_key, quizzes_json FROM course_records WHERE course_id=$1`, courseID)
	var rec Record
	var qjson string
	if err := row.Scan(&rec.CourseID, &rec.AccessKey, &qjson); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &rec.Quizzes); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *SQLStore) Put(ctx context.Context, rec Record) error {
	qj, err := json.Marshal(rec.Quizzes)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO course_records (course_id, access_key, quizzes_json, updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (course_id) DO UPDATE SET access_key=EXCLUDED.access_key, quizzes_json=EXCLUDED.quizzes_json, updated_at=EXCLUDED.updated_at`,
		rec.CourseID, rec.AccessKey, string(qj), time.Now().Unix())
	return err
}

func (s *SQLStore) Delete(ctx context.Context, courseID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM course_records WHERE course_id=$1`, courseID)
	return err
}

// Overlay applies a record onto an assembled course: the access key lands on
// the course, and quizzes attach to their modules (groups and flat list share
// backing modules by value, so both views are patched).
func Overlay(a *content.Assembly, rec Record) {
	a.Course.AccessKey = rec.AccessKey
	if len(rec.Quizzes) == 0 {
		return
	}
	for i := range a.Modules {
		if q, ok := rec.Quizzes[a.Modules[i].ID]; ok {
			qq := q
			a.Modules[i].Quiz = &qq
		}
	}
	for gi := range a.Groups {
		for ci := range a.Groups[gi].Contents {
			if q, ok := rec.Quizzes[a.Groups[gi].Contents[ci].ID]; ok {
				qq := q
				a.Groups[gi].Contents[ci].Quiz = &qq
			}
		}
	}
}
