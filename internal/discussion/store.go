package discussion

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("discussion question not found")
	ErrEmpty    = errors.New("empty discussion text")
)

type Question struct {
	ID        string  `json:"id"`
	CourseID  string  `json:"course_id"`
	ModuleID  string  `json:"module_id,omitempty"`
	UserID    string  `json:"user_id"`
	UserName  string  `json:"user_name"`
	Question  string  `json:"question"`
	CreatedAt int64   `json:"created_at"`
	Replies   []Reply `json:"replies"`
}

type Reply struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Reply     string `json:"reply"`
	CreatedAt int64  `json:"created_at"`
}

// Store is the course Q&A sidebar's persistence. Ordering guarantee is
// "most recent question first"; replies stay in posting order.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) List(ctx context.Context, courseID string) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, course_id, COALESCE(module_id,''), user_id, user_name, question, created_at
		  FROM discussion_questions
		 WHERE course_id=$1
		 ORDER BY created_at DESC, id DESC`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Question{}
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.CourseID, &q.ModuleID, &q.UserID, &q.UserName, &q.Question, &q.CreatedAt); err != nil {
			return nil, err
		}
		q.Replies = []Reply{}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		replies, err := s.listReplies(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Replies = replies
	}
	return out, nil
}

func (s *Store) listReplies(ctx context.Context, questionID string) ([]Reply, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, user_name, reply, created_at
		  FROM discussion_replies
		 WHERE question_id=$1
		 ORDER BY created_at ASC, id ASC`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Reply{}
	for rows.Next() {
		var r Reply
		if err := rows.Scan(&r.ID, &r.UserID, &r.UserName, &r.Reply, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) PostQuestion(ctx context.Context, courseID, moduleID, userID, userName, text string) (Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Question{}, ErrEmpty
	}
	q := Question{
		ID:        uuid.NewString(),
		CourseID:  courseID,
		ModuleID:  moduleID,
		UserID:    userID,
		UserName:  userName,
		Question:  text,
		CreatedAt: time.Now().Unix(),
		Replies:   []Reply{},
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO discussion_questions (id, course_id, module_id, user_id, user_name, question, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		q.ID, q.CourseID, q.ModuleID, q.UserID, q.UserName, q.Question, q.CreatedAt)
	if err != nil {
		return Question{}, err
	}
	return q, nil
}

func (s *Store) PostReply(ctx context.Context, questionID, userID, userName, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, ErrEmpty
	}
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM discussion_questions WHERE id=$1`, questionID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Reply{}, ErrNotFound
		}
		return Reply{}, err
	}
	r := Reply{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserName:  userName,
		Reply:     text,
		CreatedAt: time.Now().Unix(),
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO discussion_replies (id, question_id, user_id, user_name, reply, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		r.ID, questionID, r.UserID, r.UserName, r.Reply, r.CreatedAt)
	if err != nil {
		return Reply{}, err
	}
	return r, nil
}

// AuthorID returns who posted a question (for the owner-or-admin delete check).
func (s *Store) AuthorID(ctx context.Context, questionID string) (string, error) {
	var author string
	err := s.db.QueryRowContext(ctx, `SELECT user_id FROM discussion_questions WHERE id=$1`, questionID).Scan(&author)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return author, err
}

func (s *Store) DeleteQuestion(ctx context.Context, questionID string) error {
	// Replies cascade via FK; the explicit delete covers sqlite setups where
	// foreign keys are off.
	if _, err := s.db.ExecContext(ctx, `DELETE FROM discussion_replies WHERE question_id=$1`, questionID); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM discussion_questions WHERE id=$1`, questionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
