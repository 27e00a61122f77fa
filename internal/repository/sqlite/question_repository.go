package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/adaptquiz/adaptquiz/internal/logger"
	"github.com/adaptquiz/adaptquiz/internal/models"
	"github.com/adaptquiz/adaptquiz/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type questionRepository struct {
	db *sql.DB
}

// NewQuestionRepository creates a new QuestionRepository implementation
func NewQuestionRepository(db *sql.DB) repository.QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Get(ctx context.Context, id int64) (*models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("getting question: id=%d", id)

	row := r.db.QueryRowContext(ctx, `
SELECT id, text, difficulty, format, options, answer_key, topic, explanation, hints, created_at
FROM questions
WHERE id = ?
`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("question not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get question: %v", err)
		return nil, err
	}
	return q, nil
}

func (r *questionRepository) List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("listing questions: difficulty=%s, topic=%s", filter.Difficulty, filter.Topic)

	query := sqlBuilder.
		Select("id", "text", "difficulty", "format", "options", "answer_key", "topic", "explanation", "hints", "created_at").
		From("questions").
		OrderBy("id")

	if filter.Difficulty != "" {
		query = query.Where(squirrel.Eq{"difficulty": filter.Difficulty})
	}
	if filter.Topic != "" {
		query = query.Where(squirrel.Eq{"topic": filter.Topic})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list questions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			log.Error("failed to scan question row: %v", err)
			return nil, err
		}
		questions = append(questions, *q)
	}
	log.Debug("found %d questions", len(questions))
	return questions, rows.Err()
}

func (r *questionRepository) Count(ctx context.Context, filter models.QuestionFilter) (int, error) {
	query := sqlBuilder.Select("COUNT(*)").From("questions")
	if filter.Difficulty != "" {
		query = query.Where(squirrel.Eq{"difficulty": filter.Difficulty})
	}
	if filter.Topic != "" {
		query = query.Where(squirrel.Eq{"topic": filter.Topic})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count)
	return count, err
}

func (r *questionRepository) Insert(ctx context.Context, q models.Question) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("inserting question: difficulty=%s, format=%s", q.Difficulty, q.Format)

	var hints any
	if len(q.Hints) > 0 {
		data, err := json.Marshal(q.Hints)
		if err != nil {
			return 0, err
		}
		hints = string(data)
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO questions (text, difficulty, format, options, answer_key, topic, explanation, hints)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, q.Text, q.Difficulty, q.Format, nullable(q.Options), q.AnswerKey, q.Topic, q.Explanation, hints)
	if err != nil {
		log.Error("failed to insert question: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get question id: %v", err)
		return 0, err
	}
	log.Debug("question inserted: id=%d", id)
	return id, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (*models.Question, error) {
	var q models.Question
	var options, hints sql.NullString
	err := row.Scan(&q.ID, &q.Text, &q.Difficulty, &q.Format, &options, &q.AnswerKey, &q.Topic, &q.Explanation, &hints, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	if options.Valid {
		q.Options = options.String
	}
	if hints.Valid && hints.String != "" {
		if err := json.Unmarshal([]byte(hints.String), &q.Hints); err != nil {
			return nil, err
		}
	}
	return &q, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
