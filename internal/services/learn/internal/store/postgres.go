package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/model"
)

const errUniqueViolation pq.ErrorCode = "23505"

// dbtx defines the interface for database and transactions
type dbtx interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PostgresConfig holds the configuration for connecting to a Postgres database
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
}

// PostgresStore implements Store on top of PostgreSQL
type PostgresStore struct {
	db   dbtx
	conn *sql.DB
}

// NewPostgresDB opens and pings a Postgres connection pool
func NewPostgresDB(cfg PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DB))
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, conn: db}
}

const userColumns = `id, username, email, password, native_language, learning_language,
	total_xp, current_streak, longest_streak, last_lesson_date, created_at,
	level, hearts, gems, friends, achievements`

func (s *PostgresStore) CreateUser(ctx context.Context, u model.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.NativeLanguage,
		u.LearningLanguage,
		u.TotalXP,
		u.CurrentStreak,
		u.LongestStreak,
		nullTime(u.LastLessonDate),
		u.CreatedAt,
		u.Level,
		u.Hearts,
		u.Gems,
		pq.Array(orEmpty(u.Friends)),
		pq.Array(orEmpty(u.Achievements)))
	if err != nil {
		if isPqErr(err, errUniqueViolation) {
			return ErrExists
		}

		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (s *PostgresStore) GetUser(ctx context.Context, r GetUserRequest) (model.User, error) {
	var row *sql.Row
	switch {
	case r.ID != "":
		row = s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, r.ID)
	case r.Username != "":
		row = s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, r.Username)
	default:
		return model.User{}, ErrNotFound
	}

	var (
		u    model.User
		last sql.NullTime
	)
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.NativeLanguage,
		&u.LearningLanguage,
		&u.TotalXP,
		&u.CurrentStreak,
		&u.LongestStreak,
		&last,
		&u.CreatedAt,
		&u.Level,
		&u.Hearts,
		&u.Gems,
		pq.Array(&u.Friends),
		pq.Array(&u.Achievements))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, ErrNotFound
		}

		return u, fmt.Errorf("select user: %w", err)
	}

	u.LastLessonDate = timePtr(last)
	return u, nil
}

func (s *PostgresStore) UserExists(ctx context.Context, r UserExistsRequest) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`,
		r.Username, r.Email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}

	return exists, nil
}

func (s *PostgresStore) UpdateUserProgress(ctx context.Context, r UpdateUserProgressRequest) error {
	var (
		res sql.Result
		err error
	)
	if r.Streak == nil {
		res, err = s.db.ExecContext(ctx,
			`UPDATE users SET total_xp = total_xp + $2 WHERE id = $1`,
			r.UserID, r.XPDelta)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE users
			 SET total_xp = total_xp + $2, current_streak = $3, longest_streak = $4, last_lesson_date = $5
			 WHERE id = $1`,
			r.UserID, r.XPDelta, r.Streak.Current, r.Streak.Longest, r.Streak.LastLessonDate)
	}
	if err != nil {
		return fmt.Errorf("update user progress: %w", err)
	}

	return expectAffected(res)
}

func (s *PostgresStore) RefillHearts(ctx context.Context, r RefillHeartsRequest) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET gems = gems - $2, hearts = $3 WHERE id = $1 AND gems >= $2`,
		r.UserID, r.Cost, r.Hearts)
	if err != nil {
		return fmt.Errorf("refill hearts: %w", err)
	}

	if err := expectAffected(res); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrPrecondition
		}
		return err
	}

	return nil
}

func (s *PostgresStore) InsertProgress(ctx context.Context, p model.UserProgress) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_progress (id, user_id, lesson_id, completed, score, attempts, completed_at, mistakes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.UserID, p.LessonID, p.Completed, p.Score, p.Attempts, nullTime(p.CompletedAt), pq.Array(orEmpty(p.Mistakes)))
	if err != nil {
		if isPqErr(err, errUniqueViolation) {
			return ErrExists
		}

		return fmt.Errorf("insert progress: %w", err)
	}

	return nil
}

func (s *PostgresStore) ListProgress(ctx context.Context, r ListProgressRequest) ([]model.UserProgress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, lesson_id, completed, score, attempts, completed_at, mistakes
		 FROM user_progress
		 WHERE user_id = $1 AND ($2::text = '' OR lesson_id = $2)
		 ORDER BY completed_at, id`,
		r.UserID, r.LessonID)
	if err != nil {
		return nil, fmt.Errorf("select progress: %w", err)
	}
	defer rows.Close()

	out := make([]model.UserProgress, 0)
	for rows.Next() {
		var (
			p  model.UserProgress
			at sql.NullTime
		)
		if err := rows.Scan(&p.ID, &p.UserID, &p.LessonID, &p.Completed, &p.Score, &p.Attempts, &at, pq.Array(&p.Mistakes)); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		p.CompletedAt = timePtr(at)
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress: %w", err)
	}

	return out, nil
}

func (s *PostgresStore) EnsureLanguage(ctx context.Context, l model.Language) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO languages (id, name, code, native_name, flag, total_lessons, difficulty_level)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (code) DO NOTHING`,
		l.ID, l.Name, l.Code, l.NativeName, l.Flag, l.TotalLessons, l.DifficultyLevel)
	if err != nil {
		return false, fmt.Errorf("insert language: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert language: %w", err)
	}

	return n > 0, nil
}

func (s *PostgresStore) ListLanguages(ctx context.Context) ([]model.Language, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, code, native_name, flag, total_lessons, difficulty_level
		 FROM languages
		 ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("select languages: %w", err)
	}
	defer rows.Close()

	out := make([]model.Language, 0)
	for rows.Next() {
		var l model.Language
		if err := rows.Scan(&l.ID, &l.Name, &l.Code, &l.NativeName, &l.Flag, &l.TotalLessons, &l.DifficultyLevel); err != nil {
			return nil, fmt.Errorf("scan language: %w", err)
		}
		out = append(out, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate languages: %w", err)
	}

	return out, nil
}

const lessonColumns = `id, language_id, unit_id, title, description, type, difficulty,
	xp_reward, exercises, prerequisites, is_locked`

func scanLesson(sc interface{ Scan(...any) error }) (model.Lesson, error) {
	var (
		l  model.Lesson
		xp sql.NullInt64
	)
	err := sc.Scan(
		&l.ID,
		&l.LanguageID,
		&l.UnitID,
		&l.Title,
		&l.Description,
		&l.Type,
		&l.Difficulty,
		&xp,
		pq.Array(&l.Exercises),
		pq.Array(&l.Prerequisites),
		&l.IsLocked)
	if xp.Valid {
		v := int(xp.Int64)
		l.XPReward = &v
	}
	return l, err
}

func (s *PostgresStore) GetLesson(ctx context.Context, id string) (model.Lesson, error) {
	l, err := scanLesson(s.db.QueryRowContext(ctx, `SELECT `+lessonColumns+` FROM lessons WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return l, ErrNotFound
		}

		return l, fmt.Errorf("select lesson: %w", err)
	}

	return l, nil
}

func (s *PostgresStore) ListLessons(ctx context.Context, r ListLessonsRequest) ([]model.Lesson, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+lessonColumns+` FROM lessons WHERE language_id = $1 ORDER BY unit_id, id`,
		r.LanguageID)
	if err != nil {
		return nil, fmt.Errorf("select lessons: %w", err)
	}
	defer rows.Close()

	out := make([]model.Lesson, 0)
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		out = append(out, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}

	return out, nil
}

// InsertLesson adds a lesson to the catalog. Lessons are authored out of band.
func (s *PostgresStore) InsertLesson(ctx context.Context, l model.Lesson) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lessons (`+lessonColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		l.ID, l.LanguageID, l.UnitID, l.Title, l.Description, l.Type, l.Difficulty, nullInt(l.XPReward),
		pq.Array(orEmpty(l.Exercises)), pq.Array(orEmpty(l.Prerequisites)), l.IsLocked)
	if err != nil {
		if isPqErr(err, errUniqueViolation) {
			return ErrExists
		}

		return fmt.Errorf("insert lesson: %w", err)
	}

	return nil
}

func (s *PostgresStore) InsertExercise(ctx context.Context, e model.Exercise) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exercises (id, lesson_id, type, question, options, correct_answer, explanation, audio_url, image_url, difficulty)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.LessonID, e.Type, e.Question, pq.Array(orEmpty(e.Options)), e.CorrectAnswer, e.Explanation, e.AudioURL, e.ImageURL, e.Difficulty)
	if err != nil {
		if isPqErr(err, errUniqueViolation) {
			return ErrExists
		}

		return fmt.Errorf("insert exercise: %w", err)
	}

	return nil
}

func (s *PostgresStore) ListExercises(ctx context.Context, r ListExercisesRequest) ([]model.Exercise, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lesson_id, type, question, options, correct_answer, explanation, audio_url, image_url, difficulty
		 FROM exercises
		 WHERE lesson_id = $1
		 ORDER BY id`,
		r.LessonID)
	if err != nil {
		return nil, fmt.Errorf("select exercises: %w", err)
	}
	defer rows.Close()

	out := make([]model.Exercise, 0)
	for rows.Next() {
		var e model.Exercise
		if err := rows.Scan(&e.ID, &e.LessonID, &e.Type, &e.Question, pq.Array(&e.Options),
			&e.CorrectAnswer, &e.Explanation, &e.AudioURL, &e.ImageURL, &e.Difficulty); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercises: %w", err)
	}

	return out, nil
}

const subscriptionColumns = `id, user_id, plan_id, started_at, expires_at, cancelled_at`

func (s *PostgresStore) GetSubscription(ctx context.Context, userID string) (model.Subscription, error) {
	var (
		sub       model.Subscription
		cancelled sql.NullTime
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = $1`, userID).
		Scan(&sub.ID, &sub.UserID, &sub.PlanID, &sub.StartedAt, &sub.ExpiresAt, &cancelled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sub, ErrNotFound
		}

		return sub, fmt.Errorf("select subscription: %w", err)
	}

	sub.StartedAt = sub.StartedAt.UTC()
	sub.ExpiresAt = sub.ExpiresAt.UTC()
	sub.CancelledAt = timePtr(cancelled)
	return sub, nil
}

// PutSubscription stores sub as the user's only subscription, replacing any previous one.
func (s *PostgresStore) PutSubscription(ctx context.Context, sub model.Subscription) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscriptions (`+subscriptionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE
		 SET id = EXCLUDED.id, plan_id = EXCLUDED.plan_id, started_at = EXCLUDED.started_at,
		     expires_at = EXCLUDED.expires_at, cancelled_at = EXCLUDED.cancelled_at`,
		sub.ID, sub.UserID, sub.PlanID, sub.StartedAt, sub.ExpiresAt, nullTime(sub.CancelledAt))
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	return nil
}

func (s *PostgresStore) CancelSubscription(ctx context.Context, r CancelSubscriptionRequest) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE subscriptions SET cancelled_at = $2
		 WHERE user_id = $1 AND cancelled_at IS NULL AND expires_at > $2`,
		r.UserID, r.At)
	if err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}

	return expectAffected(res)
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func (s *PostgresStore) Close(_ context.Context) error {
	return s.conn.Close()
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func isPqErr(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	return pqErr.Code == code
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}

	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}

	v := t.Time.UTC()
	return &v
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}
