package model

import "time"

type LessonType string

const (
	Reading   LessonType = "reading"
	Writing   LessonType = "writing"
	Speaking  LessonType = "speaking"
	Listening LessonType = "listening"
)

type ExerciseType string

const (
	MultipleChoice ExerciseType = "multiple_choice"
	FillBlank      ExerciseType = "fill_blank"
	Translation    ExerciseType = "translation"
	AudioMatch     ExerciseType = "audio_match"
)

const (
	DefaultLevel           = 1
	DefaultHearts          = 5
	DefaultDifficultyLevel = "beginner"
)

// User is a learner account. PasswordHash never leaves the service layer.
type User struct {
	ID               string     `bson:"id"`
	Username         string     `bson:"username"`
	Email            string     `bson:"email"`
	PasswordHash     string     `bson:"password"`
	NativeLanguage   string     `bson:"native_language"`
	LearningLanguage string     `bson:"learning_language"`
	TotalXP          int        `bson:"total_xp"`
	CurrentStreak    int        `bson:"current_streak"`
	LongestStreak    int        `bson:"longest_streak"`
	LastLessonDate   *time.Time `bson:"last_lesson_date"`
	CreatedAt        time.Time  `bson:"created_at"`
	Level            int        `bson:"level"`
	Hearts           int        `bson:"hearts"`
	Gems             int        `bson:"gems"`
	Friends          []string   `bson:"friends"`
	Achievements     []string   `bson:"achievements"`
}

type Language struct {
	ID              string `bson:"id"`
	Name            string `bson:"name"`
	Code            string `bson:"code"`
	NativeName      string `bson:"native_name"`
	Flag            string `bson:"flag"`
	TotalLessons    int    `bson:"total_lessons"`
	DifficultyLevel string `bson:"difficulty_level"`
}

// Lesson is a unit of study. A nil XPReward means the lesson does not set one.
type Lesson struct {
	ID            string     `bson:"id"`
	LanguageID    string     `bson:"language_id"`
	UnitID        string     `bson:"unit_id"`
	Title         string     `bson:"title"`
	Description   string     `bson:"description"`
	Type          LessonType `bson:"type"`
	Difficulty    int        `bson:"difficulty"`
	XPReward      *int       `bson:"xp_reward,omitempty"`
	Exercises     []string   `bson:"exercises"`
	Prerequisites []string   `bson:"prerequisites"`
	IsLocked      bool       `bson:"is_locked"`
}

type Exercise struct {
	ID            string       `bson:"id"`
	LessonID      string       `bson:"lesson_id"`
	Type          ExerciseType `bson:"type"`
	Question      string       `bson:"question"`
	Options       []string     `bson:"options"`
	CorrectAnswer string       `bson:"correct_answer"`
	Explanation   string       `bson:"explanation"`
	AudioURL      string       `bson:"audio_url"`
	ImageURL      string       `bson:"image_url"`
	Difficulty    int          `bson:"difficulty"`
}

// UserProgress records a single lesson completion. Records are only ever appended.
type UserProgress struct {
	ID          string     `bson:"id"`
	UserID      string     `bson:"user_id"`
	LessonID    string     `bson:"lesson_id"`
	Completed   bool       `bson:"completed"`
	Score       int        `bson:"score"`
	Attempts    int        `bson:"attempts"`
	CompletedAt *time.Time `bson:"completed_at"`
	Mistakes    []string   `bson:"mistakes"`
}

// Plan is a subscription tier. Plans are fixed in code and are not stored.
type Plan struct {
	ID              string
	Name            string
	Status          string
	Price           float64
	Features        []string
	UnlimitedHearts bool
	MaxHearts       int
	AdsFree         bool
	OfflineLessons  bool
	PrioritySupport bool
}

// Subscription is a user's paid plan. A user holds at most one; subscribing again
// replaces it. A cancelled subscription stays usable until ExpiresAt.
type Subscription struct {
	ID          string     `bson:"id"`
	UserID      string     `bson:"user_id"`
	PlanID      string     `bson:"plan_id"`
	StartedAt   time.Time  `bson:"started_at"`
	ExpiresAt   time.Time  `bson:"expires_at"`
	CancelledAt *time.Time `bson:"cancelled_at"`
}

// ActiveAt reports whether the subscription still grants its plan at t.
func (s Subscription) ActiveAt(t time.Time) bool {
	return t.Before(s.ExpiresAt)
}
