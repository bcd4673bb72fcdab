// Package progress holds the XP and daily streak rules applied when a learner
// completes a lesson. It has no I/O; callers load the user, apply the rule and
// persist the resulting Update.
package progress

import (
	"time"

	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/model"
)

// FallbackXPReward is awarded when the lesson is unknown or does not set a reward.
const FallbackXPReward = 10

type Outcome string

const (
	// SameDay means the learner already completed something today; only XP changes.
	SameDay Outcome = "same_day"
	// Continued means the previous completion was yesterday.
	Continued Outcome = "continued"
	// Reset covers the first ever completion and any gap longer than one day.
	Reset Outcome = "reset"
)

// Streak is the new streak state. It is nil in an Update when the streak is untouched.
type Streak struct {
	Current        int
	Longest        int
	LastLessonDate time.Time
}

// Update describes how a completion changes a user.
type Update struct {
	Outcome  Outcome
	XPGained int
	Streak   *Streak
}

// Reward returns the XP a completion of lesson is worth. A configured reward
// of zero is honoured.
func Reward(lesson *model.Lesson) int {
	if lesson == nil || lesson.XPReward == nil {
		return FallbackXPReward
	}

	return *lesson.XPReward
}

// Complete computes the update for a user completing a lesson worth reward XP at now.
// Days are compared as UTC calendar dates.
func Complete(u model.User, reward int, now time.Time) Update {
	now = now.UTC()
	upd := Update{XPGained: reward}

	if u.LastLessonDate != nil && DaysBetween(*u.LastLessonDate, now) == 0 {
		upd.Outcome = SameDay
		return upd
	}

	streak := 1
	upd.Outcome = Reset
	if u.LastLessonDate != nil && DaysBetween(*u.LastLessonDate, now) == 1 {
		streak = u.CurrentStreak + 1
		upd.Outcome = Continued
	}

	upd.Streak = &Streak{
		Current:        streak,
		Longest:        max(streak, u.LongestStreak),
		LastLessonDate: now,
	}

	return upd
}

// ApplyTo returns u with the update applied.
func (upd Update) ApplyTo(u model.User) model.User {
	u.TotalXP += upd.XPGained
	if upd.Streak != nil {
		last := upd.Streak.LastLessonDate
		u.CurrentStreak = upd.Streak.Current
		u.LongestStreak = upd.Streak.Longest
		u.LastLessonDate = &last
	}

	return u
}

// DaysBetween returns the number of UTC calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(date(b).Sub(date(a)).Hours() / 24)
}

func date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
