// Package progress owns the learner's progression state: lesson
// completion, unlock cascades, streaks, XP, and lives.
package progress

import (
	"errors"
	"time"

	"github.com/viament/viament/internal/roadmap"
)

// MaxLives is the heart ceiling. Lives refill to this once per
// calendar day.
const MaxLives = 3

const dateLayout = "2006-01-02"

// ErrLessonNotFound means the lesson id is not in the roadmap.
var ErrLessonNotFound = errors.New("lesson not found in roadmap")

// ErrLessonLocked means the lesson has not been unlocked yet.
var ErrLessonLocked = errors.New("lesson is locked")

// State is the persisted progression record. Streak and LastStreakDate
// are jointly zero or jointly present; Load-time decay enforces this.
type State struct {
	Lives          int    `json:"lives"`
	Streak         int    `json:"streak"`
	LastStreakDate string `json:"lastStreakDate,omitempty"`
	XP             int    `json:"xp"`
	LastRefillDate string `json:"lastRefillDate,omitempty"`
}

// NewState returns the starting state: full lives, nothing else.
func NewState() State {
	return State{Lives: MaxLives}
}

// CompletionResult reports what a completion changed.
type CompletionResult struct {
	AlreadyCompleted bool
	AwardedXP        int
	Unlocked         []string // lesson ids newly unlocked
}

// CompleteLesson marks a lesson completed and applies every downstream
// effect: XP award, streak update, and unlock cascade. Recompleting an
// already-completed lesson is a no-op (idempotent), and completion of a
// still-locked lesson is rejected.
func CompleteLesson(r roadmap.Roadmap, st *State, lessonID string, now time.Time) (CompletionResult, error) {
	topicIdx, lessonIdx := locate(r, lessonID)
	if topicIdx < 0 {
		return CompletionResult{}, ErrLessonNotFound
	}

	summary := &r[topicIdx].Lessons[lessonIdx]
	switch summary.Status {
	case roadmap.StatusCompleted:
		return CompletionResult{AlreadyCompleted: true}, nil
	case roadmap.StatusLocked:
		return CompletionResult{}, ErrLessonLocked
	}

	summary.Status = roadmap.StatusCompleted

	result := CompletionResult{AwardedXP: summary.Lesson.XPReward}
	st.XP += result.AwardedXP
	touchStreak(st, now)

	// Unlock the next lesson within the topic.
	if lessonIdx+1 < len(r[topicIdx].Lessons) {
		next := &r[topicIdx].Lessons[lessonIdx+1]
		if next.Status == roadmap.StatusLocked {
			next.Status = roadmap.StatusUnlocked
			result.Unlocked = append(result.Unlocked, next.ID)
		}
		return result, nil
	}

	// Last lesson of its topic: if the topic is now fully completed,
	// open the next topic's first lesson.
	if topicCompleted(r[topicIdx]) && topicIdx+1 < len(r) && len(r[topicIdx+1].Lessons) > 0 {
		first := &r[topicIdx+1].Lessons[0]
		if first.Status == roadmap.StatusLocked {
			first.Status = roadmap.StatusUnlocked
			result.Unlocked = append(result.Unlocked, first.ID)
		}
	}
	return result, nil
}

// touchStreak applies the calendar-day streak rules for a qualifying
// completion: same day keeps the streak (starting it at 1 if needed), a
// one-day gap increments, anything longer restarts at 1.
func touchStreak(st *State, now time.Time) {
	today := midnight(now)

	last, ok := parseDay(st.LastStreakDate)
	if !ok {
		st.Streak = 1
		st.LastStreakDate = today.Format(dateLayout)
		return
	}

	switch gap := dayGap(last, today); {
	case gap <= 0:
		if st.Streak == 0 {
			st.Streak = 1
		}
	case gap == 1:
		st.Streak++
	default:
		st.Streak = 1
	}
	st.LastStreakDate = today.Format(dateLayout)
}

// Decay enforces the load-time streak invariant: a last-activity date
// more than one day in the past clears the streak entirely, and a
// streak without a date is impossible.
func Decay(st *State, now time.Time) {
	if st.Streak > 0 && st.LastStreakDate == "" {
		st.Streak = 0
		return
	}
	last, ok := parseDay(st.LastStreakDate)
	if !ok {
		st.LastStreakDate = ""
		st.Streak = 0
		return
	}
	if dayGap(last, midnight(now)) > 1 {
		st.Streak = 0
		st.LastStreakDate = ""
	}
}

// LoseLife deducts one heart, stopping at zero. Returns the remaining
// lives.
func LoseLife(st *State) int {
	if st.Lives > 0 {
		st.Lives--
	}
	return st.Lives
}

// RefillIfNewDay restores full lives on the first load of a new
// calendar day and reports whether a refill happened.
func RefillIfNewDay(st *State, now time.Time) bool {
	today := midnight(now).Format(dateLayout)
	if st.LastRefillDate == today {
		return false
	}
	st.LastRefillDate = today
	if st.Lives < MaxLives {
		st.Lives = MaxLives
		return true
	}
	return false
}

func locate(r roadmap.Roadmap, lessonID string) (int, int) {
	for t := range r {
		for l := range r[t].Lessons {
			if r[t].Lessons[l].ID == lessonID {
				return t, l
			}
		}
	}
	return -1, -1
}

func topicCompleted(t roadmap.Topic) bool {
	for _, lesson := range t.Lessons {
		if lesson.Status != roadmap.StatusCompleted {
			return false
		}
	}
	return true
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func dayGap(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
