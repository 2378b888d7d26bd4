package progress

import (
	"errors"
	"testing"
	"time"

	"github.com/viament/viament/internal/curriculum"
	"github.com/viament/viament/internal/profile"
	"github.com/viament/viament/internal/roadmap"
)

var testProfile = profile.UserProfile{
	Reason:       "career change",
	LearningGoal: "become a full-stack developer",
	Hobbies:      []string{"reading"},
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func twoTopicRoadmap() roadmap.Roadmap {
	return roadmap.Build(testProfile, []curriculum.TopicBlueprint{
		{ID: "a", Title: "Alpha Topic"},
		{ID: "b", Title: "Beta Topic"},
	})
}

func TestCompleteLesson_AwardsXPAndUnlocksNext(t *testing.T) {
	r := twoTopicRoadmap()
	st := NewState()

	first := r[0].Lessons[0]
	res, err := CompleteLesson(r, &st, first.ID, day("2026-08-30"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AwardedXP != first.Lesson.XPReward {
		t.Errorf("awarded %d xp, want %d", res.AwardedXP, first.Lesson.XPReward)
	}
	if st.XP != first.Lesson.XPReward {
		t.Errorf("state xp = %d, want %d", st.XP, first.Lesson.XPReward)
	}
	if r[0].Lessons[0].Status != roadmap.StatusCompleted {
		t.Error("lesson must be marked completed")
	}
	if r[0].Lessons[1].Status != roadmap.StatusUnlocked {
		t.Error("successor must be unlocked")
	}
	if len(res.Unlocked) != 1 || res.Unlocked[0] != r[0].Lessons[1].ID {
		t.Errorf("unlocked = %v", res.Unlocked)
	}
}

func TestCompleteLesson_Idempotent(t *testing.T) {
	r := twoTopicRoadmap()
	st := NewState()
	id := r[0].Lessons[0].ID

	if _, err := CompleteLesson(r, &st, id, day("2026-08-30")); err != nil {
		t.Fatal(err)
	}
	xpAfterFirst := st.XP
	streakAfterFirst := st.Streak

	res, err := CompleteLesson(r, &st, id, day("2026-08-30"))
	if err != nil {
		t.Fatalf("recompletion must not error: %v", err)
	}
	if !res.AlreadyCompleted {
		t.Error("result must flag the lesson as already completed")
	}
	if st.XP != xpAfterFirst {
		t.Errorf("recompletion changed xp: %d != %d", st.XP, xpAfterFirst)
	}
	if st.Streak != streakAfterFirst {
		t.Errorf("recompletion changed streak: %d != %d", st.Streak, streakAfterFirst)
	}
}

func TestCompleteLesson_LockedRejected(t *testing.T) {
	r := twoTopicRoadmap()
	st := NewState()

	_, err := CompleteLesson(r, &st, r[0].Lessons[2].ID, day("2026-08-30"))
	if !errors.Is(err, ErrLessonLocked) {
		t.Fatalf("err = %v, want ErrLessonLocked", err)
	}
}

func TestCompleteLesson_UnknownLesson(t *testing.T) {
	r := twoTopicRoadmap()
	st := NewState()

	_, err := CompleteLesson(r, &st, "ghost-lesson-9", day("2026-08-30"))
	if !errors.Is(err, ErrLessonNotFound) {
		t.Fatalf("err = %v, want ErrLessonNotFound", err)
	}
}

func TestCompleteLesson_TopicBoundaryUnlock(t *testing.T) {
	r := twoTopicRoadmap()
	st := NewState()
	today := day("2026-08-30")

	// Walk through every lesson of the first topic in order.
	for i := range r[0].Lessons {
		if _, err := CompleteLesson(r, &st, r[0].Lessons[i].ID, today); err != nil {
			t.Fatalf("lesson %d: %v", i, err)
		}
	}

	if r[1].Lessons[0].Status != roadmap.StatusUnlocked {
		t.Error("completing a topic must unlock the next topic's first lesson")
	}
	if r[1].Lessons[1].Status != roadmap.StatusLocked {
		t.Error("only the first lesson of the next topic unlocks")
	}
}

func TestStreak_SameDayKeeps(t *testing.T) {
	r := twoTopicRoadmap()
	st := NewState()
	today := day("2026-08-30")

	if _, err := CompleteLesson(r, &st, r[0].Lessons[0].ID, today); err != nil {
		t.Fatal(err)
	}
	if st.Streak != 1 {
		t.Fatalf("first completion streak = %d, want 1", st.Streak)
	}

	if _, err := CompleteLesson(r, &st, r[0].Lessons[1].ID, today); err != nil {
		t.Fatal(err)
	}
	if st.Streak != 1 {
		t.Errorf("same-day completion streak = %d, want still 1", st.Streak)
	}
	if st.LastStreakDate != "2026-08-30" {
		t.Errorf("lastStreakDate = %q", st.LastStreakDate)
	}
}

func TestStreak_NextDayIncrements(t *testing.T) {
	r := twoTopicRoadmap()
	st := NewState()

	if _, err := CompleteLesson(r, &st, r[0].Lessons[0].ID, day("2026-08-30")); err != nil {
		t.Fatal(err)
	}
	if _, err := CompleteLesson(r, &st, r[0].Lessons[1].ID, day("2026-08-31")); err != nil {
		t.Fatal(err)
	}
	if st.Streak != 2 {
		t.Errorf("next-day streak = %d, want 2", st.Streak)
	}
}

func TestStreak_GapResets(t *testing.T) {
	r := twoTopicRoadmap()
	st := NewState()

	if _, err := CompleteLesson(r, &st, r[0].Lessons[0].ID, day("2026-08-30")); err != nil {
		t.Fatal(err)
	}
	if _, err := CompleteLesson(r, &st, r[0].Lessons[1].ID, day("2026-09-05")); err != nil {
		t.Fatal(err)
	}
	if st.Streak != 1 {
		t.Errorf("post-gap streak = %d, want reset to 1", st.Streak)
	}
	if st.LastStreakDate != "2026-09-05" {
		t.Errorf("lastStreakDate = %q", st.LastStreakDate)
	}
}

func TestDecay(t *testing.T) {
	st := State{Streak: 7, LastStreakDate: "2026-08-20"}
	Decay(&st, day("2026-08-30"))
	if st.Streak != 0 || st.LastStreakDate != "" {
		t.Errorf("stale streak must fully clear, got %+v", st)
	}

	st = State{Streak: 7, LastStreakDate: "2026-08-29"}
	Decay(&st, day("2026-08-30"))
	if st.Streak != 7 {
		t.Errorf("one-day-old streak must survive, got %d", st.Streak)
	}

	st = State{Streak: 7, LastStreakDate: "2026-08-30"}
	Decay(&st, day("2026-08-30"))
	if st.Streak != 7 {
		t.Errorf("same-day streak must survive, got %d", st.Streak)
	}

	// A streak without a date is invalid and resets.
	st = State{Streak: 3}
	Decay(&st, day("2026-08-30"))
	if st.Streak != 0 {
		t.Errorf("dateless streak must reset, got %d", st.Streak)
	}

	// A corrupt date clears both fields.
	st = State{Streak: 3, LastStreakDate: "not-a-date"}
	Decay(&st, day("2026-08-30"))
	if st.Streak != 0 || st.LastStreakDate != "" {
		t.Errorf("corrupt date must clear streak state, got %+v", st)
	}
}

func TestLoseLife(t *testing.T) {
	st := NewState()
	if got := LoseLife(&st); got != 2 {
		t.Errorf("lives after one loss = %d, want 2", got)
	}
	LoseLife(&st)
	LoseLife(&st)
	if st.Lives != 0 {
		t.Errorf("lives = %d, want 0", st.Lives)
	}
	if got := LoseLife(&st); got != 0 {
		t.Errorf("lives must floor at 0, got %d", got)
	}
}

func TestRefillIfNewDay(t *testing.T) {
	st := NewState()
	LoseLife(&st)
	LoseLife(&st)

	if !RefillIfNewDay(&st, day("2026-08-30")) {
		t.Fatal("first load of the day must refill")
	}
	if st.Lives != MaxLives {
		t.Errorf("lives = %d, want %d", st.Lives, MaxLives)
	}

	LoseLife(&st)
	if RefillIfNewDay(&st, day("2026-08-30")) {
		t.Error("second load same day must not refill")
	}
	if st.Lives != MaxLives-1 {
		t.Errorf("lives = %d, want %d", st.Lives, MaxLives-1)
	}

	if !RefillIfNewDay(&st, day("2026-08-31")) {
		t.Error("next day must refill again")
	}
}
