package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/viament/viament/internal/curriculum"
	"github.com/viament/viament/internal/profile"
	"github.com/viament/viament/internal/store"
)

type memSnapshotRepo struct {
	snaps     []*store.Snapshot
	pruneKeep int
	saveErr   error
	latestErr error
}

func (m *memSnapshotRepo) Save(_ context.Context, snap *store.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snaps = append(m.snaps, snap)
	return nil
}

func (m *memSnapshotRepo) Latest(context.Context) (*store.Snapshot, error) {
	if m.latestErr != nil {
		return nil, m.latestErr
	}
	if len(m.snaps) == 0 {
		return nil, nil
	}
	return m.snaps[len(m.snaps)-1], nil
}

func (m *memSnapshotRepo) Prune(_ context.Context, keep int) error {
	m.pruneKeep = keep
	return nil
}

func (m *memSnapshotRepo) DeleteAll(context.Context) error {
	m.snaps = nil
	return nil
}

func managerAt(repo *memSnapshotRepo, now time.Time) *Manager {
	m := NewManager(repo, nil)
	m.now = func() time.Time { return now }
	return m
}

var testDay = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestLoad_NoSnapshotReturnsDefaults(t *testing.T) {
	m := managerAt(&memSnapshotRepo{}, testDay)

	st, err := m.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Progress.Lives != 3 || st.Progress.XP != 0 || st.SurveyCompleted {
		t.Errorf("state = %+v", st)
	}
}

func TestLoad_CorruptSnapshotReturnsDefaults(t *testing.T) {
	repo := &memSnapshotRepo{snaps: []*store.Snapshot{{Data: []byte(`{truncated`)}}}
	m := managerAt(repo, testDay)

	st, err := m.Load(context.Background())
	if err != nil {
		t.Fatalf("corrupt data must not error: %v", err)
	}
	if st.Progress.Lives != 3 {
		t.Errorf("lives = %d, want fresh default 3", st.Progress.Lives)
	}
}

func TestLoad_StoreErrorSurfaces(t *testing.T) {
	repo := &memSnapshotRepo{latestErr: errors.New("db locked")}
	m := managerAt(repo, testDay)

	if _, err := m.Load(context.Background()); err == nil {
		t.Error("expected store error to surface")
	}
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	repo := &memSnapshotRepo{}
	m := managerAt(repo, testDay)
	ctx := context.Background()

	st := NewState()
	st.Profile = profile.UserProfile{Reason: "career change", Hobbies: []string{"reading"}}
	st.SurveyCompleted = true
	st.Progress.XP = 46
	st.Progress.Streak = 2
	st.Progress.LastStreakDate = testDay.Format("2006-01-02")

	if err := m.Save(ctx, st); err != nil {
		t.Fatalf("save: %v", err)
	}
	if repo.pruneKeep != snapshotKeep {
		t.Errorf("prune keep = %d, want %d", repo.pruneKeep, snapshotKeep)
	}

	got, err := m.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Profile.Reason != "career change" || !got.SurveyCompleted {
		t.Errorf("profile lost: %+v", got)
	}
	if got.Progress.XP != 46 || got.Progress.Streak != 2 {
		t.Errorf("progress lost: %+v", got.Progress)
	}
}

func TestLoad_DecaysStaleStreak(t *testing.T) {
	st := NewState()
	st.Progress.Streak = 5
	st.Progress.LastStreakDate = testDay.AddDate(0, 0, -3).Format("2006-01-02")
	data, _ := json.Marshal(st)

	repo := &memSnapshotRepo{snaps: []*store.Snapshot{{Data: data}}}
	m := managerAt(repo, testDay)

	got, err := m.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Progress.Streak != 0 || got.Progress.LastStreakDate != "" {
		t.Errorf("stale streak must decay, got %+v", got.Progress)
	}
}

func TestLoad_RefillsLivesOncePerDay(t *testing.T) {
	st := NewState()
	st.Progress.Lives = 1
	st.Progress.LastRefillDate = testDay.AddDate(0, 0, -1).Format("2006-01-02")
	data, _ := json.Marshal(st)

	repo := &memSnapshotRepo{snaps: []*store.Snapshot{{Data: data}}}
	m := managerAt(repo, testDay)

	got, err := m.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Progress.Lives != 3 {
		t.Errorf("lives = %d, want refilled 3", got.Progress.Lives)
	}
	if got.Progress.LastRefillDate != testDay.Format("2006-01-02") {
		t.Errorf("refill date = %q", got.Progress.LastRefillDate)
	}
}

func TestReset_ClearsSnapshots(t *testing.T) {
	repo := &memSnapshotRepo{snaps: []*store.Snapshot{{Data: []byte(`{}`)}}}
	m := managerAt(repo, testDay)
	ctx := context.Background()

	if err := m.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	st, err := m.Load(ctx)
	if err != nil {
		t.Fatalf("load after reset: %v", err)
	}
	if st.SurveyCompleted || st.Progress.XP != 0 {
		t.Errorf("reset should yield defaults, got %+v", st)
	}
}

func TestRemoveAndRestoreTopic(t *testing.T) {
	st := NewState()
	st.Topics = []curriculum.TopicBlueprint{
		{ID: "a-0", Title: "A"},
		{ID: "b-1", Title: "B"},
		{ID: "c-2", Title: "C"},
	}

	if !st.RemoveTopic("b-1") {
		t.Fatal("remove should report a change")
	}
	if len(st.Topics) != 2 || len(st.RemovedTopics) != 1 {
		t.Fatalf("topics = %d removed = %d", len(st.Topics), len(st.RemovedTopics))
	}
	if st.RemoveTopic("b-1") {
		t.Error("removing a missing topic must be a no-op")
	}

	if !st.RestoreTopic("b-1") {
		t.Fatal("restore should report a change")
	}
	if len(st.Topics) != 3 || len(st.RemovedTopics) != 0 {
		t.Fatalf("topics = %d removed = %d", len(st.Topics), len(st.RemovedTopics))
	}
	if st.Topics[2].ID != "b-1" {
		t.Errorf("restored topic must append at the end, got %q", st.Topics[2].ID)
	}
	if st.RestoreTopic("b-1") {
		t.Error("restoring a missing topic must be a no-op")
	}
}

func TestRenameTopic(t *testing.T) {
	st := NewState()
	st.Topics = []curriculum.TopicBlueprint{
		{ID: "a-0", Title: "A"},
		{ID: "b-1", Title: "B"},
	}

	if !st.RenameTopic("b-1", "  Backend Basics  ") {
		t.Fatal("rename should report a change")
	}
	if st.Topics[1].Title != "Backend Basics" {
		t.Errorf("title = %q, want trimmed new title", st.Topics[1].Title)
	}
	if st.Topics[1].ID != "b-1" {
		t.Errorf("rename must not change the ID, got %q", st.Topics[1].ID)
	}

	if st.RenameTopic("b-1", "   ") {
		t.Error("blank title must be a no-op")
	}
	if st.RenameTopic("missing", "X") {
		t.Error("renaming a missing topic must be a no-op")
	}
}
