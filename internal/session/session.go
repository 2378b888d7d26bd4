// Package session owns the full application state and its persistence
// boundary. Core packages stay pure; only the Manager talks to the
// store.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/viament/viament/internal/curriculum"
	"github.com/viament/viament/internal/profile"
	"github.com/viament/viament/internal/progress"
	"github.com/viament/viament/internal/roadmap"
	"github.com/viament/viament/internal/store"
)

// snapshotKeep bounds how many historic snapshots survive a save.
const snapshotKeep = 20

// State is everything the app remembers between runs.
type State struct {
	Profile         profile.UserProfile         `json:"profile"`
	SurveyCompleted bool                        `json:"surveyCompleted"`
	Topics          []curriculum.TopicBlueprint `json:"topics,omitempty"`
	RemovedTopics   []curriculum.TopicBlueprint `json:"removedTopics,omitempty"`
	TopicsSource    string                      `json:"topicsSource,omitempty"`
	TopicsCompleted bool                        `json:"topicsCompleted"`
	Roadmap         roadmap.Roadmap             `json:"roadmap,omitempty"`
	Progress        progress.State              `json:"progress"`
}

// NewState returns the zero session: no profile, full lives.
func NewState() *State {
	return &State{Progress: progress.NewState()}
}

// RemoveTopic moves the topic with the given ID to the removed list.
// It reports whether anything changed.
func (s *State) RemoveTopic(id string) bool {
	for i, t := range s.Topics {
		if t.ID == id {
			s.RemovedTopics = append(s.RemovedTopics, t)
			s.Topics = append(s.Topics[:i], s.Topics[i+1:]...)
			return true
		}
	}
	return false
}

// RestoreTopic moves a removed topic back to the active list, appending
// it at the end. It reports whether anything changed.
func (s *State) RestoreTopic(id string) bool {
	for i, t := range s.RemovedTopics {
		if t.ID == id {
			s.Topics = append(s.Topics, t)
			s.RemovedTopics = append(s.RemovedTopics[:i], s.RemovedTopics[i+1:]...)
			return true
		}
	}
	return false
}

// RenameTopic retitles an active topic. The ID stays stable so the
// removed-topic bookkeeping keeps working. It reports whether anything
// changed.
func (s *State) RenameTopic(id, title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}
	for i := range s.Topics {
		if s.Topics[i].ID == id {
			s.Topics[i].Title = title
			return true
		}
	}
	return false
}

// Manager loads and saves session state through the snapshot store.
type Manager struct {
	snapshots store.SnapshotRepo
	log       *zap.SugaredLogger
	now       func() time.Time
}

// NewManager creates a Manager. logger may be nil.
func NewManager(snapshots store.SnapshotRepo, logger *zap.SugaredLogger) *Manager {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Manager{snapshots: snapshots, log: logger, now: time.Now}
}

// Load restores the latest snapshot. A missing or corrupt snapshot
// yields a fresh default state rather than an error. Streak decay and
// the daily life refill run on every load so stale state self-heals.
func (m *Manager) Load(ctx context.Context) (*State, error) {
	st := NewState()

	snap, err := m.snapshots.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if snap != nil {
		if err := json.Unmarshal(snap.Data, st); err != nil {
			m.log.Warnw("corrupt session snapshot, starting fresh", "error", err)
			st = NewState()
		}
	}

	now := m.now()
	progress.Decay(&st.Progress, now)
	if progress.RefillIfNewDay(&st.Progress, now) {
		m.log.Infow("daily life refill applied")
	}
	return st, nil
}

// Save persists the state as a new snapshot and prunes old ones.
func (m *Manager) Save(ctx context.Context, st *State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.snapshots.Save(ctx, &store.Snapshot{Data: data}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := m.snapshots.Prune(ctx, snapshotKeep); err != nil {
		m.log.Warnw("prune snapshots failed", "error", err)
	}
	return nil
}

// Reset destroys every snapshot. The next Load starts from scratch.
func (m *Manager) Reset(ctx context.Context) error {
	if err := m.snapshots.DeleteAll(ctx); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	return nil
}
