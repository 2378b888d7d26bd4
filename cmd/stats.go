package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viament/viament/internal/progress"
	"github.com/viament/viament/internal/roadmap"
	"github.com/viament/viament/internal/session"
	"github.com/viament/viament/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		manager := session.NewManager(st.SnapshotRepo(), nil)
		state, err := manager.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}

		if !state.SurveyCompleted {
			fmt.Println("No profile yet. Run `viament` to take the onboarding survey.")
			return nil
		}

		var completed int
		for _, topic := range state.Roadmap {
			for _, l := range topic.Lessons {
				if l.Status == roadmap.StatusCompleted {
					completed++
				}
			}
		}

		fmt.Printf("Goal:     %s\n", state.Profile.LearningGoal)
		fmt.Printf("XP:       %d\n", state.Progress.XP)
		fmt.Printf("Streak:   %d day(s)\n", state.Progress.Streak)
		fmt.Printf("Lives:    %d/%d\n", state.Progress.Lives, progress.MaxLives)
		fmt.Printf("Lessons:  %d/%d completed\n", completed, state.Roadmap.TotalLessons())
		fmt.Printf("Topics:   %d on roadmap\n", len(state.Roadmap))
		return nil
	},
}
