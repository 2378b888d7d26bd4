package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viament/viament/internal/app"
	"github.com/viament/viament/internal/curriculum"
	"github.com/viament/viament/internal/hydrate"
	"github.com/viament/viament/internal/llm"
	"github.com/viament/viament/internal/mentor"
	"github.com/viament/viament/internal/session"
	"github.com/viament/viament/internal/store"
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Start or continue your roadmap",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// buildProvider prefers explicit VIAMENT_* configuration and falls back
// to probing the standard provider API key env vars.
func buildProvider(ctx context.Context, events store.EventRepo) (llm.Provider, error) {
	cfg := llm.ConfigFromEnv()
	if cfg.Validate() != nil {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			return nil, fmt.Errorf("no LLM API key found in environment")
		}
		cfg = discovered
	}
	return llm.NewProvider(ctx, cfg, events)
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	// The app works without a provider: topics, lessons, and mentor
	// modes all have built-in fallbacks.
	provider, err := buildProvider(ctx, st.EventRepo())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Falling back to built-in content.")
		provider = nil
	}

	manager := session.NewManager(st.SnapshotRepo(), nil)
	state, err := manager.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	return app.Run(app.Deps{
		Manager:  manager,
		State:    state,
		Topics:   curriculum.NewService(provider),
		Hydrator: hydrate.New(provider),
		Mentor:   mentor.New(provider, st.ChatRepo(), nil),
	})
}
