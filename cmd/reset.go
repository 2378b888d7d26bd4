package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/viament/viament/internal/session"
	"github.com/viament/viament/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the profile, roadmap, and all progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Print("This deletes your profile, roadmap, and progress. Continue? [y/N] ")
			scanner := bufio.NewScanner(os.Stdin)
			if !scanner.Scan() || strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx := cmd.Context()
		manager := session.NewManager(st.SnapshotRepo(), nil)
		if err := manager.Reset(ctx); err != nil {
			return err
		}
		if err := st.ChatRepo().DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear chat history: %w", err)
		}

		fmt.Println("All learner data deleted.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
