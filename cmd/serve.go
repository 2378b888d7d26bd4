package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/viament/viament/internal/curriculum"
	"github.com/viament/viament/internal/hydrate"
	"github.com/viament/viament/internal/mentor"
	"github.com/viament/viament/internal/server"
	"github.com/viament/viament/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		logger, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer logger.Sync()
		log := logger.Sugar()

		provider, err := buildProvider(cmd.Context(), st.EventRepo())
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Serving built-in fallback content.")
			provider = nil
		}

		srv := server.NewServer(server.RouterConfig{
			Topics:   curriculum.NewService(provider),
			Hydrator: hydrate.New(provider),
			Mentor:   mentor.New(provider, st.ChatRepo(), log),
			Log:      log,
		})

		log.Infow("listening", "addr", addr)
		return srv.Run(addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
}
