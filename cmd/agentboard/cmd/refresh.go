package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/b-harvest/agentboard-backend/schema"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type refreshOutput struct {
	Refresh schema.RefreshResponse `json:"refresh"`
	Stats   schema.Stats           `json:"stats"`
	Agents  []schema.Agent         `json:"agents,omitempty"`
}

func RefreshCmd(configPath *string) *cobra.Command {
	var timeout time.Duration
	var showAgents bool
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "run a single refresh cycle and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			a := newApp(cfg, logger)

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			var out refreshOutput
			if out.Refresh, err = a.board.Refresh(ctx, true); err != nil {
				return fmt.Errorf("refresh: %w", err)
			}
			if out.Stats, err = a.board.Stats(ctx); err != nil {
				return fmt.Errorf("stats: %w", err)
			}
			if showAgents {
				out.Agents = a.store.Agents()
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			if !out.Refresh.Success {
				return fmt.Errorf("no agent could be built")
			}
			return nil
		},
	}
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 2*time.Minute, "refresh timeout")
	cmd.Flags().BoolVarP(&showAgents, "agents", "a", false, "print the ranked agents")
	return cmd
}
