package cmd

import "github.com/spf13/cobra"

func RootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "agentboard",
		Short: "nad.fun agent ranking backend",
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "config file path")
	cmd.AddCommand(ServerCmd(&configPath))
	cmd.AddCommand(RefreshCmd(&configPath))
	return cmd
}
