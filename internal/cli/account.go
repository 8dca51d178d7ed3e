package cli

import (
	"github.com/spf13/cobra"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Show the games linked to the configured account",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := active.Account(cmd.Context(), cfg.Refresh)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "forget",
		Short: "Drop the cached account record",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := active.Forget(cmd.Context()); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.PrintMessage("Cached account record removed")
			return nil
		},
	})

	return cmd
}
