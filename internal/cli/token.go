package cli

import (
	"bufio"
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func newHashTokenCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:         "hash-token [token]",
		Short:       "Hash an API token for server.api_token_hash",
		Long:        "Hash an API token with bcrypt. The token is read from stdin when not given as an argument.",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{standalone: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no token given")
				}
				token = strings.TrimRight(line, "\r\n")
			}
			if token == "" {
				return errors.New("token must not be empty")
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(token), cost)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.PrintMessage(string(hash))
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")

	return cmd
}
