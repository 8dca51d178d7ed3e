package cli

import (
	"errors"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mcoot/hoyorecord/internal/dependencies/clock"
	"github.com/mcoot/hoyorecord/internal/dependencies/random"
	"github.com/mcoot/hoyorecord/internal/services/salt"
	"github.com/mcoot/hoyorecord/internal/services/signer"
)

// newSigner is replaced in tests to pin the clock and random source
var newSigner = func() *signer.Signer {
	return signer.New(salt.Default(), clock.New(), random.New())
}

func newSignCmd() *cobra.Command {
	var (
		purposeName string
		body        string
		query       map[string]string
	)

	cmd := &cobra.Command{
		Use:         "sign <os|cn|passport|challenge>",
		Short:       "Print a fresh DS header value",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{standalone: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := signer.ParseFamily(args[0])
			if err != nil {
				return err
			}

			purpose := salt.PurposeDefault
			if purposeName != "" {
				if purpose, err = salt.ParsePurpose(purposeName); err != nil {
					return err
				}
			}

			var payload any
			if body != "" {
				if !json.Valid([]byte(body)) {
					return errors.New("--body must be valid JSON")
				}
				payload = json.RawMessage(body)
			}

			if purpose, err = signer.ResolvePurpose(family, purpose); err != nil {
				return err
			}
			sig, err := newSigner().Sign(family, purpose, payload, query)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(SignResult{Family: string(family), Purpose: purpose.String(), DS: sig.String()})
			return nil
		},
	}

	cmd.Flags().StringVar(&purposeName, "purpose", "", "Salt to sign with: os, cn, app_login, cn_signin, cn_passport (default: the family's own)")
	cmd.Flags().StringVar(&body, "body", "", "JSON request body (cn, passport)")
	cmd.Flags().StringToStringVar(&query, "query", nil, "Query parameters as k=v pairs (cn)")

	return cmd
}
