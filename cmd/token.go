package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/onebytwo/account-eraser/internal/token"
)

// newTokenCommand mints tokens signed with the configured secrets for local testing.
func newTokenCommand() *cobra.Command {
	var appID string

	cmd := &cobra.Command{
		Use:   "token <uid>",
		Short: "Print an access token for uid, signed with JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid uid: %w", err)
			}

			cfg, _, err := load()
			if err != nil {
				return err
			}

			access, err := token.NewJWT(cfg.JWT.Secret).GenerateAccessToken(uid)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "authorization: Bearer %s\n", access)

			if appID != "" {
				attest, err := token.NewAppCheck(cfg.AppCheck.Secret).GenerateAppCheckToken(appID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "x-firebase-appcheck: %s\n", attest)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&appID, "app-id", "", "also print an app check token for this app id")

	return cmd
}
