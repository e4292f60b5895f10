package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foylaou/ExpoPass-sub000/internal/app"
	"github.com/foylaou/ExpoPass-sub000/internal/domain"
	"github.com/foylaou/ExpoPass-sub000/internal/token"
)

func newTokenCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue and inspect QR tokens",
	}

	var kind string
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Print a fresh token without storing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tok, err := token.Issue(domain.TokenKind(kind))
			if err != nil {
				return fmt.Errorf("issue %q token: %w", kind, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	issue.Flags().StringVar(&kind, "kind", string(domain.TokenKindAttendee), "token kind (attendee or booth)")

	var verify bool
	inspect := &cobra.Command{
		Use:   "inspect <token>",
		Short: "Classify a token and optionally resolve it against storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok := token.Normalize(args[0])
			out := cmd.OutOrStdout()
			if k := token.KindOf(tok); k == domain.TokenKindNone {
				fmt.Fprintln(out, "kind: unrecognized")
			} else {
				fmt.Fprintf(out, "kind: %s\n", k)
			}
			if !verify {
				return nil
			}

			b, _, err := c.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer b.Close()

			v, err := app.NewTokenService(b.Tokens).VerifyToken(cmd.Context(), tok)
			if err != nil {
				return err
			}
			switch {
			case !v.Valid:
				fmt.Fprintln(out, "registered: no")
			case v.Attendee != nil:
				fmt.Fprintf(out, "registered: attendee %s (%s) in event %s\n", v.Attendee.ID, v.Attendee.Name, v.Attendee.EventID)
			case v.Booth != nil:
				fmt.Fprintf(out, "registered: booth %s %s (%s) in event %s\n", v.Booth.Number, v.Booth.ID, v.Booth.Name, v.Booth.EventID)
			}
			return nil
		},
	}
	inspect.Flags().BoolVar(&verify, "verify", false, "look the token up in the configured store")

	cmd.AddCommand(issue, inspect)
	return cmd
}
