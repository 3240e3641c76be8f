package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"webmention/internal/config"
	"webmention/internal/verifier"
	"webmention/internal/weburl"
	"webmention/pkg/domain"
)

// verifyCommand constructs the 'verify' subcommand: it fetches a source and
// reports whether it links to a target without recording anything or
// consulting the allowlist.
func verifyCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <source> <target>",
		Short: "Checks whether a source links to a target without recording a mention",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := weburl.Normalize(args[0])
			if err != nil {
				return fmt.Errorf("invalid source: %w", err)
			}
			target, err := weburl.Normalize(args[1])
			if err != nil {
				return fmt.Errorf("invalid target: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Fetcher.Timeout+cfg.HTTP.RequestTimeout)
			defer cancel()

			v := verifier.New(verifier.NewHTTPFetcher(verifier.NewFetcherOptions(cfg)))
			out := v.Verify(ctx, source, target)

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s: %s (%s)\n", source, target, out.Status, out.Format)
			if out.Err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "fetch error: %v\n", out.Err)
			}
			if out.Status != domain.MentionStatusVerified {
				cmd.SilenceUsage = true

				return fmt.Errorf("mention not verified: %s", out.Status)
			}

			return nil
		},
	}

	return cmd
}
