package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/georgelotishvili/certification/client"
)

func newPingCmd(a *app) *cobra.Command {
	var (
		path     string
		retries  int
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the backend answers, retrying with exponential backoff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd, func(ctx context.Context, c *client.Client, l zerolog.Logger) error {
				exp := backoff.NewExponentialBackOff()
				exp.InitialInterval = interval
				exp.Multiplier = 2
				exp.MaxInterval = 10 * interval
				exp.MaxElapsedTime = 0
				policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(max(retries, 0))), ctx)

				attempts := 0
				start := time.Now()
				err := backoff.RetryNotify(func() error {
					attempts++
					_, err := c.Get(ctx, path, nil)
					if err != nil && !retryable(err) {
						return backoff.Permanent(err)
					}
					return err
				}, policy, func(err error, wait time.Duration) {
					l.Warn().Err(err).Int("attempt", attempts).Dur("wait", wait).Msg("ping failed, retrying")
				})
				if err != nil {
					return fmt.Errorf("ping %s after %d attempt(s): %w", path, attempts, err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok (%d attempt(s), %s)\n", attempts, time.Since(start).Round(time.Millisecond))
				return err
			})
		},
	}

	cmd.Flags().StringVar(&path, "path", "/health", "Endpoint to probe")
	cmd.Flags().IntVar(&retries, "retries", 3, "Retries after the first attempt")
	cmd.Flags().DurationVar(&interval, "interval", 500*time.Millisecond, "Initial backoff interval")
	return cmd
}

// retryable reports whether another attempt could succeed: network errors,
// timeouts, 429 and 5xx.
func retryable(err error) bool {
	code := client.StatusCode(err)
	switch {
	case code == 0, code == http.StatusRequestTimeout, code == http.StatusTooManyRequests:
		return true
	case code >= 500:
		return true
	}
	return false
}
