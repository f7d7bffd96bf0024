package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/georgelotishvili/certification/client"
)

func newRequestCmd(a *app) *cobra.Command {
	var data, actor string
	var headers []string

	cmd := &cobra.Command{
		Use:   "request METHOD PATH",
		Short: "Send an arbitrary request with the stored session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var body any
			if data != "" {
				if err := json.Unmarshal([]byte(data), &body); err != nil {
					return fmt.Errorf("--data is not valid JSON: %w", err)
				}
			}
			opts := &client.RequestOptions{Headers: map[string]string{}, ActorEmail: actor}
			for _, h := range headers {
				k, v, ok := strings.Cut(h, ":")
				if !ok {
					return fmt.Errorf("header %q must be key:value", h)
				}
				opts.Headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
			}

			return a.withClient(cmd, func(ctx context.Context, c *client.Client, _ zerolog.Logger) error {
				out, err := c.Request(ctx, args[0], args[1], body, opts)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "JSON request body")
	cmd.Flags().StringVar(&actor, "actor", "", "Acting admin email (sent only with a session)")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "Extra header as key:value (repeatable)")
	return cmd
}

func newProfileCmd(a *app) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the logged-in user's profile, or another user's public one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd, func(ctx context.Context, c *client.Client, _ zerolog.Logger) error {
				var (
					p   *client.Profile
					err error
				)
				if userID > 0 {
					p, err = c.PublicProfile(ctx, userID)
				} else {
					p, err = c.Profile(ctx)
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), p)
			})
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Public profile of this user ID")
	return cmd
}

func newExamConfigCmd(a *app) *cobra.Command {
	var update, actor string

	cmd := &cobra.Command{
		Use:   "exam-config",
		Short: "Show or update the exam settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd, func(ctx context.Context, c *client.Client, l zerolog.Logger) error {
				if update == "" {
					cfg, err := c.ExamConfig(ctx)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), cfg)
				}

				var next client.ExamConfig
				if err := json.Unmarshal([]byte(update), &next); err != nil {
					return fmt.Errorf("--update is not valid exam config JSON: %w", err)
				}
				if actor == "" {
					actor = currentEmail(c.CurrentUser(ctx))
				}
				l.Debug().Str("actor", actor).Msg("updating exam config")
				saved, err := c.UpdateExamConfig(ctx, next, actor)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), saved)
			})
		},
	}

	cmd.Flags().StringVar(&update, "update", "", "Replace the settings with this JSON document")
	cmd.Flags().StringVar(&actor, "actor", "", "Acting admin email (default: the logged-in user)")
	return cmd
}

// currentEmail extracts "email" from the cached user, if any.
func currentEmail(user any) string {
	m, _ := user.(map[string]any)
	email, _ := m["email"].(string)
	return email
}

func newVerifyGateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-gate EXAM_ID CODE",
		Short: "Check an exam's gate password",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("exam id must be numeric: %q", args[0])
			}
			return a.withClient(cmd, func(ctx context.Context, c *client.Client, _ zerolog.Logger) error {
				res, err := c.VerifyGate(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}
