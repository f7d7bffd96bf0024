package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/georgelotishvili/certification/client"
	"github.com/georgelotishvili/certification/config"
	"github.com/georgelotishvili/certification/internal/logger"
	"github.com/georgelotishvili/certification/sessionstore"
)

// app holds the global flags. Each command run builds one client from them.
type app struct {
	configPath  string
	sessionPath string
	logFormat   string
	debug       bool
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "examctl",
		Short:         "Command line client for the certification exam backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (default: EXAM_CLIENT_* environment)")
	root.PersistentFlags().StringVar(&a.sessionPath, "session", "", "Session database path (default: ~/.exam-client/session.db)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "console", "Log output on stderr: console or json")
	root.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false, "Log HTTP traffic and debug output")

	root.AddCommand(newLoginCmd(a))
	root.AddCommand(newLogoutCmd(a))
	root.AddCommand(newWhoamiCmd(a))
	root.AddCommand(newStatusCmd(a))
	root.AddCommand(newRequestCmd(a))
	root.AddCommand(newProfileCmd(a))
	root.AddCommand(newExamConfigCmd(a))
	root.AddCommand(newVerifyGateCmd(a))
	root.AddCommand(newPingCmd(a))

	return root
}

// loadConfig picks the file provider when --config is given and the
// environment otherwise.
func (a *app) loadConfig() (*config.Config, error) {
	var p config.Provider = config.EnvProvider{}
	if a.configPath != "" {
		p = config.FileProvider{Path: a.configPath}
	}
	return p.Load()
}

func (a *app) resolveSessionPath(cfg *config.Config) (string, error) {
	switch {
	case a.sessionPath != "":
		return a.sessionPath, nil
	case cfg.SessionPath != "":
		return cfg.SessionPath, nil
	default:
		return sessionstore.DefaultPath()
	}
}

// withClient is the composition root: it wires config, logger and session
// store into a single client, runs fn and closes everything again.
func (a *app) withClient(cmd *cobra.Command, fn func(ctx context.Context, c *client.Client, l zerolog.Logger) error) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	l, err := a.newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}

	path, err := a.resolveSessionPath(cfg)
	if err != nil {
		return errors.Wrap(err, "resolve session path")
	}
	store, err := sessionstore.Open(path)
	if err != nil {
		l.Error().Stack().Err(err).Str("session", path).Msg("open session store")
		return errors.Wrap(err, "open session store")
	}

	opts := []client.Option{client.WithLogger(l)}
	if a.debug {
		opts = append(opts, client.WithDebugLogging(true))
	}
	c, err := client.New(*cfg, store, opts...)
	if err != nil {
		_ = store.Close()
		return err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			l.Warn().Err(cerr).Msg("close session store")
		}
	}()

	l.Debug().Str("base_url", cfg.BaseURL).Str("session", path).Msg("client ready")
	return fn(cmd.Context(), c, l)
}

func (a *app) newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	var l zerolog.Logger
	switch a.logFormat {
	case "", "console":
		l = logger.NewConsole("examctl", w)
	case "json":
		l = logger.NewWithWriter("examctl", w)
	default:
		return zerolog.Nop(), errors.Errorf("unknown --log-format %q", a.logFormat)
	}
	l = l.Level(logger.ParseLevel(level))
	if a.debug {
		l = l.Level(zerolog.DebugLevel)
	}
	return l, nil
}

func printJSON(w io.Writer, v any) error {
	if s, ok := v.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
