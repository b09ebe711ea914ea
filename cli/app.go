package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/negotiapro/copilot/engine/auth"
	"github.com/negotiapro/copilot/engine/auth/session"
	"github.com/negotiapro/copilot/engine/remote"
	"github.com/negotiapro/copilot/engine/workflow"
	"github.com/negotiapro/copilot/pkg/config"
	"github.com/negotiapro/copilot/pkg/logger"
)

// App wires the client components for one command invocation.
type App struct {
	Config  *config.Config
	Log     logger.Logger
	Store   *session.Store
	Client  *remote.Client
	Archive *workflow.Archive
}

// NewApp loads configuration, builds the component graph, and restores
// any persisted session. The returned context carries the logger.
func NewApp(cmd *cobra.Command) (*App, context.Context, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logLevel, _ := cmd.Flags().GetString("log-level")
	if logLevel == "" {
		logLevel = cfg.Log.Level
	}
	logJSON, _ := cmd.Flags().GetBool("log-json")
	log := logger.New(&logger.Config{Level: logLevel, JSON: logJSON || cfg.Log.JSON})
	ctx := logger.ContextWithLogger(cmd.Context(), log)

	storage := session.NewFileStorage(filepath.Join(cfg.CLI.StateDir, "session"))
	store := session.NewStore(storage)
	client := remote.NewClient(remote.Config{
		BaseURL:    cfg.Server.BaseURL,
		Timeout:    cfg.Server.Timeout,
		RetryCount: cfg.Server.RetryCount,
	}, store)

	archive := workflow.NewArchive()
	if cfg.CLI.SeedArchive {
		workflow.Seed(archive)
	}

	store.Restore(ctx)

	return &App{
		Config:  cfg,
		Log:     log,
		Store:   store,
		Client:  client,
		Archive: archive,
	}, ctx, nil
}

// RequireAccess evaluates the requirement against the current session
// and converts a denial into a user-facing error.
func (a *App) RequireAccess(req auth.Requirement) error {
	sess, _ := a.Store.Current()
	decision := auth.Decide(&sess, req)
	if decision.Allowed {
		return nil
	}
	switch decision.Reason {
	case auth.ReasonNotAuthenticated:
		return fmt.Errorf("not logged in; run \"copilot login <actor-id>\" first")
	case auth.ReasonInsufficientRole:
		return fmt.Errorf("your role (%s) does not grant access to this feature",
			decision.ObservedRole.DisplayName())
	default:
		return fmt.Errorf("access denied")
	}
}
