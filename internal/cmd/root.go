// Package cmd implements the agencydesk command tree. Commands are
// thin: they collect input, run one operation through the auth
// manager or the agency service, and print the result. All session
// decisions live in the library packages.
package cmd

import (
	"fmt"
	"os"

	"agencydesk/internal/agency"
	"agencydesk/internal/api"
	"agencydesk/internal/auth"
	"agencydesk/internal/config"
	"agencydesk/internal/guard"
	"agencydesk/internal/models"
	"agencydesk/internal/session"
	"agencydesk/internal/util"
)

// app bundles the wired components every command needs. It is built
// once per invocation in the root command's PersistentPreRunE.
type app struct {
	cfg     *config.Config
	store   *session.Store
	client  *api.Client
	manager *auth.Manager
	service *agency.Service
}

var a *app

func initApp() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagAPIURL != "" {
		cfg.API.BaseURL = flagAPIURL
	}

	logger := util.Init(cfg.Environment, cfg.Logging.Level, cfg.Logging.Format)

	store := session.NewStore(session.NewFileBackend(cfg.State.Dir), logger)
	if err := store.Load(); err != nil {
		return err
	}

	// The single place the "redirect to login" decision lives: the
	// transport reports 401s, this hook tells the user where to go.
	client := api.NewClient(cfg.API.BaseURL, store, logger,
		api.WithTimeout(cfg.API.Timeout),
		api.WithUnauthorizedHook(func() {
			fmt.Fprintln(os.Stderr, "Session expired or revoked. Run 'agencydesk login' to sign in again.")
		}),
	)

	a = &app{
		cfg:     cfg,
		store:   store,
		client:  client,
		manager: auth.NewManager(client, store, logger),
		service: agency.NewService(client),
	}
	return nil
}

// requireSession gates a command the way the web app gates a page:
// unauthenticated users are pointed at login, authenticated users of
// the wrong role at their own dashboard.
func requireSession(roles ...models.Role) error {
	decision := guard.Evaluate(a.store.Snapshot(), roles...)
	switch decision.Verdict {
	case guard.Allow:
		return nil
	case guard.Pending:
		return fmt.Errorf("session not loaded yet, try again")
	default:
		if decision.Target == guard.LoginPath {
			return fmt.Errorf("not logged in: run 'agencydesk login'")
		}
		return fmt.Errorf("this command is not available for your role (your dashboard is %s)", decision.Target)
	}
}
