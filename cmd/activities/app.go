package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/reactivities/reactivities/pkg/agent"
	"github.com/reactivities/reactivities/pkg/api"
	"github.com/reactivities/reactivities/pkg/auth/jwt"
	"github.com/reactivities/reactivities/pkg/config"
	"github.com/reactivities/reactivities/pkg/debug"
	"github.com/reactivities/reactivities/pkg/ui"
)

// session is the client state shared by all subcommands.
type session struct {
	agent      *agent.Agent
	common     *ui.CommonStore
	history    *ui.History
	toasts     *ui.Toasts
	activities *ui.ActivityStore
}

type sessionKey struct{}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "activities",
		Usage:     "manage reactivities activities",
		Writer:    stdout,
		ErrWriter: stderr,
		// main maps ExitCoder errors to the process exit code.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "config file path", EnvVars: []string{"REACTIVITIES_CONFIG"}},
			&cli.StringFlag{Name: "api-url", Usage: "API base URL (overrides agent.base_url)"},
			&cli.DurationFlag{Name: "delay", Usage: "artificial delay on successful responses (overrides agent.delay)"},
			&cli.StringFlag{Name: "token", Usage: "bearer token", EnvVars: []string{"REACTIVITIES_TOKEN"}},
		},
		Before: openSession,
		After:  closeSession,
		Commands: []*cli.Command{
			listCommand(),
			detailsCommand(),
			createCommand(),
			updateCommand(),
			deleteCommand(),
			tokenCommand(),
		},
	}
}

func openSession(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	debug.Init(cfg.Debug.Categories, cfg.Debug.Level)

	agentCfg := agent.Config{
		BaseURL:               cfg.Agent.BaseURL,
		Delay:                 cfg.Agent.Delay,
		Timeout:               cfg.Agent.Timeout,
		SilentEmptyBadRequest: cfg.Agent.SilentEmptyBadRequest,
	}
	if c.IsSet("api-url") {
		agentCfg.BaseURL = c.String("api-url")
	}
	if c.IsSet("delay") {
		agentCfg.Delay = c.Duration("delay")
	}

	s := &session{
		common:  ui.NewCommonStore(),
		history: &ui.History{},
		toasts:  ui.NewToasts(c.App.ErrWriter),
	}
	s.common.SetToken(c.String("token"))
	agentCfg.TokenSource = s.common.Token

	s.agent, err = agent.New(agentCfg, agent.Hooks{
		Notifier:     s.toasts,
		Navigator:    s.history,
		ServerErrors: s.common,
	})
	if err != nil {
		return err
	}
	s.activities = ui.NewActivityStore(s.agent.Activities)

	c.Context = context.WithValue(c.Context, sessionKey{}, s)
	return nil
}

func closeSession(c *cli.Context) error {
	if s, ok := c.Context.Value(sessionKey{}).(*session); ok {
		s.agent.Close()
	}
	return nil
}

func sessionFrom(c *cli.Context) *session {
	return c.Context.Value(sessionKey{}).(*session)
}

// failure turns an agent error into the command's exit error, using the
// state the hooks left behind.
func (s *session) failure(err error) error {
	var verrs agent.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		msg := "validation failed:"
		for _, v := range verrs {
			msg += "\n  - " + v
		}
		return cli.Exit(msg, 1)
	case s.history.Current() == agent.RouteNotFound:
		return cli.Exit("not found", 1)
	case s.history.Current() == agent.RouteServerError:
		msg := "server error"
		if body, ok := s.common.ServerError(); ok {
			if diag, ok := body.ServerError(); ok && diag.Message != "" {
				msg += ": " + diag.Message
			}
		}
		return cli.Exit(msg, 1)
	case len(s.toasts.Messages()) > 0:
		// Already shown as a toast.
		return cli.Exit("", 1)
	}
	return err
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list activities grouped by date",
		Action: func(c *cli.Context) error {
			s := sessionFrom(c)
			if err := s.activities.LoadActivities(c.Context); err != nil {
				return s.failure(err)
			}
			return ui.RenderActivityList(c.App.Writer, s.activities.GroupedActivities())
		},
	}
}

func detailsCommand() *cli.Command {
	return &cli.Command{
		Name:      "details",
		Usage:     "show one activity as JSON",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := requireID(c)
			if err != nil {
				return err
			}
			s := sessionFrom(c)
			a, err := s.activities.LoadActivity(c.Context, id)
			if err != nil {
				return s.failure(err)
			}
			return writeJSON(c.App.Writer, a)
		},
	}
}

func activityFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title"},
		&cli.TimestampFlag{Name: "date", Layout: time.RFC3339, Usage: "RFC 3339 timestamp"},
		&cli.StringFlag{Name: "description"},
		&cli.StringFlag{Name: "category"},
		&cli.StringFlag{Name: "city"},
		&cli.StringFlag{Name: "venue"},
	}
}

// applyFlags copies the activity flags that were set onto a.
func applyFlags(c *cli.Context, a *api.Activity) {
	set := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	set("title", &a.Title)
	set("description", &a.Description)
	set("category", &a.Category)
	set("city", &a.City)
	set("venue", &a.Venue)
	if ts := c.Timestamp("date"); c.IsSet("date") && ts != nil {
		a.Date = ts.UTC()
	}
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "create an activity",
		Flags: append(activityFlags(), &cli.StringFlag{Name: "id", Usage: "activity ID (generated when empty)"}),
		Action: func(c *cli.Context) error {
			s := sessionFrom(c)
			a := api.Activity{ID: c.String("id")}
			applyFlags(c, &a)

			created, err := s.activities.CreateActivity(c.Context, a)
			if err != nil {
				return s.failure(err)
			}
			fmt.Fprintln(c.App.Writer, created.ID)
			return nil
		},
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "change fields of an activity",
		ArgsUsage: "<id>",
		Flags:     activityFlags(),
		Action: func(c *cli.Context) error {
			id, err := requireID(c)
			if err != nil {
				return err
			}
			s := sessionFrom(c)
			a, err := s.activities.LoadActivity(c.Context, id)
			if err != nil {
				return s.failure(err)
			}
			applyFlags(c, &a)
			if err := s.activities.UpdateActivity(c.Context, a); err != nil {
				return s.failure(err)
			}
			return writeJSON(c.App.Writer, a)
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "delete an activity",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := requireID(c)
			if err != nil {
				return err
			}
			s := sessionFrom(c)
			if err := s.activities.DeleteActivity(c.Context, id); err != nil {
				return s.failure(err)
			}
			fmt.Fprintln(c.App.Writer, "deleted", id)
			return nil
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "issue a bearer token signed with the server secret",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "display-name"},
			&cli.StringFlag{Name: "tenant"},
			&cli.StringFlag{Name: "tier"},
			&cli.StringFlag{Name: "secret", EnvVars: []string{"REACTIVITIES_JWT_SECRET"}, Required: true},
			&cli.StringFlag{Name: "issuer", Value: "reactivities"},
			&cli.StringFlag{Name: "audience"},
			&cli.DurationFlag{Name: "ttl", Value: 7 * 24 * time.Hour},
		},
		Action: func(c *cli.Context) error {
			svc, err := jwt.NewTokenService(jwt.Config{
				Secret:   c.String("secret"),
				Issuer:   c.String("issuer"),
				Audience: c.String("audience"),
				TTL:      c.Duration("ttl"),
			})
			if err != nil {
				return err
			}
			user, err := svc.IssueUser(jwt.User{
				Username:    c.String("username"),
				DisplayName: c.String("display-name"),
				TenantID:    c.String("tenant"),
				Tier:        c.String("tier"),
			})
			if err != nil {
				return err
			}
			return writeJSON(c.App.Writer, user)
		},
	}
}

func requireID(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", cli.Exit(fmt.Sprintf("usage: %s %s", c.Command.FullName(), c.Command.ArgsUsage), 2)
	}
	return c.Args().First(), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
