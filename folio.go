// Package folio wires the portfolio back-end: the chat orchestrator with its
// persona tools, the GitHub and EmailJS clients, the content store and the
// HTTP server. Most applications interact with this package by:
//  1. Loading a config.Config and a persona.Persona
//  2. Creating an App via New (optionally overriding the model factory or store)
//  3. Serving HTTP with Run, or asking a single question with Ask
//
// Every collaborator is built once in New and shared across requests.
package folio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hupe1980/folio/artifact"
	"github.com/hupe1980/folio/artifact/s3"
	"github.com/hupe1980/folio/chat"
	"github.com/hupe1980/folio/config"
	"github.com/hupe1980/folio/content"
	"github.com/hupe1980/folio/content/postgres"
	"github.com/hupe1980/folio/core"
	"github.com/hupe1980/folio/github"
	"github.com/hupe1980/folio/logging"
	"github.com/hupe1980/folio/mail"
	"github.com/hupe1980/folio/mcp"
	"github.com/hupe1980/folio/persona"
	"github.com/hupe1980/folio/provider"
	"github.com/hupe1980/folio/server"
)

// Version is the release version reported by the CLI.
const Version = "0.1.0"

// Options configures the App.
type Options struct {
	// Factory builds upstream models (defaults to the SDK-backed factory).
	Factory provider.Factory
	// Content overrides the content store. When nil a Postgres store is opened
	// for a configured DATABASE_URL, otherwise a static store is built from the persona.
	Content content.Store
	// Artifacts overrides the artifact store. When nil an S3 store is used for
	// a configured bucket, otherwise RESUME_FILE is loaded into memory.
	Artifacts artifact.Store
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// App aggregates the wired collaborators.
type App struct {
	cfg       config.Config
	chat      *chat.Orchestrator
	server    *server.Server
	content   content.Store
	artifacts artifact.Store
	closeFns  []func() error
	logger    logging.Logger
	selection provider.Selection
}

// New builds an App from cfg and p.
func New(ctx context.Context, cfg config.Config, p persona.Persona, optFns ...func(o *Options)) (*App, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	logger := opts.Logger

	system, err := p.SystemTurn()
	if err != nil {
		return nil, fmt.Errorf("render system prompt: %w", err)
	}
	tools, err := p.Registry()
	if err != nil {
		return nil, fmt.Errorf("build tool registry: %w", err)
	}

	sel, err := provider.Resolve(cfg.ProviderConfig())
	if err != nil {
		return nil, err
	}
	if opts.Factory == nil {
		opts.Factory = provider.NewSDKFactory(cfg.ProviderConfig())
	}

	app := &App{cfg: cfg, logger: logger, selection: sel}

	app.chat = chat.New(system, tools, sel, opts.Factory, func(o *chat.Options) {
		o.Logger = logger
		o.DemoMode = cfg.DemoMode
	})

	app.content = opts.Content
	if app.content == nil {
		if cfg.DatabaseURL != "" {
			store, err := postgres.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return nil, err
			}
			app.content = store
			app.closeFns = append(app.closeFns, store.Close)
		} else {
			app.content = content.NewStaticStore(p)
		}
	}

	app.artifacts, err = openArtifacts(ctx, cfg, opts.Artifacts)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	var mcpHandler http.Handler
	if cfg.MCPEnabled {
		ms, err := mcp.NewServer(tools, func(o *mcp.Options) {
			o.Version = Version
			o.Logger = logger
		})
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		mcpHandler = mcp.NewHTTPHandler(ms)
	}

	repoURL := cfg.GitHubRepoAPIURL
	if repoURL == "" {
		repoURL = p.GitHub.APIRepoURL
	}
	stars := github.NewClient(repoURL, func(o *github.Options) {
		o.Token = cfg.GitHubToken
		o.Logger = logger
	})

	mailer := mail.NewClient(func(o *mail.Options) {
		o.ServiceID = cfg.EmailJSServiceID
		o.TemplateID = cfg.EmailJSTemplateID
		o.PublicKey = cfg.EmailJSPublicKey
		o.FromName = p.Name
		o.ReplyTo = p.Contact.Email
		o.Logger = logger
	})

	app.server = server.New(server.Deps{
		Chat:      app.chat,
		Stars:     stars,
		Mailer:    mailer,
		Content:   app.content,
		Artifacts: app.artifacts,
		MCP:       mcpHandler,
	}, func(o *server.Options) {
		o.Addr = cfg.Addr
		o.MaxDuration = cfg.MaxDuration
		o.ResumeKey = cfg.ResumeKey
		o.Logger = logger
	})

	logger.Info("folio.ready",
		"provider", string(sel.Kind),
		"model", sel.Model,
		"demo_mode", cfg.DemoMode,
		"tools", tools.Len(),
		"mcp", cfg.MCPEnabled,
	)
	return app, nil
}

func openArtifacts(ctx context.Context, cfg config.Config, override artifact.Store) (artifact.Store, error) {
	switch {
	case override != nil:
		return override, nil
	case cfg.Artifacts.Bucket != "":
		return s3.New(ctx, s3.Config{
			Bucket:          cfg.Artifacts.Bucket,
			Prefix:          cfg.Artifacts.Prefix,
			Region:          cfg.Artifacts.Region,
			Endpoint:        cfg.Artifacts.Endpoint,
			AccessKeyID:     cfg.Artifacts.AccessKeyID,
			SecretAccessKey: cfg.Artifacts.SecretAccessKey,
		})
	case cfg.ResumeFile != "":
		key := cfg.ResumeKey
		if key == "" {
			key = server.DefaultResumeKey
		}
		store := artifact.NewInMemoryStore()
		if err := store.LoadFile(ctx, key, cfg.ResumeFile); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, nil
	}
}

// Selection returns the resolved provider selection.
func (a *App) Selection() provider.Selection { return a.selection }

// Server returns the HTTP server.
func (a *App) Server() *server.Server { return a.server }

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error { return a.server.Run(ctx) }

// Ask sends a single visitor question and drains the stream, returning the
// assistant text and all events.
func (a *App) Ask(ctx context.Context, question string) (string, []core.StreamEvent, error) {
	resp, err := a.chat.Stream(ctx, []chat.Message{{Role: core.RoleUser, Content: question}})
	if err != nil {
		return "", nil, err
	}

	var (
		sb     strings.Builder
		events []core.StreamEvent
	)
	for ev := range resp.Events {
		events = append(events, ev)
		switch ev.Type {
		case core.EventTextDelta:
			sb.WriteString(ev.Text)
		case core.EventError:
			if ev.Err == nil {
				return sb.String(), events, errors.New(chat.UnknownErrorMessage)
			}
			return sb.String(), events, ev.Err
		}
	}
	return sb.String(), events, nil
}

// Close releases resources opened by New.
func (a *App) Close() error {
	var errs []error
	for _, fn := range a.closeFns {
		errs = append(errs, fn())
	}
	return errors.Join(errs...)
}
