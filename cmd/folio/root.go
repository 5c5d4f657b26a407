package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hupe1980/folio"
	"github.com/hupe1980/folio/config"
	"github.com/hupe1980/folio/logging"
	"github.com/hupe1980/folio/mcp"
	"github.com/hupe1980/folio/persona"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type cli struct {
	v       *viper.Viper
	envFile string
}

func newRootCmd() *cobra.Command {
	_, root := newCLI()
	return root
}

func newCLI() (*cli, *cobra.Command) {
	c := &cli{v: config.New()}

	root := &cobra.Command{
		Use:           "folio",
		Short:         "Portfolio back-end with a chat-as-me assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.loadEnvFile()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.String("addr", ":8080", "listen address")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "json", "log format (json, text)")
	flags.Bool("demo", false, "serve in demo mode without upstream calls")
	flags.String("persona", "", "persona file (yaml, json or toml)")
	flags.String("provider", "auto", "chat provider (auto, openai, groq, anthropic)")
	flags.Bool("mcp", false, "mount the MCP endpoint at /mcp")
	flags.String("resume-file", "", "resume file served by /api/resume/download")

	for key, flag := range map[string]string{
		config.KeyAddr:         "addr",
		config.KeyLogLevel:     "log-level",
		config.KeyLogFormat:    "log-format",
		config.KeyDemoMode:     "demo",
		config.KeyPersonaFile:  "persona",
		config.KeyChatProvider: "provider",
		config.KeyMCPEnabled:   "mcp",
		config.KeyResumeFile:   "resume-file",
	} {
		// BindPFlag only fails for a nil flag.
		_ = c.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(c.serveCmd(), c.askCmd(), c.promptCmd(), c.mcpCmd(), versionCmd())
	return c, root
}

// loadEnvFile loads the dotenv file when present. Existing variables win.
func (c *cli) loadEnvFile() error {
	if c.envFile == "" {
		return nil
	}
	if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", c.envFile, err)
	}
	return nil
}

// setup loads the configuration, logger and persona.
func (c *cli) setup() (config.Config, *logging.FolioLogger, persona.Persona, error) {
	cfg, err := config.Load(c.v)
	if err != nil {
		return config.Config{}, nil, persona.Persona{}, err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})

	p := persona.Default()
	if cfg.PersonaFile != "" {
		p, err = persona.Load(cfg.PersonaFile)
		if err != nil {
			return config.Config{}, nil, persona.Persona{}, err
		}
	}
	return cfg, logger, p, nil
}

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, p, err := c.setup()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := folio.New(ctx, cfg, p, func(o *folio.Options) {
				o.Logger = logger.WithComponent("folio")
			})
			if err != nil {
				return err
			}
			defer app.Close()

			return app.Run(ctx)
		},
	}
}

func (c *cli) askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the assistant a single question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, p, err := c.setup()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.MaxDuration)
			defer cancel()

			app, err := folio.New(ctx, cfg, p, func(o *folio.Options) {
				o.Logger = logger.WithComponent("folio")
			})
			if err != nil {
				return err
			}
			defer app.Close()

			text, _, err := app.Ask(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func (c *cli) promptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "Print the rendered system prompt and the registered tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, p, err := c.setup()
			if err != nil {
				return err
			}
			prompt, err := p.SystemPrompt()
			if err != nil {
				return err
			}
			reg, err := p.Registry()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, prompt)
			fmt.Fprintln(out)
			fmt.Fprintf(out, "tools: %s\n", strings.Join(reg.Names(), ", "))
			return nil
		},
	}
}

func (c *cli) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the persona tools over MCP on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, logger, p, err := c.setup()
			if err != nil {
				return err
			}
			reg, err := p.Registry()
			if err != nil {
				return err
			}
			s, err := mcp.NewServer(reg, func(o *mcp.Options) {
				o.Version = folio.Version
				o.Logger = logger.WithComponent("mcp")
			})
			if err != nil {
				return err
			}
			return mcp.ServeStdio(s)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "folio %s\n", folio.Version)
		},
	}
}
