package command

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/SamSjosten/sessionvault-go/internal/cli/output"
	"github.com/SamSjosten/sessionvault-go/internal/infra/buildinfo"
	"github.com/SamSjosten/sessionvault-go/internal/infra/confloader"
	"github.com/SamSjosten/sessionvault-go/internal/telemetry/logger"
	"github.com/SamSjosten/sessionvault-go/internal/vault"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "sessionvault",
		Usage:   "Resilient encrypted storage for auth session material",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			StatusCommand(),
			ProbeCommand(),
			GetCommand(),
			SetCommand(),
			RemoveCommand(),
			ConfigCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Configuration file (YAML)",
			EnvVars: []string{"SESSIONVAULT_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "data-dir",
			Aliases: []string{"d"},
			Usage:   "Data directory for persistent state",
			EnvVars: []string{"SESSIONVAULT_DATA_DIR"},
			Value:   defaultDataDir(),
		},
		&cli.StringFlag{
			Name:    "target",
			Aliases: []string{"t"},
			Usage:   "Backend target: native or web",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sessionvault"
	}
	return filepath.Join(home, ".sessionvault")
}

// loadConfig resolves the vault configuration from file, environment, and
// command-line flags, in ascending precedence.
func loadConfig(c *cli.Context) (vault.Config, error) {
	cfg := vault.DefaultConfig(c.String("data-dir"))

	loader := confloader.NewLoader(confloader.WithConfigFile(c.String("config")))
	if err := loader.Load(&cfg); err != nil {
		return vault.Config{}, err
	}

	if c.IsSet("data-dir") {
		cfg.DataDir = c.String("data-dir")
	}
	if c.IsSet("target") {
		cfg.Target = vault.Target(c.String("target"))
	}
	if err := cfg.Normalize(); err != nil {
		return vault.Config{}, err
	}
	return cfg, nil
}

func newLogger(c *cli.Context) logger.Logger {
	level := "warn"
	if c.Bool("verbose") {
		level = "debug"
	}
	return logger.New(logger.Config{Level: level, Format: "text", Output: os.Stderr})
}

// openVault builds and initializes a vault from the resolved configuration.
func openVault(c *cli.Context) (*vault.Vault, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	v, err := vault.New(cfg, vault.WithLogger(newLogger(c)))
	if err != nil {
		return nil, err
	}
	v.Initialize(c.Context)
	return v, nil
}

func formatter(c *cli.Context) output.Formatter {
	return output.NewFormatter(output.Format(c.String("output")))
}
