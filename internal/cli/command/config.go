package command

import (
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/SamSjosten/sessionvault-go/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the resolved configuration",
				Action: configShow,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	if c.String("output") == string(output.FormatJSON) {
		return formatter(c).Format(c.App.Writer, map[string]any{
			"target":             cfg.Target,
			"data_dir":           cfg.DataDir,
			"keyring_dir":        cfg.KeyringDir,
			"general_dir":        cfg.GeneralDir,
			"web_store_path":     cfg.WebStorePath,
			"demotion_threshold": cfg.DemotionThreshold,
			"legacy_prefixes":    cfg.LegacyPrefixes,
		})
	}

	t := &output.Table{Headers: []string{"KEY", "VALUE"}}
	t.AddRow("target", string(cfg.Target))
	t.AddRow("data_dir", cfg.DataDir)
	t.AddRow("keyring_dir", orDash(cfg.KeyringDir))
	t.AddRow("general_dir", orDash(cfg.GeneralDir))
	t.AddRow("web_store_path", orDash(cfg.WebStorePath))
	t.AddRow("demotion_threshold", strconv.Itoa(cfg.DemotionThreshold))
	for _, p := range cfg.LegacyPrefixes {
		t.AddRow("legacy_prefix", p)
	}
	return formatter(c).Format(c.App.Writer, t)
}
