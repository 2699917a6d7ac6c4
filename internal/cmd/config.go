package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/richtext/internal/config"
	"github.com/gravitrone/richtext/internal/ui/components"
)

// RunInteractiveInit prompts for the API and marketplace roots and saves
// the config. Empty answers keep the defaults.
func RunInteractiveInit(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	cfg := config.Default()

	ask := func(label string, value *string) {
		fmt.Fprintf(out, "%s [%s]: ", label, *value)
		answer, _ := reader.ReadString('\n')
		if answer = strings.TrimSpace(answer); answer != "" {
			*value = answer
		}
	}
	ask("api url", &cfg.APIURL)
	ask("marketplace url", &cfg.MarketplaceURL)
	ask("marketplace host", &cfg.MarketplaceHost)
	ask("locale", &cfg.Locale)

	if !strings.HasPrefix(cfg.APIURL, "http://") && !strings.HasPrefix(cfg.APIURL, "https://") {
		return fmt.Errorf("api url must start with http:// or https://")
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// ConfigCmd returns the `richtext config` command group.
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect ~/.richtext/config",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a config file interactively",
		RunE: func(c *cobra.Command, _ []string) error {
			return RunInteractiveInit(c.InOrStdin(), c.OutOrStdout())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := config.LoadOrDefault()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			source := config.Path()
			if _, err := os.Stat(source); err != nil {
				source = "defaults"
			}
			rows := []components.TableRow{
				{Label: "source", Value: source},
				{Label: "api_url", Value: cfg.APIURL},
				{Label: "marketplace_url", Value: cfg.MarketplaceURL},
				{Label: "marketplace_host", Value: cfg.MarketplaceHost},
				{Label: "locale", Value: cfg.Locale},
				{Label: "lookup_timeout", Value: cfg.LookupTimeout.String()},
				{Label: "cache_ttl", Value: cfg.CacheTTL.String()},
				{Label: "log_level", Value: cfg.LogLevel},
				{Label: "vim_keys", Value: fmt.Sprintf("%t", cfg.VimKeys)},
			}
			for _, r := range rows {
				fmt.Fprintln(c.OutOrStdout(), components.InfoRow(r.Label, r.Value))
			}
			return nil
		},
	})
	return cmd
}
