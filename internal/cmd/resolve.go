package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gravitrone/richtext/internal/api"
	"github.com/gravitrone/richtext/internal/config"
	"github.com/gravitrone/richtext/internal/logger"
	"github.com/gravitrone/richtext/internal/mention"
	"github.com/gravitrone/richtext/internal/ui/components"
)

const resolveTableWidth = 88

// NewResolver wires the mentions API client and the entity resolver from
// cfg.
func NewResolver(cfg *config.Config, l *log.Logger) *mention.Resolver {
	client := api.NewClient(cfg.APIURL, cfg.LookupTimeout)
	return mention.NewResolver(client, mention.Options{
		MarketplaceURL:  cfg.MarketplaceURL,
		MarketplaceHost: cfg.MarketplaceHost,
		Locale:          cfg.Locale,
		Timeout:         cfg.LookupTimeout,
		CacheTTL:        cfg.CacheTTL,
		Logger:          l,
	})
}

// ResolveCmd returns the `richtext resolve` command.
func ResolveCmd() *cobra.Command {
	var asJSON bool
	var apiURL string
	cmd := &cobra.Command{
		Use:   "resolve <query|url>",
		Short: "Look up mention candidates for a query or a pasted link",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if apiURL != "" {
				cfg.APIURL = apiURL
			}
			l := logger.New(c.ErrOrStderr(), "resolve")
			l.SetLevel(logger.ParseLevel(cfg.LogLevel))
			return RunResolve(c.Context(), NewResolver(cfg, l), strings.Join(args, " "), c.OutOrStdout(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print candidates as JSON")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "mentions API root (overrides config)")
	return cmd
}

// RunResolve prints the candidates for query. Lookup failures print as
// no candidates; the resolver logs them.
func RunResolve(ctx context.Context, r *mention.Resolver, query string, out io.Writer, asJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	items := r.Resolve(ctx, query)

	if asJSON {
		if items == nil {
			items = []mention.Entity{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	if len(items) == 0 {
		if len([]rune(query)) < mention.MinQueryLength {
			_, err := fmt.Fprintf(out, "query too short: type at least %d characters\n", mention.MinQueryLength)
			return err
		}
		_, err := fmt.Fprintln(out, "no mentions found")
		return err
	}

	columns := []components.TableColumn{
		{Header: "Type", Width: 12},
		{Header: "Mention", Width: 24},
		{Header: "ID", Width: 14},
		{Header: "URL"},
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		url := item.URL
		if url == "" {
			url = "-"
		}
		rows = append(rows, []string{string(item.Type), item.DisplayLabel(), item.ID, url})
	}
	_, err := fmt.Fprintln(out, components.TableGrid(columns, rows, resolveTableWidth))
	return err
}
