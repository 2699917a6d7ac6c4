package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gravitrone/richtext/internal/cmd"
	"github.com/gravitrone/richtext/internal/config"
	"github.com/gravitrone/richtext/internal/logger"
	"github.com/gravitrone/richtext/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// callout and pill colours are hex; lipgloss picks the profile once
	os.Setenv("COLORTERM", "truecolor")
}

func newRootCmd() *cobra.Command {
	var format string
	edit := func(_ *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		return runTUI(path, format)
	}

	root := &cobra.Command{
		Use:           "richtext [file]",
		Short:         "richtext - rich text editing with @mentions",
		Long:          "richtext edits HTML or JSON documents with mentions, callouts and formatting in the terminal.",
		Args:          cobra.MaximumNArgs(1),
		RunE:          edit,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&format, "format", "", "save format: html or json (from the file name when empty)")

	root.AddCommand(&cobra.Command{
		Use:   "edit [file]",
		Short: "Open the editor (default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  edit,
	})
	root.AddCommand(cmd.ResolveCmd())
	root.AddCommand(cmd.ConvertCmd())
	root.AddCommand(cmd.ConfigCmd())
	return root
}

// openDocument loads path, or starts an empty document when path is empty
// or does not exist yet.
func openDocument(path, format string) (string, []byte, error) {
	if path == "" {
		return cmd.FormatHTML, nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", nil, fmt.Errorf("read %s: %w", path, err)
	}
	if format == "" {
		format = cmd.DetectFormat(path, data)
	}
	return format, data, nil
}

func runTUI(path, format string) error {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(config.Dir(), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	logFile, err := logger.OpenFile(config.LogPath())
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	l := logger.New(logFile, "richtext")
	l.SetLevel(logger.ParseLevel(cfg.LogLevel))

	format, data, err := openDocument(path, format)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		data = []byte("<p></p>")
		if format == cmd.FormatJSON {
			data = []byte(`{"type":"doc"}`)
		}
	}
	d, err := cmd.LoadDocument(data, format)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	l.Info("editor started", "path", path, "format", format)

	resolver := cmd.NewResolver(cfg, l)
	app := ui.NewApp(d, ui.Options{
		Config:  cfg,
		Logger:  l,
		Resolve: resolver.Resolve,
		Path:    path,
		Format:  format,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
