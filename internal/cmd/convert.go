package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/richtext/internal/doc"
	"github.com/gravitrone/richtext/internal/nodes"
)

// Document formats.
const (
	FormatHTML    = "html"
	FormatJSON    = "json"
	FormatText    = "text"
	FormatPayload = "payload"
)

// DetectFormat picks html or json from the file extension, then from
// the content.
func DetectFormat(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".html", ".htm":
		return FormatHTML
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return FormatJSON
	}
	return FormatHTML
}

// LoadDocument parses data in format with the mention and callout schema.
func LoadDocument(data []byte, format string) (*doc.Document, error) {
	schema, err := nodes.Schema()
	if err != nil {
		return nil, fmt.Errorf("build schema: %w", err)
	}
	switch format {
	case FormatHTML:
		return doc.FromHTML(schema, string(data))
	case FormatJSON:
		return doc.FromJSON(schema, data)
	}
	return nil, fmt.Errorf("cannot read format %q", format)
}

// EncodeDocument serializes d as html, json, text or payload.
func EncodeDocument(d *doc.Document, format string) ([]byte, error) {
	switch format {
	case FormatHTML:
		return []byte(d.HTML() + "\n"), nil
	case FormatText:
		return []byte(d.Text() + "\n"), nil
	case FormatJSON:
		data, err := d.JSON()
		if err != nil {
			return nil, err
		}
		return indentJSON(data)
	case FormatPayload:
		p, err := nodes.Snapshot(d)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		return indentJSON(data)
	}
	return nil, fmt.Errorf("cannot write format %q", format)
}

func indentJSON(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// ConvertCmd returns the `richtext convert` command.
func ConvertCmd() *cobra.Command {
	var from, to, output string
	cmd := &cobra.Command{
		Use:   "convert <file|->",
		Short: "Convert a document between HTML, JSON and plain text",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			data, err := readInput(c.InOrStdin(), args[0])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			if from == "" {
				from = DetectFormat(args[0], data)
			}
			d, err := LoadDocument(data, from)
			if err != nil {
				return fmt.Errorf("load %s: %w", from, err)
			}
			out, err := EncodeDocument(d, to)
			if err != nil {
				return fmt.Errorf("encode %s: %w", to, err)
			}
			if output == "" {
				_, err = c.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "input format: html or json (detected when empty)")
	cmd.Flags().StringVar(&to, "to", FormatPayload, "output format: html, json, text or payload")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}
