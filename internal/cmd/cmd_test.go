package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/richtext/internal/config"
	"github.com/gravitrone/richtext/internal/ui/components"
)

const janeHTML = `<p>Hi <a class="mention mention-member" href="https://m.test/profil/jane" data-mention-type="member" data-mention-id="m-1" data-mention-label="Jane" data-mention-url="https://m.test/profil/jane" data-mention-variant="inline">Jane</a></p>`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, DetectFormat("a.JSON", nil))
	assert.Equal(t, FormatHTML, DetectFormat("a.htm", []byte("{")))
	assert.Equal(t, FormatJSON, DetectFormat("-", []byte("  {\"type\":\"doc\"}")))
	assert.Equal(t, FormatHTML, DetectFormat("notes.txt", []byte("<p>x</p>")))
}

func TestConvertHTMLToPayload(t *testing.T) {
	path := writeFile(t, "doc.html", janeHTML)

	var out bytes.Buffer
	cmd := ConvertCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())

	var payload struct {
		HTML     string            `json:"html"`
		Text     string            `json:"text"`
		Mentions []json.RawMessage `json:"mentions"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	assert.Contains(t, payload.HTML, `data-mention-id="m-1"`)
	assert.Equal(t, "Hi @Jane", payload.Text)
	require.Len(t, payload.Mentions, 1)
	assert.Contains(t, string(payload.Mentions[0]), `"variant":"inline"`)
}

func TestConvertJSONBackToHTML(t *testing.T) {
	var asJSON bytes.Buffer
	cmd := ConvertCmd()
	cmd.SetOut(&asJSON)
	cmd.SetArgs([]string{writeFile(t, "doc.html", janeHTML), "--to", "json"})
	require.NoError(t, cmd.Execute())

	var asHTML bytes.Buffer
	cmd = ConvertCmd()
	cmd.SetOut(&asHTML)
	cmd.SetArgs([]string{writeFile(t, "doc.json", asJSON.String()), "--to", "html"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, asHTML.String(), `data-mention-label="Jane"`)
	assert.True(t, strings.HasPrefix(asHTML.String(), "<p>Hi "))
}

func TestConvertReadsStdinAndWritesFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.txt")

	cmd := ConvertCmd()
	cmd.SetIn(strings.NewReader("<p>one</p><p>two</p>"))
	cmd.SetArgs([]string{"-", "--to", "text", "-o", target})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))
}

func TestConvertRejectsUnknownFormat(t *testing.T) {
	cmd := ConvertCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{writeFile(t, "doc.html", "<p>x</p>"), "--to", "yaml"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `cannot write format "yaml"`)
}

func TestConvertMissingFile(t *testing.T) {
	cmd := ConvertCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.html")})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read input")
}

func mentionsServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rest/mentions/search" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		assert.Equal(t, "acme corp", r.URL.Query().Get("search"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"search_members": []map[string]any{{"name": "Acme", "public_id": "m-1", "slug": "acme"}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResolveCmdPrintsTable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := mentionsServer(t)

	var out bytes.Buffer
	cmd := ResolveCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"acme", "corp", "--api-url", srv.URL})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Acme")
	assert.Contains(t, out.String(), "member")
	assert.Contains(t, out.String(), "m-1")
}

func TestResolveCmdJSON(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := mentionsServer(t)

	var out bytes.Buffer
	cmd := ResolveCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"acme corp", "--json", "--api-url", srv.URL})
	require.NoError(t, cmd.Execute())

	var items []map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "m-1", items[0]["id"])
	assert.Equal(t, "member", items[0]["type"])
}

func TestResolveCmdShortQuery(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	cmd := ResolveCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"ab", "--api-url", "http://127.0.0.1:1"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "query too short")
}

func TestResolveCmdServerErrorPrintsNothingFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	var out, errOut bytes.Buffer
	cmd := ResolveCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"acme corp", "--api-url", srv.URL})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "no mentions found")
}

func TestConfigInitWritesAnswers(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	cmd := ConfigCmd()
	cmd.SetIn(strings.NewReader("http://api.test\n\n\nEN_US\n"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"init"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "config saved to")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://api.test", cfg.APIURL)
	assert.Equal(t, config.DefaultMarketplaceURL, cfg.MarketplaceURL)
	assert.Equal(t, "EN_US", cfg.Locale)
}

func TestConfigInitRejectsBadURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	err := RunInteractiveInit(strings.NewReader("ftp://nope\n"), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http:// or https://")
}

func TestConfigShowUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	cmd := ConfigCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"show"})
	require.NoError(t, cmd.Execute())
	clean := components.SanitizeText(out.String())
	assert.Contains(t, clean, "source: defaults")
	assert.Contains(t, clean, "api_url: "+config.DefaultAPIURL)
}

func TestConfigCmdUnknownSubcommand(t *testing.T) {
	cmd := ConfigCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"nope"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}
