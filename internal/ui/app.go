package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"

	"github.com/gravitrone/richtext/internal/config"
	"github.com/gravitrone/richtext/internal/doc"
	"github.com/gravitrone/richtext/internal/logger"
	"github.com/gravitrone/richtext/internal/mention"
	"github.com/gravitrone/richtext/internal/nodes"
	"github.com/gravitrone/richtext/internal/suggest"
	"github.com/gravitrone/richtext/internal/ui/components"
)

// --- Messages ---

type clearToastMsg struct{}

type savedMsg struct {
	path string
	err  error
}

type appToast struct {
	level string
	text  string
}

// Save formats.
const (
	FormatHTML = "html"
	FormatJSON = "json"
)

// Options configures the editor app.
type Options struct {
	Config  *config.Config
	Logger  *log.Logger
	Resolve suggest.ResolveFunc
	// Path is where the save key writes. Empty disables saving.
	Path string
	// Format is FormatHTML or FormatJSON. Empty means FormatHTML.
	Format string
}

// session is written by the document observer and the mention command,
// which outlive any single copy of the App value.
type session struct {
	dirty      bool
	revision   int
	mentions   int
	commandErr error
}

// --- App Model ---

// App is the root TUI model: the editor, its toolbar, the mention popup
// and the dialogs layered over them.
type App struct {
	config  *config.Config
	logger  *log.Logger
	editor  *Editor
	keys    EditorKeyMap
	suggest *suggest.Controller
	popups  *popupSlot
	session *session

	path   string
	format string
	width  int
	height int

	toast       *appToast
	helpOpen    bool
	quitConfirm bool
	linkOpen    bool
	linkInput   string
	dismissedAt int

	callout CalloutEditor
	variant VariantMenu
}

// NewApp creates the root application model editing d.
func NewApp(d *doc.Document, opts Options) App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	l := opts.Logger
	if l == nil {
		l = logger.Discard()
	}
	format := opts.Format
	if format == "" {
		format = FormatHTML
	}

	keys := DefaultEditorKeyMap()
	popups := &popupSlot{}
	s := &session{mentions: len(nodes.Mentions(d.Root()))}
	d.OnChange(func(c doc.Change) {
		s.dirty = true
		s.revision++
		s.mentions = len(nodes.Mentions(c.Doc))
		l.Debug("document changed", "revision", s.revision, "mentions", s.mentions, "bytes", len(c.HTML))
	})

	return App{
		config:      cfg,
		logger:      l,
		editor:      NewEditor(d, keys),
		keys:        keys,
		suggest:     suggest.NewController(opts.Resolve, popups.factory, suggest.WithKeyMap(suggestKeyMap(cfg)), suggest.WithLogger(l)),
		popups:      popups,
		session:     s,
		path:        opts.Path,
		format:      format,
		dismissedAt: -1,
	}
}

func suggestKeyMap(cfg *config.Config) suggest.KeyMap {
	km := suggest.DefaultKeyMap()
	if cfg.VimKeys {
		km.Up = key.NewBinding(key.WithKeys("up", "ctrl+p", "ctrl+k"), key.WithHelp("↑/ctrl+k", "previous suggestion"))
		km.Down = key.NewBinding(key.WithKeys("down", "ctrl+n", "ctrl+j"), key.WithHelp("↓/ctrl+j", "next suggestion"))
	}
	return km
}

// Editor returns the document view.
func (a App) Editor() *Editor { return a.editor }

// Dirty reports unsaved changes.
func (a App) Dirty() bool { return a.session.dirty }

func (a App) Init() tea.Cmd {
	return tea.SetWindowTitle("richtext")
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.editor.SetSize(a.width, a.editorHeight())
		cmd := a.syncSuggest()
		return a, cmd
	case clearToastMsg:
		a.toast = nil
		return a, nil
	case savedMsg:
		if msg.err != nil {
			a.logger.Error("save failed", "path", msg.path, "err", msg.err)
			cmd := a.setToast("error", msg.err.Error())
			return a, cmd
		}
		a.session.dirty = false
		a.logger.Info("document saved", "path", msg.path, "format", a.format)
		cmd := a.setToast("success", "Saved "+filepath.Base(msg.path))
		return a, cmd
	case suggest.ResultsMsg:
		a.suggest.Apply(msg)
		return a, nil
	case tea.MouseMsg:
		return a.handleMouse(msg)
	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.quitConfirm {
		switch {
		case isKey(msg, "y"):
			return a, tea.Quit
		case isKey(msg, "n"), isBack(msg):
			a.quitConfirm = false
		}
		return a, nil
	}
	if a.linkOpen {
		return a.handleLinkKeys(msg)
	}
	if a.callout.Active {
		opts, ok := a.callout.HandleKey(msg)
		if !ok {
			return a, nil
		}
		if err := a.editor.UpdateCallout(opts); err != nil {
			cmd := a.setToast("error", err.Error())
			return a, cmd
		}
		return a, nil
	}
	if a.variant.Active {
		target := a.variant.Target()
		v, ok := a.variant.HandleKey(msg)
		if !ok {
			return a, nil
		}
		if err := a.editor.ChangeVariant(target, v); err != nil {
			cmd := a.setToast("error", err.Error())
			return a, cmd
		}
		cmd := a.syncSuggest()
		return a, cmd
	}
	if a.helpOpen {
		if isBack(msg) || key.Matches(msg, a.keys.ToggleToolbar) {
			a.helpOpen = false
		}
		return a, nil
	}

	from := a.suggest.Props().Range.From
	if handled, cmd := a.suggest.KeyDown(msg); handled {
		if key.Matches(msg, a.suggest.KeyMap().Dismiss) {
			a.dismissedAt = from
			return a, cmd
		}
		sync := a.syncSuggest()
		result := a.commandResult()
		return a, tea.Batch(cmd, sync, result)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		if a.session.dirty {
			a.suggest.Exit()
			a.quitConfirm = true
			return a, nil
		}
		return a, tea.Quit
	case key.Matches(msg, a.keys.Save):
		cmd := a.save()
		return a, cmd
	case key.Matches(msg, a.keys.ToggleToolbar):
		a.suggest.Exit()
		a.helpOpen = true
		return a, nil
	case key.Matches(msg, a.keys.Link):
		a.suggest.Exit()
		a.linkOpen = true
		a.linkInput = a.editor.LinkAt()
		return a, nil
	case key.Matches(msg, a.keys.EditCallout):
		cmd := a.openCalloutEditor()
		return a, cmd
	case key.Matches(msg, a.keys.Variant):
		f, ok := a.editor.MentionNearCursor()
		if !ok {
			cmd := a.setToast("warning", "No mention next to the cursor")
			return a, cmd
		}
		a.suggest.Exit()
		a.variant.Open(f)
		return a, nil
	}

	handled, err := a.applyFormat(msg)
	if !handled {
		handled, err = a.editor.HandleKey(msg)
	}
	var cmds []tea.Cmd
	if err != nil {
		a.logger.Debug("edit rejected", "key", msg.String(), "err", err)
		cmds = append(cmds, a.setToast("error", err.Error()))
	}
	if handled {
		cmds = append(cmds, a.syncSuggest())
	}
	return a, tea.Batch(cmds...)
}

// applyFormat runs the toolbar command bound to msg.
func (a App) applyFormat(msg tea.KeyMsg) (bool, error) {
	e := a.editor
	switch {
	case key.Matches(msg, a.keys.Bold):
		return true, e.ToggleMark("bold")
	case key.Matches(msg, a.keys.Italic):
		return true, e.ToggleMark("italic")
	case key.Matches(msg, a.keys.Underline):
		return true, e.ToggleMark("underline")
	case key.Matches(msg, a.keys.Strike):
		return true, e.ToggleMark("strike")
	case key.Matches(msg, a.keys.Paragraph):
		return true, e.SetHeading(0)
	case key.Matches(msg, a.keys.Heading2):
		return true, e.SetHeading(2)
	case key.Matches(msg, a.keys.Heading3):
		return true, e.SetHeading(3)
	case key.Matches(msg, a.keys.Heading4):
		return true, e.SetHeading(4)
	case key.Matches(msg, a.keys.Blockquote):
		return true, e.ToggleBlockquote()
	case key.Matches(msg, a.keys.Callout):
		return true, e.InsertCallout()
	case key.Matches(msg, a.keys.ClearFormat):
		return true, e.ClearFormatting()
	case key.Matches(msg, a.keys.Undo):
		e.Undo()
		return true, nil
	case key.Matches(msg, a.keys.Redo):
		e.Redo()
		return true, nil
	}
	return false, nil
}

func (a App) handleLinkKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isBack(msg):
		a.linkOpen = false
	case isEnter(msg):
		a.linkOpen = false
		if err := a.editor.SetLink(strings.TrimSpace(a.linkInput)); err != nil {
			cmd := a.setToast("error", err.Error())
			return a, cmd
		}
		cmd := a.syncSuggest()
		return a, cmd
	case isKey(msg, "backspace"):
		a.linkInput = dropLastRune(a.linkInput)
	case isKey(msg, "ctrl+u"):
		a.linkInput = ""
	case msg.Type == tea.KeyRunes && !msg.Alt:
		a.linkInput += string(msg.Runes)
	}
	return a, nil
}

func (a *App) openCalloutEditor() tea.Cmd {
	n, _, ok := a.editor.CalloutAtCursor()
	if !ok {
		return a.setToast("warning", "The cursor is not inside a callout")
	}
	a.suggest.Exit()
	a.callout.Open(nodes.CalloutAttrsOf(n))
	return nil
}

func (a App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.modalOpen() {
		return a, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.editor.moveV(-1)
		cmd := a.syncSuggest()
		return a, cmd
	case tea.MouseButtonWheelDown:
		a.editor.moveV(1)
		cmd := a.syncSuggest()
		return a, cmd
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return a, nil
	}

	if p := a.popups.view(); p != nil {
		block, x, y := a.popupPlacement(p)
		if msg.X >= x && msg.X < x+lipgloss.Width(block) && msg.Y >= y && msg.Y < y+lipgloss.Height(block) {
			if i, ok := p.itemAt(msg.Y - y); ok {
				a.suggest.Select(i)
				sync := a.syncSuggest()
				result := a.commandResult()
				return a, tea.Batch(sync, result)
			}
			return a, nil
		}
	}

	row := msg.Y - a.editorTop()
	if row < 0 || row >= a.editorHeight() {
		return a, nil
	}
	h, ok := a.editor.hitTest(row, msg.X)
	if !ok {
		return a, nil
	}
	switch h.kind {
	case hitMention:
		if f, ok := a.editor.mentionAt(h); ok {
			a.suggest.Exit()
			a.variant.Open(f)
			return a, nil
		}
	case hitCallout:
		a.editor.SetCursor(h.pos + 2)
		cmd := a.openCalloutEditor()
		return a, cmd
	}
	cmd := a.syncSuggest()
	return a, cmd
}

// syncSuggest reports the trigger context around the cursor to the
// suggestion controller: start, update or end the session.
func (a *App) syncSuggest() tea.Cmd {
	t, ok := a.editor.Trigger()
	if !ok {
		a.dismissedAt = -1
		a.suggest.Exit()
		return nil
	}
	if t.Range.From == a.dismissedAt {
		return nil
	}
	props := a.triggerProps(t)
	if a.suggest.Active() && a.suggest.Props().Range.From == t.Range.From {
		return a.suggest.Update(props)
	}
	return a.suggest.Start(props)
}

func (a App) triggerProps(t suggest.Trigger) suggest.Props {
	editor, l, s := a.editor, a.logger, a.session
	return suggest.Props{
		Query: t.Query,
		Range: t.Range,
		ClientRect: func() (suggest.Rect, bool) {
			return editor.ScreenRect(t.Range)
		},
		Command: func(ent mention.Entity) {
			if err := editor.InsertMention(t.Range, ent); err != nil {
				s.commandErr = err
				l.Error("insert mention failed", "id", ent.ID, "type", ent.Type, "err", err)
			}
		},
	}
}

// commandResult surfaces an error left by the last mention command.
func (a *App) commandResult() tea.Cmd {
	err := a.session.commandErr
	if err == nil {
		return nil
	}
	a.session.commandErr = nil
	return a.setToast("error", err.Error())
}

func (a *App) save() tea.Cmd {
	if a.path == "" {
		return a.setToast("warning", "No file to save to")
	}
	data, err := encodeDocument(a.editor.Document(), a.format)
	path := a.path
	return func() tea.Msg {
		if err != nil {
			return savedMsg{path: path, err: err}
		}
		return savedMsg{path: path, err: os.WriteFile(path, data, 0o644)}
	}
}

func encodeDocument(d *doc.Document, format string) ([]byte, error) {
	switch format {
	case FormatHTML:
		return []byte(d.HTML()), nil
	case FormatJSON:
		return d.JSON()
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

func (a *App) setToast(level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(2500*time.Millisecond, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	title := "Info"
	switch a.toast.level {
	case "success":
		title = "Success"
	case "warning":
		title = "Warning"
	case "error":
		return components.ErrorBox("Error", a.toast.text, a.width)
	}
	return components.TitledBox(title, a.toast.text, a.width)
}

// --- Layout ---

func (a App) modalOpen() bool {
	return a.quitConfirm || a.linkOpen || a.helpOpen || a.callout.Active || a.variant.Active
}

func (a App) editorTop() int {
	return 1 + lipgloss.Height(renderToolbar(a.editor, a.width))
}

func (a App) editorHeight() int {
	h := a.height - a.editorTop() - 1
	if h < 1 {
		return 1
	}
	return h
}

func (a App) popupPlacement(p *popupView) (string, int, int) {
	block := p.View(a.width)
	anchor := p.anchor
	anchor.Y += a.editorTop()
	x, y := placement(anchor, lipgloss.Width(block), lipgloss.Height(block), a.width, a.height)
	return block, x, y
}

func (a App) View() string {
	body := strings.Split(a.editor.View(), "\n")
	for len(body) < a.editorHeight() {
		body = append(body, "")
	}
	screen := strings.Join([]string{
		a.renderHeader(),
		renderToolbar(a.editor, a.width),
		strings.Join(body, "\n"),
		a.renderStatus(),
	}, "\n")

	if p := a.popups.view(); p != nil {
		block, x, y := a.popupPlacement(p)
		screen = overlay(screen, block, x, y)
	}
	if modal := a.renderModal(); modal != "" {
		x := (a.width - lipgloss.Width(modal)) / 2
		y := (a.height - lipgloss.Height(modal)) / 2
		screen = overlay(screen, modal, max(x, 0), max(y, 0))
	}
	if a.toast != nil {
		toast := a.renderToast()
		screen = overlay(screen, toast, max(a.width-lipgloss.Width(toast), 0), a.editorTop())
	}
	return screen
}

func (a App) renderHeader() string {
	name := "untitled"
	if a.path != "" {
		name = filepath.Base(a.path)
	}
	line := BannerStyle.Render("richtext") + MutedStyle.Render(" · "+components.SanitizeOneLine(name))
	if a.session.dirty {
		line += DirtyStyle.Render(" ●")
	}
	line += MutedStyle.Render(fmt.Sprintf(" · %d mentions", a.session.mentions))
	if a.width > 0 {
		line = ansi.Truncate(line, a.width, "…")
	}
	return line
}

func (a App) renderStatus() string {
	hints := components.KeyHints(a.keys.ShortHelp()...)
	if save := a.keys.Save.Help(); a.session.dirty && len(hints) > 0 {
		hints[0] = components.ActiveHint(save.Key, save.Desc)
	}
	if a.suggest.Active() {
		hints = components.KeyHints(a.suggest.KeyMap().ShortHelp()...)
	}
	hints = append(hints, MutedStyle.Render(fmt.Sprintf("pos %d", a.editor.Cursor())))
	status := components.StatusBar(hints, 0)
	if a.width > 0 {
		status = ansi.Truncate(status, a.width, "")
	}
	return status
}

func (a App) renderModal() string {
	switch {
	case a.quitConfirm:
		return components.ConfirmDialog("Quit", "You have unsaved changes. Quit anyway?")
	case a.linkOpen:
		return components.InputDialog("Link", a.linkInput)
	case a.callout.Active:
		return a.callout.Render(a.width)
	case a.variant.Active:
		return a.variant.Render(a.width)
	case a.helpOpen:
		return a.renderHelp()
	}
	return ""
}

func (a App) renderHelp() string {
	inner := components.BoxContentWidth(a.width)
	lines := []string{centerBlockUniform(RenderBanner(), inner), ""}
	groups := append(a.keys.FullHelp(), a.suggest.KeyMap().ShortHelp())
	for _, group := range groups {
		lines = append(lines, strings.Join(components.KeyHints(group...), "  "))
	}
	lines = append(lines, "", MutedStyle.Render("esc to close"))
	return components.TitledBox("Keys", strings.Join(lines, "\n"), a.width)
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
