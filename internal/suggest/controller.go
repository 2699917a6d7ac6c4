// Package suggest drives the mention suggestion popup: trigger detection,
// asynchronous lookups with stale-response rejection, keyboard navigation
// and deterministic teardown.
package suggest

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravitrone/richtext/internal/doc"
	"github.com/gravitrone/richtext/internal/mention"
)

// Phase is the session lifecycle state.
type Phase int

const (
	Idle Phase = iota
	Open
	Selecting
	Closed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Open:
		return "open"
	case Selecting:
		return "selecting"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Rect is a screen rectangle in cells. The zero value is the origin.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Props is what the host reports about a trigger context.
type Props struct {
	Query string
	Range doc.Range
	// ClientRect locates the trigger text on screen. It may be nil or
	// report false when the host cannot tell.
	ClientRect func() (Rect, bool)
	// Command inserts the picked entity.
	Command func(mention.Entity)
}

func (p Props) anchor() Rect {
	if p.ClientRect == nil {
		return Rect{}
	}
	if r, ok := p.ClientRect(); ok {
		return r
	}
	return Rect{}
}

// State is what the list view shows.
type State struct {
	Query    string
	Items    []mention.Entity
	Selected int
}

// SetItems replaces the items and resets the selection.
func (s *State) SetItems(items []mention.Entity) {
	s.Items = items
	s.Selected = 0
}

// Popup is the floating container of a session.
type Popup interface {
	Show(anchor Rect)
	Move(anchor Rect)
	Destroy()
}

// ListView renders the candidate list inside the popup.
type ListView interface {
	Render(State)
	Destroy()
}

// Factory creates the popup and list of a new session.
type Factory func() (Popup, ListView)

// ResolveFunc looks candidates up. It must honour ctx cancellation.
type ResolveFunc func(ctx context.Context, query string) []mention.Entity

// ResultsMsg carries lookup results back into the update loop.
type ResultsMsg struct {
	Session    uuid.UUID
	Generation uint64
	Query      string
	Items      []mention.Entity
}

// Option configures a Controller.
type Option func(*Controller)

// WithKeyMap overrides the default bindings.
func WithKeyMap(km KeyMap) Option {
	return func(c *Controller) { c.keys = km }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller runs one suggestion session at a time. It is driven from a
// bubbletea update loop and is not safe for concurrent use; lookups run
// inside the returned commands.
type Controller struct {
	resolve ResolveFunc
	factory Factory
	keys    KeyMap
	logger  *log.Logger

	phase      Phase
	session    uuid.UUID
	generation uint64
	props      Props
	state      State
	anchor     Rect

	popup    Popup
	list     ListView
	released bool
	cancel   context.CancelFunc
	ctx      context.Context
}

// NewController builds an idle controller.
func NewController(resolve ResolveFunc, factory Factory, opts ...Option) *Controller {
	c := &Controller{
		resolve: resolve,
		factory: factory,
		keys:    DefaultKeyMap(),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Phase returns the lifecycle state.
func (c *Controller) Phase() Phase { return c.phase }

// State returns a copy of the list state.
func (c *Controller) State() State {
	s := c.state
	s.Items = append([]mention.Entity(nil), c.state.Items...)
	return s
}

// Props returns the last reported trigger context.
func (c *Controller) Props() Props { return c.props }

// Anchor is where the popup is drawn.
func (c *Controller) Anchor() Rect { return c.anchor }

// Session identifies the live session, uuid.Nil when none.
func (c *Controller) Session() uuid.UUID { return c.session }

// Active reports whether a session is open.
func (c *Controller) Active() bool {
	return c.phase == Open || c.phase == Selecting
}

// KeyMap returns the bindings in use.
func (c *Controller) KeyMap() KeyMap { return c.keys }

// Start opens a session for a new trigger context. A session still open
// is closed first.
func (c *Controller) Start(p Props) tea.Cmd {
	if c.Active() {
		c.close()
	}
	c.session = uuid.New()
	c.generation = 0
	c.props = p
	c.state = State{Query: p.Query}
	c.phase = Open
	c.released = false
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.popup, c.list = nopPopup{}, nopList{}
	if c.factory != nil {
		popup, list := c.factory()
		if popup != nil {
			c.popup = popup
		}
		if list != nil {
			c.list = list
		}
	}

	c.anchor = p.anchor()
	c.popup.Show(c.anchor)
	c.list.Render(c.state)
	c.logger.Debug("suggestion session started", "session", c.session, "query", p.Query)
	return c.lookup(p.Query)
}

// Update reports the trigger context changed: the popup re-anchors and a
// changed query issues a new lookup.
func (c *Controller) Update(p Props) tea.Cmd {
	if !c.Active() {
		return nil
	}
	changed := p.Query != c.props.Query
	c.props = p
	c.anchor = p.anchor()
	c.popup.Move(c.anchor)
	if !changed {
		return nil
	}
	c.state.Query = p.Query
	c.list.Render(c.state)
	return c.lookup(p.Query)
}

func (c *Controller) lookup(query string) tea.Cmd {
	c.generation++
	session, generation := c.session, c.generation
	ctx, resolve := c.ctx, c.resolve
	return func() tea.Msg {
		var items []mention.Entity
		if resolve != nil {
			items = resolve(ctx, query)
		}
		return ResultsMsg{Session: session, Generation: generation, Query: query, Items: items}
	}
}

// Apply shows msg if it answers the latest query of the live session. It
// reports whether the results were applied.
func (c *Controller) Apply(msg ResultsMsg) bool {
	if !c.Active() || msg.Session != c.session || msg.Generation != c.generation {
		c.logger.Debug("stale suggestion results dropped",
			"session", msg.Session, "generation", msg.Generation, "query", msg.Query)
		return false
	}
	c.state.SetItems(msg.Items)
	c.phase = Open
	c.list.Render(c.state)
	return true
}

// KeyDown offers a key to the session. It reports whether the key was
// consumed.
func (c *Controller) KeyDown(msg tea.KeyMsg) (bool, tea.Cmd) {
	if !c.Active() {
		return false, nil
	}
	switch {
	case key.Matches(msg, c.keys.Down):
		c.move(1)
	case key.Matches(msg, c.keys.Up):
		c.move(-1)
	case key.Matches(msg, c.keys.Select):
		c.Select(c.state.Selected)
	case key.Matches(msg, c.keys.Dismiss):
		c.Exit()
	default:
		return false, nil
	}
	return true, nil
}

func (c *Controller) move(delta int) {
	n := len(c.state.Items)
	if n == 0 {
		return
	}
	c.state.Selected = ((c.state.Selected+delta)%n + n) % n
	c.phase = Selecting
	c.list.Render(c.state)
}

// Highlight moves the selection to i without committing.
func (c *Controller) Highlight(i int) {
	if !c.Active() || i < 0 || i >= len(c.state.Items) {
		return
	}
	c.state.Selected = i
	c.phase = Selecting
	c.list.Render(c.state)
}

// Select commits item i and closes the session. An index past the items
// is ignored.
func (c *Controller) Select(i int) bool {
	if !c.Active() || i < 0 || i >= len(c.state.Items) {
		return false
	}
	item := c.state.Items[i]
	command := c.props.Command
	c.logger.Debug("suggestion committed", "session", c.session, "id", item.ID, "type", item.Type)
	c.close()
	if command != nil {
		command(item)
	}
	return true
}

// Exit closes the session without committing. The host calls it when
// the trigger context ends.
func (c *Controller) Exit() {
	if !c.Active() {
		return
	}
	c.close()
}

// close releases the session resources exactly once and aborts lookups
// still in flight.
func (c *Controller) close() {
	c.phase = Closed
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.released {
		return
	}
	c.released = true
	if c.list != nil {
		c.list.Destroy()
	}
	if c.popup != nil {
		c.popup.Destroy()
	}
	c.list, c.popup = nil, nil
	c.state = State{}
}

type nopPopup struct{}

func (nopPopup) Show(Rect) {}
func (nopPopup) Move(Rect) {}
func (nopPopup) Destroy()  {}

type nopList struct{}

func (nopList) Render(State) {}
func (nopList) Destroy()     {}
