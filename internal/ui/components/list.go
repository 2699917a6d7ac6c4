package components

// List is a scrollable window over a slice of rows with a cursor.
type List struct {
	Items    []string
	Cursor   int
	Offset   int
	PageSize int
	// Wrap makes Up on the first row land on the last one and vice versa.
	Wrap bool
}

// NewList creates a list with the given page size.
func NewList(pageSize int) *List {
	return &List{PageSize: pageSize}
}

// SetItems replaces items and resets cursor.
func (l *List) SetItems(items []string) {
	l.Items = items
	l.Cursor = 0
	l.Offset = 0
}

// SetCursor moves the cursor to i and scrolls it into view. Out of
// range values are clamped.
func (l *List) SetCursor(i int) {
	if len(l.Items) == 0 {
		l.Cursor, l.Offset = 0, 0
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(l.Items) {
		i = len(l.Items) - 1
	}
	l.Cursor = i
	l.follow()
}

// Down moves the cursor down.
func (l *List) Down() {
	switch {
	case l.Cursor < len(l.Items)-1:
		l.Cursor++
	case l.Wrap && len(l.Items) > 0:
		l.Cursor = 0
	}
	l.follow()
}

// Up moves the cursor up.
func (l *List) Up() {
	switch {
	case l.Cursor > 0:
		l.Cursor--
	case l.Wrap && len(l.Items) > 0:
		l.Cursor = len(l.Items) - 1
	}
	l.follow()
}

func (l *List) follow() {
	if l.PageSize <= 0 {
		l.Offset = 0
		return
	}
	if l.Cursor < l.Offset {
		l.Offset = l.Cursor
	}
	if l.Cursor >= l.Offset+l.PageSize {
		l.Offset = l.Cursor - l.PageSize + 1
	}
}

// Visible returns the currently visible items.
func (l *List) Visible() []string {
	if len(l.Items) == 0 {
		return nil
	}
	if l.PageSize <= 0 {
		return l.Items
	}
	end := l.Offset + l.PageSize
	if end > len(l.Items) {
		end = len(l.Items)
	}
	return l.Items[l.Offset:end]
}

// Selected returns the index of the selected item.
func (l *List) Selected() int {
	return l.Cursor
}

// IsSelected returns true if the given absolute index is the cursor.
func (l *List) IsSelected(absIdx int) bool {
	return absIdx == l.Cursor
}

// RelToAbs converts a relative (visible) index to absolute.
func (l *List) RelToAbs(relIdx int) int {
	return l.Offset + relIdx
}
