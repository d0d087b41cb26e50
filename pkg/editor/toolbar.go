package editor

// Item is a selectable toolbar entry
type Item struct {
	ID    string
	Label string
}

// Toolbar tracks the open tab and, inside it, the open sub-tab
type Toolbar struct {
	Tab    *Item
	SubTab *Item
}

// Select opens item as the sub-tab when a tab is already open, else as the tab
func (t *Toolbar) Select(item Item) {
	if t.Tab != nil {
		t.SubTab = &item
		return
	}
	t.Tab = &item
}

// IsSelected reports whether item is the innermost open entry
func (t *Toolbar) IsSelected(item Item) bool {
	switch {
	case t.SubTab != nil:
		return t.SubTab.ID == item.ID
	case t.Tab != nil:
		return t.Tab.ID == item.ID
	default:
		return false
	}
}

// Close closes the innermost open entry
func (t *Toolbar) Close() {
	if t.SubTab != nil {
		t.SubTab = nil
		return
	}
	t.Tab = nil
}
