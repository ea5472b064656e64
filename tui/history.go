// Package tui provides a Bubble Tea terminal UI for a Dice Arena encounter.
package tui

// History is a fixed-capacity ring of submitted commands with a browse
// cursor for Up/Down recall.
type History struct {
	buf    []string
	start  int // index of the oldest entry
	size   int
	cursor int // -1 when not browsing, else 0..size-1 from the oldest
}

// NewHistory creates a history ring holding at most capacity commands.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]string, capacity), cursor: -1}
}

func (h *History) at(i int) string {
	return h.buf[(h.start+i)%len(h.buf)]
}

// Len returns the number of stored commands.
func (h *History) Len() int { return h.size }

// Last returns the newest command.
func (h *History) Last() (string, bool) {
	if h.size == 0 {
		return "", false
	}
	return h.at(h.size - 1), true
}

// Push appends a command, overwriting the oldest when full. Repeating the
// newest command is a no-op.
func (h *History) Push(cmd string) {
	if last, ok := h.Last(); ok && last == cmd {
		return
	}
	if h.size < len(h.buf) {
		h.buf[(h.start+h.size)%len(h.buf)] = cmd
		h.size++
		return
	}
	h.buf[h.start] = cmd
	h.start = (h.start + 1) % len(h.buf)
}

// Prev moves toward older commands, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if h.size == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = h.size - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.at(h.cursor), true
}

// Next moves toward newer commands. Stepping past the newest ends
// browsing and reports false.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= h.size {
		h.cursor = -1
		return "", false
	}
	return h.at(h.cursor), true
}

// ResetCursor ends browsing.
func (h *History) ResetCursor() {
	h.cursor = -1
}
