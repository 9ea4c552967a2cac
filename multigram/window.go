package multigram

// window is the recency shift register, kept as a ring buffer.
// at(0) is the most recently pushed node; empty positions hold nil.
type window struct {
	buf  []*Node
	head int
}

func newWindow(size int) *window {
	return &window{buf: make([]*Node, size)}
}

func (w *window) size() int { return len(w.buf) }

// at returns the node pushed i steps ago (0 = most recent).
func (w *window) at(i int) *Node {
	n := len(w.buf)
	return w.buf[(w.head-i%n+n)%n]
}

// push overwrites the oldest position with node.
func (w *window) push(node *Node) {
	w.head = (w.head + 1) % len(w.buf)
	w.buf[w.head] = node
}

func (w *window) clear() {
	for i := range w.buf {
		w.buf[i] = nil
	}
	w.head = 0
}

// slice returns the window contents, most recent first.
func (w *window) slice() []*Node {
	out := make([]*Node, len(w.buf))
	for i := range out {
		out[i] = w.at(i)
	}
	return out
}
