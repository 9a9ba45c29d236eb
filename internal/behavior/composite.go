package behavior

// Sequence runs children in order. It stops and resets at the first Failure,
// reports Running while a child is Running, and returns Success only after
// every child succeeded, resetting itself for the next pass.
type Sequence struct {
	children []Node
	cursor   int
}

// NewSequence builds a sequence over the given children.
func NewSequence(children ...Node) *Sequence {
	return &Sequence{children: children}
}

// Execute advances through the children from the saved cursor.
func (s *Sequence) Execute(ctx *Context) Status {
	for s.cursor < len(s.children) {
		switch s.children[s.cursor].Execute(ctx) {
		case Running:
			return Running
		case Failure:
			s.Reset()
			return Failure
		case Success:
			s.cursor++
		}
	}
	s.Reset()
	return Success
}

// Reset rewinds the cursor and resets every child.
func (s *Sequence) Reset() {
	s.cursor = 0
	for _, c := range s.children {
		c.Reset()
	}
}

// Selector returns Success at the first succeeding child, advances past
// failures, and fails only when every child failed. Both outcomes reset the
// selector and all children before returning.
type Selector struct {
	children []Node
	cursor   int
}

// NewSelector builds a selector over the given children.
func NewSelector(children ...Node) *Selector {
	return &Selector{children: children}
}

// Execute advances through the children from the saved cursor.
func (s *Selector) Execute(ctx *Context) Status {
	for s.cursor < len(s.children) {
		switch s.children[s.cursor].Execute(ctx) {
		case Running:
			return Running
		case Success:
			s.Reset()
			return Success
		case Failure:
			s.cursor++
		}
	}
	s.Reset()
	return Failure
}

// Reset rewinds the cursor and resets every child.
func (s *Selector) Reset() {
	s.cursor = 0
	for _, c := range s.children {
		c.Reset()
	}
}
