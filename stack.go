package stitch

// Stack is an ordered value stack. Reads from an empty stack fail with an
// underflow error; the engine never synthesizes a default value.
type Stack struct {
	items []any
}

// NewStack returns a stack pre-loaded with values, deepest first.
func NewStack(values ...any) *Stack {
	return &Stack{items: append([]any(nil), values...)}
}

// Push writes a value onto the top of the stack.
func (s *Stack) Push(v any) { s.items = append(s.items, v) }

// Pop reads the top value off the stack.
func (s *Stack) Pop() (any, error) {
	i := len(s.items) - 1
	if i < 0 {
		return nil, UnderflowError{}
	}
	v := s.items[i]
	s.items = s.items[:i]
	return v, nil
}

// Len returns the stack depth.
func (s *Stack) Len() int { return len(s.items) }

// Values returns a copy of the stack contents, deepest first.
func (s *Stack) Values() []any {
	return append([]any(nil), s.items...)
}
