package sink

// Func adapts a send function into a sink whose state counts accepted
// items. Returning transduce.ErrSinkClosed from the function stops the
// reduction; any other error fails it.
type Func[T any] func(item T) error

// Add calls f(item).
func (f Func[T]) Add(sent int, item T) (int, error) {
	if err := f(item); err != nil {
		return sent, err
	}
	return sent + 1, nil
}
