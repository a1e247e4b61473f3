package jsql

import "errors"

// ErrChainExhausted is returned by ChainIterator.Next once every error of
// the chain has been produced.
var ErrChainExhausted = errors.New("sql: error chain exhausted")

// Next returns the error chained after e, or nil.
func (e *Error) Next() *Error {
	return e.next.Load()
}

// SetNext appends n to the end of the chain that starts at e. It is safe to
// call from several goroutines at once: a link, once set, is never replaced,
// and an appender that loses the race moves on to the new tail and retries.
// Appending nil does nothing. n must not already belong to a chain.
func (e *Error) SetNext(n *Error) {
	if n == nil {
		return
	}
	current := e
	for {
		next := current.next.Load()
		if next != nil {
			current = next
			continue
		}
		if current.next.CompareAndSwap(nil, n) {
			return
		}
		current = current.next.Load()
	}
}

// NextWarning returns the warning chained after e. It returns nil when the
// next error is absent or is not a warning.
func (e *Error) NextWarning() *Error {
	n := e.next.Load()
	if n == nil || !n.kind.IsA(KindWarning) {
		return nil
	}
	return n
}

// SetNextWarning appends w to the chain that starts at e.
func (e *Error) SetNextWarning(w *Error) {
	e.SetNext(w)
}

// ChainIterator walks a chain of errors. For every chain node it yields the
// node, then the node's cause, the cause's cause and so on, before moving
// to the next node. It is not safe for concurrent use.
type ChainIterator struct {
	first *Error
	next  *Error
	cause error
}

// Iterator returns a new iterator positioned before e. Every call starts a
// fresh traversal.
func (e *Error) Iterator() *ChainIterator {
	return &ChainIterator{
		first: e,
		next:  e.Next(),
		cause: e.Unwrap(),
	}
}

// HasNext reports whether Next will return another error.
func (it *ChainIterator) HasNext() bool {
	return it.first != nil || it.cause != nil || it.next != nil
}

// Next returns the next error of the traversal, or ErrChainExhausted.
func (it *ChainIterator) Next() (error, error) {
	switch {
	case it.first != nil:
		err := it.first
		it.first = nil
		return err, nil
	case it.cause != nil:
		err := it.cause
		it.cause = errors.Unwrap(err)
		return err, nil
	case it.next != nil:
		err := it.next
		it.cause = err.Unwrap()
		it.next = err.Next()
		return err, nil
	default:
		return nil, ErrChainExhausted
	}
}

// Walk calls fn for every error Iterator would produce, in the same order,
// until fn returns false.
func (e *Error) Walk(fn func(error) bool) {
	it := e.Iterator()
	for it.HasNext() {
		err, _ := it.Next()
		if !fn(err) {
			return
		}
	}
}
