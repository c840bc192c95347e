package logging

import (
	"bufio"
	"io"

	"github.com/radeon-go/amdil/experimental"
	"github.com/radeon-go/amdil/internal/logging"
	"github.com/radeon-go/amdil/ir"
)

type Writer interface {
	io.Writer
	io.StringWriter
}

// NewLoggingListenerFactory is an experimental.LoweringListenerFactory that
// logs every node the target replaces to the writer, like this:
//
//	--> lower v7:i8 = sdiv v1, v2
//	<-- v7 => v31
//
// Use NewScopedLoggingListenerFactory if only interested in some families of
// operations.
func NewLoggingListenerFactory(w Writer) experimental.LoweringListenerFactory {
	return &loggingListenerFactory{w: toInternalWriter(w), scopes: logging.LogScopeAll}
}

// NewScopedLoggingListenerFactory is an experimental.LoweringListenerFactory
// that logs the nodes whose opcode belongs to one of the scopes.
func NewScopedLoggingListenerFactory(w Writer, scopes logging.LogScopes) experimental.LoweringListenerFactory {
	return &loggingListenerFactory{w: toInternalWriter(w), scopes: scopes}
}

func toInternalWriter(w Writer) logging.Writer {
	if w, ok := w.(logging.Writer); ok {
		return w
	}
	return bufio.NewWriter(w)
}

type loggingListenerFactory struct {
	w      logging.Writer
	scopes logging.LogScopes
}

type flusher interface {
	Flush() error
}

// NewLoweringListener implements the same method as documented on
// experimental.LoweringListenerFactory.
func (f *loggingListenerFactory) NewLoweringListener(string) experimental.LoweringListener {
	if f.scopes == logging.LogScopeNone {
		return nil
	}
	return &loggingListener{w: f.w, scopes: f.scopes}
}

// loggingListener implements experimental.LoweringListener to log each
// replacement made by the target.
type loggingListener struct {
	w      logging.Writer
	scopes logging.LogScopes
}

// BeforeLower implements the same method as documented on
// experimental.LoweringListener.
func (l *loggingListener) BeforeLower(n *ir.Node) {
	if !l.inScope(n) {
		return
	}
	logging.WriteBefore(l.w, n)
	l.flush()
}

// AfterLower implements the same method as documented on
// experimental.LoweringListener.
func (l *loggingListener) AfterLower(n *ir.Node, replacement []ir.Value) {
	if !l.inScope(n) {
		return
	}
	logging.WriteAfter(l.w, n, replacement)
	l.flush()
}

func (l *loggingListener) inScope(n *ir.Node) bool {
	return l.scopes == logging.LogScopeAll || l.scopes.IsEnabled(logging.ScopeOf(n.Opcode()))
}

func (l *loggingListener) flush() {
	if f, ok := l.w.(flusher); ok {
		f.Flush() //nolint
	}
}
