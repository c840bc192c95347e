package experimental

import (
	"github.com/radeon-go/amdil/ir"
)

// LoweringListenerFactoryKey is a context.Context Value key. Its associated value should be a
// LoweringListenerFactory.
type LoweringListenerFactoryKey struct{}

// LoweringListenerFactory returns LoweringListeners to be notified while a function is lowered.
type LoweringListenerFactory interface {
	// NewLoweringListener returns a LoweringListener for the graph of the named function.
	// If nil is returned, no listener will be notified.
	NewLoweringListener(function string) LoweringListener
}

// LoweringListener is notified around every node the target replaces.
//
// Listeners are called from the goroutine lowering the graph. When graphs are lowered in parallel, a factory
// returning a shared listener must synchronize it.
type LoweringListener interface {
	// BeforeLower is invoked before n is handed to its lowering routine. The operands of n are already lowered.
	BeforeLower(n *ir.Node)

	// AfterLower is invoked once every result of n has been replaced by the corresponding value of replacement.
	// replacement holds the results of n itself when the routine left n unchanged.
	AfterLower(n *ir.Node, replacement []ir.Value)
}

// LoweringListenerFunc is a function type implementing the LoweringListener interface, invoked only when
// AfterLower is called.
type LoweringListenerFunc func(n *ir.Node, replacement []ir.Value)

// BeforeLower is declared to satisfy the LoweringListener interface, but it does nothing.
func (f LoweringListenerFunc) BeforeLower(*ir.Node) {}

// AfterLower satisfies the LoweringListener interface, calls f.
func (f LoweringListenerFunc) AfterLower(n *ir.Node, replacement []ir.Value) {
	f(n, replacement)
}

// LoweringListenerFactoryFunc is a function type implementing the LoweringListenerFactory interface.
type LoweringListenerFactoryFunc func(function string) LoweringListener

// NewLoweringListener satisfies the LoweringListenerFactory interface, calls f.
func (f LoweringListenerFactoryFunc) NewLoweringListener(function string) LoweringListener {
	return f(function)
}

// MultiLoweringListenerFactory constructs a LoweringListenerFactory which combines the listeners created by each
// of the factories passed as arguments, notified in order.
func MultiLoweringListenerFactory(factories ...LoweringListenerFactory) LoweringListenerFactory {
	multi := make(multiLoweringListenerFactory, len(factories))
	copy(multi, factories)
	return multi
}

type multiLoweringListenerFactory []LoweringListenerFactory

func (multi multiLoweringListenerFactory) NewLoweringListener(function string) LoweringListener {
	var lstns []LoweringListener
	for _, factory := range multi {
		if factory == nil {
			continue
		}
		if lstn := factory.NewLoweringListener(function); lstn != nil {
			lstns = append(lstns, lstn)
		}
	}
	switch len(lstns) {
	case 0:
		return nil
	case 1:
		return lstns[0]
	default:
		return multiLoweringListener(lstns)
	}
}

type multiLoweringListener []LoweringListener

func (multi multiLoweringListener) BeforeLower(n *ir.Node) {
	for _, lstn := range multi {
		lstn.BeforeLower(n)
	}
}

func (multi multiLoweringListener) AfterLower(n *ir.Node, replacement []ir.Value) {
	for _, lstn := range multi {
		lstn.AfterLower(n, replacement)
	}
}
