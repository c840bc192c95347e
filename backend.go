// Package amdil lowers operation graphs for AMD GPUs into AMDIL: every operation the device cannot execute is
// replaced by a sequence of operations it can, choosing the sequence by hardware generation, CAL compiler version
// and optional features.
//
// Ex.
//
//	b, err := amdil.NewBackend(amdil.NewBackendConfig().WithGeneration(api.GenerationHD4XXX))
//	g := ir.NewGraph("kernel")
//	c := ir.NewCursor(g)
//	g.AddOutput(c.Binary(ir.OpcodeSDiv, c.Argument(ir.TypeI32, 0), c.Argument(ir.TypeI32, 1)))
//	err = b.Lower(ctx, g)
package amdil

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/radeon-go/amdil/api"
	"github.com/radeon-go/amdil/experimental"
	"github.com/radeon-go/amdil/internal/backend"
	isa "github.com/radeon-go/amdil/internal/backend/isa/amdil"
	"github.com/radeon-go/amdil/internal/features"
	"github.com/radeon-go/amdil/internal/logging"
	"github.com/radeon-go/amdil/ir"
)

func init() {
	features.EnableFromEnvironment()
}

// InternalError is returned when lowering hits an inconsistency in the graph or in the lowering itself. The graph
// is left partially lowered and must be discarded.
type InternalError struct {
	// Function is the name of the graph being lowered.
	Function string
	// Message describes the inconsistency.
	Message string
}

// Error implements error.
func (e *InternalError) Error() string {
	return fmt.Sprintf("lowering %s: %s", e.Function, e.Message)
}

// Backend lowers graphs for the device of its BackendConfig. The device descriptor and the tables derived from it
// are built once by NewBackend and only read afterwards, so a Backend can lower several graphs concurrently.
type Backend struct {
	config  *BackendConfig
	machine *isa.Machine
}

// NewBackend returns a Backend for config. It returns an error if the device of config is not valid.
func NewBackend(config *BackendConfig) (*Backend, error) {
	if err := config.device.Validate(); err != nil {
		return nil, err
	}
	return &Backend{config: config, machine: isa.NewMachine(config.device)}, nil
}

// Device returns the device this backend lowers for.
func (b *Backend) Device() api.Device {
	return b.machine.Device()
}

// Tiers returns the lowering strategies selected for the device.
func (b *Backend) Tiers() api.Tiers {
	return b.machine.Tiers()
}

// FormatLegalizeTable returns one line per opcode listing the types on which it is not legal for the device. Only
// the given opcodes are listed, or every target independent one if none is given.
func (b *Backend) FormatLegalizeTable(ops ...ir.Opcode) string {
	return isa.FormatLegalizeTable(b.machine.LegalizeTable(), ops...)
}

// Lower replaces in g every operation the device cannot execute. The listener factory installed with
// experimental.LoweringListenerFactoryKey in ctx, if any, is notified of every replacement.
//
// A non nil error is an *InternalError, or ctx.Err() if ctx was done before lowering started.
func (b *Backend) Lower(ctx context.Context, g *ir.Graph) (err error) {
	if err = ctx.Err(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = &InternalError{Function: g.Name(), Message: fmt.Sprint(r)}
		}
	}()

	d := backend.NewDispatcher(b.machine.LegalizeTable(), b.machine)
	d.Init(g, b.listener(ctx, g.Name()))
	d.Run()

	if features.Enabled(features.Verify) {
		if verr := ir.Validate(g); verr != nil {
			return &InternalError{Function: g.Name(), Message: verr.Error()}
		}
	}
	return nil
}

// LowerAll lowers every graph, up to BackendConfig.Parallelism at a time. It stops starting new graphs after the
// first failure or when ctx is done, and returns the first error.
func (b *Backend) LowerAll(ctx context.Context, graphs ...*ir.Graph) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(b.config.Parallelism())
	for _, g := range graphs {
		g := g
		eg.Go(func() error {
			return b.Lower(ctx, g)
		})
	}
	return eg.Wait()
}

func (b *Backend) listener(ctx context.Context, function string) backend.DispatchListener {
	var factory experimental.LoweringListenerFactory
	if f, ok := ctx.Value(experimental.LoweringListenerFactoryKey{}).(experimental.LoweringListenerFactory); ok {
		factory = f
	}
	if features.Enabled(features.Trace) {
		factory = experimental.MultiLoweringListenerFactory(factory, traceFactory)
	}
	if factory == nil {
		return nil
	}
	if l := factory.NewLoweringListener(function); l != nil {
		return l
	}
	return nil
}

// traceFactory prints every replacement to stdout when the trace feature is enabled.
var traceFactory = experimental.LoweringListenerFactoryFunc(func(function string) experimental.LoweringListener {
	return &tracer{w: bufio.NewWriter(os.Stdout), function: function}
})

type tracer struct {
	w        *bufio.Writer
	function string
}

func (t *tracer) BeforeLower(n *ir.Node) {
	t.w.WriteString(t.function) //nolint
	t.w.WriteString(": ")       //nolint
	logging.WriteBefore(t.w, n)
	t.w.Flush() //nolint
}

func (t *tracer) AfterLower(n *ir.Node, replacement []ir.Value) {
	t.w.WriteString(t.function) //nolint
	t.w.WriteString(": ")       //nolint
	logging.WriteAfter(t.w, n, replacement)
	t.w.Flush() //nolint
}
