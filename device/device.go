package device

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/kernel-descriptor/descriptor"
	"github.com/wippyai/kernel-descriptor/errors"
)

// Config holds configuration for device creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per kernel instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	MemoryLimitPages uint32

	// CloseOnContextDone aborts a running kernel when its call context is
	// cancelled or times out.
	CloseOnContextDone bool
}

// Device runs kernels compiled to WebAssembly, each call in its own
// instance with private linear memory.
type Device struct {
	runtime wazero.Runtime
	kernels map[string]*Kernel
	mu      sync.RWMutex
	closed  bool
}

// New creates a device with the given configuration. cfg may be nil.
func New(ctx context.Context, cfg *Config) (*Device, error) {
	runtimeCfg := wazero.NewRuntimeConfig()

	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		if cfg.CloseOnContextDone {
			runtimeCfg = runtimeCfg.WithCloseOnContextDone(true)
		}
	}

	return &Device{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		kernels: make(map[string]*Kernel),
	}, nil
}

// Close releases all compiled kernels.
func (d *Device) Close(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.kernels = map[string]*Kernel{}
	return d.runtime.Close(ctx)
}

// LoadKernel compiles a kernel module and registers it under name. The
// module must export MemoryExport and EntryPoint with the entry signature.
func (d *Device) LoadKernel(ctx context.Context, name string, wasm []byte) (*Kernel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, errors.Unsupported(errors.PhaseLoad, "device is closed")
	}
	if _, exists := d.kernels[name]; exists {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Path("name").
			Value(name).
			Detail("kernel %q already loaded", name).
			Build()
	}

	compiled, err := d.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile kernel "+name, err)
	}

	if _, ok := compiled.ExportedMemories()[MemoryExport]; !ok {
		_ = compiled.Close(ctx)
		return nil, errors.NotFound(errors.PhaseLoad, "memory export", MemoryExport)
	}
	def, ok := compiled.ExportedFunctions()[EntryPoint]
	if !ok {
		_ = compiled.Close(ctx)
		return nil, errors.NotFound(errors.PhaseLoad, "function export", EntryPoint)
	}
	if !signatureMatches(def) {
		_ = compiled.Close(ctx)
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidData).
			Path(EntryPoint).
			Detail("signature %s, want %s",
				signature(def.ParamTypes(), def.ResultTypes()),
				signature(entryParams, entryResults)).
			Build()
	}

	k := &Kernel{
		device:   d,
		compiled: compiled,
		name:     name,
	}
	d.kernels[name] = k

	Logger().Debug("kernel loaded",
		zap.String("kernel", name),
		zap.Int("wasm_bytes", len(wasm)))
	return k, nil
}

// Kernel returns a previously loaded kernel.
func (d *Device) Kernel(name string) (*Kernel, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	k, ok := d.kernels[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseDispatch, "kernel", name)
	}
	return k, nil
}

// Kernels returns the names of all loaded kernels in sorted order.
func (d *Device) Kernels() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.kernels))
	for name := range d.kernels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Kernel is a compiled kernel module. It is safe for concurrent use.
type Kernel struct {
	device   *Device
	compiled wazero.CompiledModule
	name     string
}

// Name returns the name the kernel was loaded under.
func (k *Kernel) Name() string {
	return k.name
}

// Result is the outcome of one kernel invocation.
type Result struct {
	// CallID identifies the invocation in logs.
	CallID string
	// Data is the data buffer as the kernel left it.
	Data []byte
	// Status is the kernel entry point's return value.
	Status int32
}

// Invoke runs the kernel once. desc is delivered to the guest byte for
// byte and is not inspected; data is copied in before the call and back
// out after it. Every call gets a fresh module instance, so concurrent
// calls never share descriptor or data memory.
func (k *Kernel) Invoke(ctx context.Context, desc, data []byte) (*Result, error) {
	callID := uuid.Must(uuid.NewV7()).String()
	log := Logger().With(
		zap.String("kernel", k.name),
		zap.String("call_id", callID))

	mod, err := k.device.runtime.InstantiateModule(ctx, k.compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return nil, errors.Instantiation(k.name, err)
	}
	defer func() {
		if closeErr := mod.Close(ctx); closeErr != nil {
			log.Warn("close kernel instance", zap.Error(closeErr))
		}
	}()

	mem := NewWazeroMemory(mod.ExportedMemory(MemoryExport))
	descPtr := uint32(DescOffset)
	dataPtr := alignTo(descPtr+uint32(len(desc)), DataAlign)
	if err := mem.ensure(uint64(dataPtr) + uint64(len(data))); err != nil {
		return nil, err
	}
	if err := mem.Write(descPtr, desc); err != nil {
		return nil, err
	}
	if err := mem.Write(dataPtr, data); err != nil {
		return nil, err
	}

	log.Debug("invoking kernel",
		zap.Int("desc_len", len(desc)),
		zap.Int("data_len", len(data)))

	results, err := mod.ExportedFunction(EntryPoint).Call(ctx,
		api.EncodeU32(descPtr), api.EncodeU32(uint32(len(desc))),
		api.EncodeU32(dataPtr), api.EncodeU32(uint32(len(data))))
	if err != nil {
		log.Warn("kernel trapped", zap.Error(err))
		return nil, errors.Trap(k.name, err)
	}

	out, err := mem.Read(dataPtr, uint32(len(data)))
	if err != nil {
		return nil, err
	}

	res := &Result{
		CallID: callID,
		Data:   append([]byte(nil), out...),
		Status: api.DecodeI32(results[0]),
	}
	log.Debug("kernel returned", zap.Int32("status", res.Status))
	return res, nil
}

// Dispatch validates and encodes d, then invokes k with it. This is the
// producer path: a descriptor that fails validation never reaches the kernel.
func Dispatch[T descriptor.Float](ctx context.Context, k *Kernel, d descriptor.Descriptor[T], data []byte) (*Result, error) {
	desc, err := d.MarshalBinary()
	if err != nil {
		return nil, err
	}
	Logger().Debug("dispatch",
		zap.String("kernel", k.name),
		zap.String("precision", descriptor.Precision[T]()),
		zap.Int64("n_particle", d.NParticle))
	return k.Invoke(ctx, desc, data)
}
