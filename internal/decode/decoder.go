package decode

// Decoder is the top-level facade a caller constructs and holds: it wraps a
// ContextRegistry plus the single active context, mirroring the original
// Mavis<InstType, AnnotationType, ...> facade class.
type Decoder[T Instruction[T]] struct {
	registry *ContextRegistry[T]
}

// NewDecoder returns a Decoder with no contexts yet created. Call
// MakeContext at least once before decoding.
func NewDecoder[T Instruction[T]](forms *FormRegistry, allocator Allocator[T]) *Decoder[T] {
	return &Decoder[T]{registry: NewContextRegistry[T](forms, allocator)}
}

// MakeContext builds and registers a new context, making it active if it is
// the first one created.
func (d *Decoder[T]) MakeContext(name string, cfg ContextConfig) (*Context[T], error) {
	return d.registry.MakeContext(name, cfg)
}

// SwitchContext changes the active context.
func (d *Decoder[T]) SwitchContext(name string) error {
	return d.registry.SwitchContext(name)
}

// HasContext reports whether name is registered.
func (d *Decoder[T]) HasContext(name string) bool {
	return d.registry.HasContext(name)
}

func (d *Decoder[T]) active() (*Context[T], error) {
	ctx := d.registry.Active()
	if ctx == nil {
		return nil, &UnknownContextError{Name: "<none>"}
	}
	return ctx, nil
}

// GetInfo resolves opcode in the active context.
func (d *Decoder[T]) GetInfo(opcode uint64) (OpInfo, Annotation, error) {
	ctx, err := d.active()
	if err != nil {
		return OpInfo{}, nil, err
	}
	return ctx.GetInfo(opcode)
}

// MakeInst decodes opcode in the active context.
func (d *Decoder[T]) MakeInst(opcode uint64) (T, error) {
	var zero T
	ctx, err := d.active()
	if err != nil {
		return zero, err
	}
	return ctx.MakeInst(opcode)
}

// MakeInstFromTrace decodes a trace record in the active context.
func (d *Decoder[T]) MakeInstFromTrace(trace TraceInput) (T, error) {
	var zero T
	ctx, err := d.active()
	if err != nil {
		return zero, err
	}
	return ctx.MakeInstFromTrace(trace)
}

// MakeInstDirectly constructs a decoded instruction without a backing
// opcode word, in the active context.
func (d *Decoder[T]) MakeInstDirectly(mnemonic string, extractor Extractor) (T, error) {
	var zero T
	ctx, err := d.active()
	if err != nil {
		return zero, err
	}
	return ctx.MakeInstDirectly(mnemonic, extractor)
}

// MakePseudoInst constructs a decoded pseudo-instruction in the active
// context.
func (d *Decoder[T]) MakePseudoInst(mnemonic string, extractor Extractor) (T, error) {
	var zero T
	ctx, err := d.active()
	if err != nil {
		return zero, err
	}
	return ctx.MakePseudoInst(mnemonic, extractor)
}

// MorphInst has inst adopt a new mnemonic's shape in the active context.
func (d *Decoder[T]) MorphInst(inst T, mnemonic string, extractor Extractor) error {
	ctx, err := d.active()
	if err != nil {
		return err
	}
	return ctx.Morph(inst, mnemonic, extractor)
}

// FlushCaches flushes every registered context's caches.
func (d *Decoder[T]) FlushCaches() {
	d.registry.FlushAll()
}
