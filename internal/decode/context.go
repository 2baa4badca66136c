package decode

// cachedInfo is the info-cache's value type: the resolved OpInfo and
// annotation for a previously-seen opcode.
type cachedInfo struct {
	info OpInfo
	anno Annotation
}

// Context is a named tuple (root trie node, factory builder, pseudo builder,
// opcode->factory-info cache, opcode->prototype cache). Contexts are
// independent; creating one does not affect another. Forms, meta-data,
// factories, and the trie are built once and are thereafter immutable;
// only the two caches are mutable, and mutation is semantically invisible
// (pure memoization).
type Context[T Instruction[T]] struct {
	name      string
	root      trieNode
	builder   *FactoryBuilder
	pseudos   *PseudoBuilder
	allocator Allocator[T]

	infoCache  *Cache[cachedInfo]
	protoCache *Cache[T]
}

// NewContext assembles a Context from an already-finalized trie and
// builders. Used by ContextRegistry.MakeContext once JSON loading and
// overlay resolution have completed.
func NewContext[T Instruction[T]](name string, root trieNode, builder *FactoryBuilder, pseudos *PseudoBuilder, allocator Allocator[T]) *Context[T] {
	return &Context[T]{
		name:       name,
		root:       root,
		builder:    builder,
		pseudos:    pseudos,
		allocator:  allocator,
		infoCache:  NewCache[cachedInfo](),
		protoCache: NewCache[T](),
	}
}

// GetInfo resolves opcode to an OpInfo/Annotation pair, serviced from the
// info cache when possible.
func (c *Context[T]) GetInfo(opcode uint64) (OpInfo, Annotation, error) {
	if hit, ok := c.infoCache.Get(opcode); ok {
		return hit.info, hit.anno, nil
	}
	factory, err := c.root.getInfo(opcode)
	if err != nil {
		return OpInfo{}, nil, err
	}
	info, anno := factory.GetInfo(opcode)
	c.infoCache.Put(opcode, cachedInfo{info: info, anno: anno})
	return info, anno, nil
}

// MakeInst resolves opcode and returns a decoded instruction. The prototype
// cache holds one pristine instance per opcode; every call — hit or miss —
// returns an independent Clone, never the cached value itself, so a caller
// mutating its result can never corrupt the cache.
func (c *Context[T]) MakeInst(opcode uint64) (T, error) {
	var zero T
	if proto, ok := c.protoCache.Get(opcode); ok {
		return proto.Clone(), nil
	}
	info, anno, err := c.GetInfo(opcode)
	if err != nil {
		return zero, err
	}
	if info.IsIllop {
		return zero, &IllegalOpcodeError{Opcode: opcode, Mnemonic: info.Mnemonic}
	}
	proto := c.allocator(info, anno)
	c.protoCache.Put(opcode, proto)
	return proto.Clone(), nil
}

// MakeInstFromTrace decodes opcode first; if the decoded mnemonic disagrees
// with trace's, the trace's mnemonic is authoritative and a fresh factory
// for that mnemonic is used with an extractor wrapping the trace info.
func (c *Context[T]) MakeInstFromTrace(trace TraceInput) (T, error) {
	var zero T
	info, anno, err := c.GetInfo(trace.Opcode())
	if err == nil && info.Mnemonic == trace.Mnemonic() {
		return c.allocator(info, anno), nil
	}
	factory, ok := c.builder.Factory(trace.Mnemonic())
	if !ok {
		return zero, &UnknownMnemonicError{Mnemonic: trace.Mnemonic()}
	}
	tinfo, tanno := factory.GetInfoBypassCache(traceExtractor{trace: trace}, trace.Opcode())
	return c.allocator(tinfo, tanno), nil
}

// MakeInstDirectly constructs a decoded instruction from an explicit
// extractor (register-list, bitmask, store-shaped, dest-plus-stores) rather
// than an opcode word, bypassing every cache.
func (c *Context[T]) MakeInstDirectly(mnemonic string, extractor Extractor) (T, error) {
	var zero T
	factory, ok := c.builder.Factory(mnemonic)
	if !ok {
		return zero, &UnknownMnemonicError{Mnemonic: mnemonic}
	}
	info, anno := factory.GetInfoBypassCache(extractor, 0)
	return c.allocator(info, anno), nil
}

// MakePseudoInst constructs a decoded instruction from the pseudo-
// instruction registry, with no backing stencil.
func (c *Context[T]) MakePseudoInst(mnemonic string, extractor Extractor) (T, error) {
	var zero T
	info, anno, err := c.pseudos.MakeDirect(mnemonic, extractor)
	if err != nil {
		return zero, err
	}
	return c.allocator(info, anno), nil
}

// Morph has an already-allocated instruction adopt a new OpInfo/Annotation,
// located by the direct extractor's mnemonic, bypassing the cache. The
// opcode-to-prototype cache is not invalidated — it holds pristine forms
// keyed by the original opcode, unrelated to the morphed mnemonic.
func (c *Context[T]) Morph(inst T, mnemonic string, extractor Extractor) error {
	factory, ok := c.builder.Factory(mnemonic)
	if !ok {
		return &UnknownMnemonicError{Mnemonic: mnemonic}
	}
	info, anno := factory.GetInfoBypassCache(extractor, 0)
	inst.Morph(info, anno)
	return nil
}

// FlushCaches resets both caches and recursively drops any internal trie
// memoisation. Race-free only with respect to the calling goroutine.
func (c *Context[T]) FlushCaches() {
	c.infoCache.Flush()
	c.protoCache.Flush()
	c.root.flush()
}

// Name returns the context's registered name.
func (c *Context[T]) Name() string { return c.name }

// Builder returns the context's factory builder (spec.md §4.6 getBuilder).
func (c *Context[T]) Builder() *FactoryBuilder { return c.builder }

// PseudoBuilder returns the context's pseudo-instruction builder.
func (c *Context[T]) PseudoBuilder() *PseudoBuilder { return c.pseudos }

// Trie returns the context's root trie node (spec.md §4.6 getTrie).
func (c *Context[T]) Trie() trieNode { return c.root }
