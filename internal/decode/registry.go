package decode

import "github.com/keurnel/rvdecode/internal/diag"

// ContextConfig bundles everything MakeContext needs to build a fresh
// context: the JSON files to load, the UID reservations, annotation
// overrides, and the tag-based inclusion/exclusion filter.
type ContextConfig struct {
	ISAJSONs      []string
	PseudoJSONs   []string
	AnnoJSONs     []string
	UIDMap        map[string]UID
	AnnoOverrides []AnnotationOverride
	IncludeTags   []string
	ExcludeTags   []string
	Diag          *diag.Context
}

// ContextRegistry maps name -> context. Creating a context with a name
// already present raises ContextAlreadyExistsError; switching to an unknown
// name raises UnknownContextError.
type ContextRegistry[T Instruction[T]] struct {
	forms     *FormRegistry
	allocator Allocator[T]
	contexts  map[string]*Context[T]
	active    string
}

// NewContextRegistry returns an empty registry sharing one FormRegistry
// (built-in forms only change across ISA variants by which forms are
// populated, not their field layout) and one Allocator.
func NewContextRegistry[T Instruction[T]](forms *FormRegistry, allocator Allocator[T]) *ContextRegistry[T] {
	return &ContextRegistry[T]{
		forms:     forms,
		allocator: allocator,
		contexts:  make(map[string]*Context[T]),
	}
}

// MakeContext builds a fresh context from cfg and registers it under name.
func (r *ContextRegistry[T]) MakeContext(name string, cfg ContextConfig) (*Context[T], error) {
	if _, exists := r.contexts[name]; exists {
		return nil, &ContextAlreadyExistsError{Name: name}
	}
	builder := NewFactoryBuilder(r.forms, cfg.UIDMap, cfg.IncludeTags, cfg.ExcludeTags)
	builder.SetDiag(cfg.Diag)
	for _, path := range cfg.ISAJSONs {
		if err := builder.LoadISAFile(path); err != nil {
			return nil, err
		}
	}
	if err := builder.ResolveOverlays(); err != nil {
		return nil, err
	}
	for _, p := range cfg.AnnoJSONs {
		if err := LoadAnnotationFile(builder.Meta, p); err != nil {
			return nil, err
		}
	}
	for _, ov := range cfg.AnnoOverrides {
		if err := applyAnnotationOverride(builder.Meta, ov); err != nil {
			return nil, err
		}
	}
	pseudos := NewPseudoBuilder(builder.Meta)
	for _, path := range cfg.PseudoJSONs {
		if err := pseudos.LoadFile(path); err != nil {
			return nil, err
		}
	}
	root := builder.Finalize()
	ctx := NewContext[T](name, root, builder, pseudos, r.allocator)
	r.contexts[name] = ctx
	if r.active == "" {
		r.active = name
	}
	return ctx, nil
}

// SwitchContext sets the active context.
func (r *ContextRegistry[T]) SwitchContext(name string) error {
	if _, ok := r.contexts[name]; !ok {
		return &UnknownContextError{Name: name}
	}
	r.active = name
	return nil
}

// HasContext reports whether name is registered.
func (r *ContextRegistry[T]) HasContext(name string) bool {
	_, ok := r.contexts[name]
	return ok
}

// Active returns the currently active context, or nil if none has been
// created yet.
func (r *ContextRegistry[T]) Active() *Context[T] {
	return r.contexts[r.active]
}

// Get returns the named context and true, or nil and false.
func (r *ContextRegistry[T]) Get(name string) (*Context[T], bool) {
	c, ok := r.contexts[name]
	return c, ok
}

// FlushAll flushes every registered context's caches.
func (r *ContextRegistry[T]) FlushAll() {
	for _, ctx := range r.contexts {
		ctx.FlushCaches()
	}
}
