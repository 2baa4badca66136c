package decode

// Instruction is the Go rendition of the C++ template allocator parameter:
// an F-bounded generic contract every decoded-instruction type must satisfy.
// The core requires only that a user type be constructible from (OpInfo,
// Annotation), copy-constructible via Clone, and expose Mnemonic/UID/Morph.
//
// T must instantiate Instruction[T] itself — Decoder[T] and every other
// generic type in this package is threaded through that same T.
type Instruction[Self any] interface {
	Mnemonic() string
	UID() UID
	// Morph mutates the receiver in place to adopt a new OpInfo/Annotation,
	// as performed by Context.Morph.
	Morph(info OpInfo, anno Annotation)
	// Clone returns an independent copy — mandatory on every cache hit, so
	// a cached pristine prototype is never handed out by reference.
	Clone() Self
}

// Allocator constructs a T from a decoded OpInfo and its annotation. The
// bundled riscv package supplies one; callers may supply their own.
type Allocator[T Instruction[T]] func(info OpInfo, anno Annotation) T
