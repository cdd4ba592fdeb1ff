// Package kernel implements the numeric kernel used to composite glyph
// atlases.
//
// All kernel state lives in a single linear byte buffer ([Memory]) that
// grows in 64 KiB pages. Allocations are made by a bump allocator ([Heap])
// and addressed by byte offset ([Ptr]). Scoped scratch memory uses
// [Heap.Save] and [Heap.Restore], which must be strictly nested.
//
// Growing the memory replaces its backing slice. Any slice or image view
// obtained before an allocation may be stale afterwards; re-derive views
// from addresses after every call that can allocate.
//
// The kernel is not reentrant. A Heap must not be used by more than one
// goroutine at a time.
package kernel
