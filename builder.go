package crate

import (
	"iter"
	"unsafe"
)

var _ Holder = &Builder{}

// Builder incrementally assembles a bundle of components whose types are only
// known at runtime. Reuse a builder rather than creating one per entity: its
// region keeps its capacity across builds.
//
// A Builder must not be mutated from more than one goroutine at a time.
type Builder struct {
	dir    directory[struct{}]
	active *BuiltBundle
}

func newBuilder() *Builder {
	return &Builder{}
}

// Add buffers component in b. A component of the same type already in b is
// dropped and replaced.
func Add[T any](b *Builder, component T) *Builder {
	b.discard()
	b.dir.insert(unsafe.Pointer(&component), TypeOf[T](), struct{}{})
	return b
}

// AddBundle takes every component out of bundle and buffers it in b,
// replacing components of the same type. bundle must not be one built from b.
func (b *Builder) AddBundle(bundle DynamicBundle) *Builder {
	b.discard()
	bundle.Put(func(ptr unsafe.Pointer, info *TypeInfo) {
		b.dir.insert(ptr, info, struct{}{})
	})
	return b
}

// Build freezes the buffered components into a bundle ordered by
// ComponentID. Consuming or releasing the bundle empties b for reuse.
//
// A bundle that is still pending when b is built again or receives another
// component counts as discarded: it is released, dropping its components,
// and b starts over empty.
func (b *Builder) Build() *BuiltBundle {
	b.discard()
	b.dir.sortByID()
	b.active = &BuiltBundle{builder: b}
	return b.active
}

// discard releases a bundle from an earlier Build that was never consumed.
func (b *Builder) discard() {
	if b.active != nil {
		b.active.Release()
	}
}

// Contains reports whether a component described by info is buffered.
func (b *Builder) Contains(info *TypeInfo) bool {
	_, ok := b.dir.indices[info.id]
	return ok
}

func (b *Builder) Len() int {
	return len(b.dir.slots)
}

// ComponentTypes enumerates the ids of the buffered components.
func (b *Builder) ComponentTypes() iter.Seq[ComponentID] {
	return b.dir.componentTypes()
}

// Clear drops every buffered component. The builder is emptied implicitly
// when its bundle is consumed, so this is rarely needed.
func (b *Builder) Clear() {
	if b.active != nil {
		b.active.builder = nil
		b.active = nil
	}
	b.dir.clear()
}

// Close drops every buffered component. A builder that is abandoned must be
// closed so that Dropper components are not leaked.
func (b *Builder) Close() error {
	b.Clear()
	return nil
}

func (b *Builder) lookup(id ComponentID) (unsafe.Pointer, bool) {
	return b.dir.lookup(id)
}

// StoreCapacity reports the size in bytes of the builder's region.
func (b *Builder) StoreCapacity() uintptr {
	return b.dir.store.capacity
}
