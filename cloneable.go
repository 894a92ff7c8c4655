package crate

import (
	"iter"
	"maps"
	"slices"
	"unsafe"
)

var (
	_ Holder = &CloneableBuilder{}
	_ Holder = &ReusableBundle{}
)

// cloneFn duplicates the value at src and hands the duplicate to sink. It is
// created where the concrete type is known and erased afterwards.
type cloneFn func(src unsafe.Pointer, sink func(ptr unsafe.Pointer, info *TypeInfo))

func cloneThunk[T any](info *TypeInfo) cloneFn {
	return func(src unsafe.Pointer, sink func(unsafe.Pointer, *TypeInfo)) {
		dup := cloneValue(*(*T)(src))
		sink(unsafe.Pointer(&dup), info)
	}
}

func cloneValue[T any](v T) T {
	if c, ok := any(v).(Cloner[T]); ok {
		return c.Clone()
	}
	if c, ok := any(&v).(Cloner[T]); ok {
		return c.Clone()
	}
	return v
}

// CloneableBuilder assembles components that can be duplicated, producing a
// ReusableBundle that can be spawned any number of times.
//
// A CloneableBuilder must not be mutated from more than one goroutine at a
// time.
type CloneableBuilder struct {
	dir directory[cloneFn]
}

func newCloneableBuilder() *CloneableBuilder {
	return &CloneableBuilder{}
}

// AddCloneable buffers component in b, replacing a component of the same
// type. Consumers receive copies made with Clone when T implements Cloner[T]
// and plain value copies otherwise.
func AddCloneable[T any](b *CloneableBuilder, component T) *CloneableBuilder {
	info := TypeOf[T]()
	b.dir.insert(unsafe.Pointer(&component), info, cloneThunk[T](info))
	return b
}

// Build moves the buffered components into a ReusableBundle. b is left empty
// and can be used again.
func (b *CloneableBuilder) Build() *ReusableBundle {
	rb := &ReusableBundle{dir: b.dir}
	b.dir = directory[cloneFn]{}
	rb.dir.sortByID()
	return rb
}

// Clone returns an independent builder holding a duplicate of every buffered
// component, laid out at the same offsets in a region of the same capacity.
func (b *CloneableBuilder) Clone() *CloneableBuilder {
	return &CloneableBuilder{dir: duplicate(&b.dir)}
}

// Contains reports whether a component described by info is buffered.
func (b *CloneableBuilder) Contains(info *TypeInfo) bool {
	_, ok := b.dir.indices[info.id]
	return ok
}

func (b *CloneableBuilder) Len() int {
	return len(b.dir.slots)
}

// ComponentTypes enumerates the ids of the buffered components.
func (b *CloneableBuilder) ComponentTypes() iter.Seq[ComponentID] {
	return b.dir.componentTypes()
}

// Clear drops every buffered component.
func (b *CloneableBuilder) Clear() {
	b.dir.clear()
}

// Close drops every buffered component.
func (b *CloneableBuilder) Close() error {
	b.dir.clear()
	return nil
}

func (b *CloneableBuilder) lookup(id ComponentID) (unsafe.Pointer, bool) {
	return b.dir.lookup(id)
}

// StoreCapacity reports the size in bytes of the builder's region.
func (b *CloneableBuilder) StoreCapacity() uintptr {
	return b.dir.store.capacity
}

// ReusableBundle is a collection of cloneable components. Put hands out
// duplicates and leaves the originals untouched, so the bundle can be
// consumed any number of times.
type ReusableBundle struct {
	dir directory[cloneFn]
}

func (rb *ReusableBundle) IDs() []ComponentID {
	return rb.dir.ids
}

func (rb *ReusableBundle) TypeInfos() []*TypeInfo {
	return rb.dir.typeInfos()
}

// Put hands a fresh duplicate of every component to sink. sink owns the
// duplicates and must copy them before returning.
func (rb *ReusableBundle) Put(sink func(ptr unsafe.Pointer, info *TypeInfo)) {
	for _, s := range rb.dir.slots {
		s.meta(rb.dir.addr(s), sink)
	}
}

// Clone returns an independent copy of the bundle.
func (rb *ReusableBundle) Clone() *ReusableBundle {
	dup := &ReusableBundle{dir: duplicate(&rb.dir)}
	dup.dir.sortByID()
	return dup
}

// Builder converts the bundle back into a CloneableBuilder. rb is left empty.
func (rb *ReusableBundle) Builder() *CloneableBuilder {
	b := &CloneableBuilder{dir: rb.dir}
	b.dir.ids = b.dir.ids[:0]
	rb.dir = directory[cloneFn]{}
	return b
}

func (rb *ReusableBundle) Len() int {
	return len(rb.dir.slots)
}

// Close drops the bundle's components.
func (rb *ReusableBundle) Close() error {
	rb.dir.clear()
	return nil
}

func (rb *ReusableBundle) lookup(id ComponentID) (unsafe.Pointer, bool) {
	return rb.dir.lookup(id)
}

// duplicate deep copies d: every slot is cloned through its thunk into the
// same offset of a fresh region. Bytes are never shared between the copies.
func duplicate(d *directory[cloneFn]) directory[cloneFn] {
	dup := directory[cloneFn]{
		store:   d.store.duplicate(),
		cursor:  d.cursor,
		slots:   slices.Clone(d.slots),
		indices: maps.Clone(d.indices),
	}
	for _, s := range d.slots {
		dst := dup.addr(s)
		s.meta(d.addr(s), func(ptr unsafe.Pointer, info *TypeInfo) {
			info.move(dst, ptr)
		})
	}
	return dup
}
