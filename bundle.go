package crate

import (
	"slices"
	"unsafe"
)

var (
	_ DynamicBundle = &BuiltBundle{}
	_ DynamicBundle = &ReusableBundle{}
	_ DynamicBundle = Items{}
)

// BuiltBundle is the output of Builder.Build. It is consumed exactly once,
// either by Put, which moves the components out, or by Release, which drops
// them. Callers that may not reach Put should defer Release.
type BuiltBundle struct {
	builder *Builder
}

// IDs returns the sorted ids of the bundle's components.
func (bb *BuiltBundle) IDs() []ComponentID {
	if bb.builder == nil {
		return nil
	}
	return bb.builder.dir.ids
}

// TypeInfos returns the descriptors of the bundle's components, sorted by id.
func (bb *BuiltBundle) TypeInfos() []*TypeInfo {
	if bb.builder == nil {
		return nil
	}
	return bb.builder.dir.typeInfos()
}

// Put hands every component to sink and drains the builder. Ownership passes
// to sink: the value at ptr is not dropped, and sink must copy it before
// returning since the builder reuses the memory.
func (bb *BuiltBundle) Put(sink func(ptr unsafe.Pointer, info *TypeInfo)) {
	b := bb.detach()
	if b == nil {
		return
	}
	for _, s := range b.dir.slots {
		ptr := b.dir.addr(s)
		sink(ptr, s.info)
		s.info.forget(ptr)
	}
	b.dir.reset()
}

// Release drops the components of a bundle that was never Put. It is a no-op
// once the bundle has been consumed.
func (bb *BuiltBundle) Release() {
	if b := bb.detach(); b != nil {
		b.dir.clear()
	}
}

func (bb *BuiltBundle) lookup(id ComponentID) (unsafe.Pointer, bool) {
	if bb.builder == nil {
		return nil, false
	}
	return bb.builder.dir.lookup(id)
}

func (bb *BuiltBundle) detach() *Builder {
	b := bb.builder
	if b == nil {
		return nil
	}
	bb.builder = nil
	b.active = nil
	return b
}

// Item is a single type-erased component value.
type Item struct {
	info *TypeInfo
	ptr  unsafe.Pointer
}

// Of wraps component as an Item.
func Of[T any](component T) Item {
	return Item{info: TypeOf[T](), ptr: unsafe.Pointer(&component)}
}

func (it Item) TypeInfo() *TypeInfo {
	return it.info
}

// Items is a DynamicBundle over a fixed list of values. When a type occurs
// more than once the last value wins. Put hands each value out once; an
// item that was already put is skipped by IDs, TypeInfos and Put.
type Items []Item

func (items Items) IDs() []ComponentID {
	ids := make([]ComponentID, 0, len(items))
	for _, it := range items {
		if it.ptr != nil {
			ids = append(ids, it.info.id)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

func (items Items) TypeInfos() []*TypeInfo {
	infos := make([]*TypeInfo, 0, len(items))
	for _, it := range items {
		if it.ptr != nil {
			infos = append(infos, it.info)
		}
	}
	slices.SortFunc(infos, (*TypeInfo).Compare)
	return slices.CompactFunc(infos, func(a, b *TypeInfo) bool {
		return a == b
	})
}

func (items Items) Put(sink func(ptr unsafe.Pointer, info *TypeInfo)) {
	for i, it := range items {
		if it.ptr == nil {
			continue
		}
		items[i].ptr = nil
		sink(it.ptr, it.info)
	}
}
