package crate

import (
	"iter"
	"slices"
	"unsafe"
)

// Holder is implemented by builders and bundles whose buffered components can
// be inspected with Has and Get.
type Holder interface {
	lookup(id ComponentID) (unsafe.Pointer, bool)
}

// Has reports whether h holds a component of type T.
func Has[T any](h Holder) bool {
	_, ok := h.lookup(TypeOf[T]().id)
	return ok
}

// Get returns the buffered component of type T.
//
// The pointer aliases the holder's region. It stays valid until the next
// insert of a new component type, Clear, or consumption of the bundle.
func Get[T any](h Holder) (*T, bool) {
	ptr, ok := h.lookup(TypeOf[T]().id)
	if !ok {
		return nil, false
	}
	return (*T)(ptr), true
}

// slot records where one component lives in a directory's store.
type slot[M any] struct {
	info   *TypeInfo
	offset uintptr
	meta   M
}

// directory is the state shared by both builder kinds: the packed store, the
// slots laid out in it and an index from ComponentID to slot position.
// Slot offsets are never turned into long-lived pointers since any insert may
// relocate the store.
type directory[M any] struct {
	store   rawStore
	cursor  uintptr
	slots   []slot[M]
	ids     []ComponentID
	indices map[ComponentID]int
}

// insert writes the value at src into the directory. A component type that is
// already present is dropped and overwritten in place, keeping its slot and
// metadata; otherwise a new slot is appended at the next aligned offset.
func (d *directory[M]) insert(src unsafe.Pointer, info *TypeInfo, meta M) {
	if i, ok := d.indices[info.id]; ok {
		existing := d.slots[i]
		dst := d.store.at(existing.offset, existing.info.size)
		existing.info.drop(dst)
		existing.info.move(dst, src)
		return
	}

	offset := alignUp(d.cursor, info.align)
	end := offset + info.size
	if !d.store.fits(offset, info) {
		d.store.ensureCapacity(end, info.align, d.residents(), resident{offset: offset, info: info})
	}
	info.move(d.store.at(offset, info.size), src)

	if d.indices == nil {
		d.indices = make(map[ComponentID]int)
	}
	d.indices[info.id] = len(d.slots)
	d.slots = append(d.slots, slot[M]{info: info, offset: offset, meta: meta})
	// Zero-sized values occupy no bytes and leave the cursor alone.
	if info.size > 0 {
		d.cursor = end
	}
}

func (d *directory[M]) residents() []resident {
	live := make([]resident, len(d.slots), len(d.slots)+1)
	for i, s := range d.slots {
		live[i] = resident{offset: s.offset, info: s.info}
	}
	return live
}

func (d *directory[M]) lookup(id ComponentID) (unsafe.Pointer, bool) {
	i, ok := d.indices[id]
	if !ok {
		return nil, false
	}
	s := d.slots[i]
	return d.store.at(s.offset, s.info.size), true
}

func (d *directory[M]) addr(s slot[M]) unsafe.Pointer {
	return d.store.at(s.offset, s.info.size)
}

// sortByID orders slots by ComponentID, re-indexes them and snapshots the
// sorted ids.
func (d *directory[M]) sortByID() {
	slices.SortFunc(d.slots, func(a, b slot[M]) int {
		return a.info.Compare(b.info)
	})
	d.ids = d.ids[:0]
	for i, s := range d.slots {
		d.indices[s.info.id] = i
		d.ids = append(d.ids, s.info.id)
	}
}

func (d *directory[M]) typeInfos() []*TypeInfo {
	infos := make([]*TypeInfo, len(d.slots))
	for i, s := range d.slots {
		infos[i] = s.info
	}
	return infos
}

// clear drops every buffered value and empties the directory. The store keeps
// its capacity.
func (d *directory[M]) clear() {
	for _, s := range d.slots {
		s.info.drop(d.addr(s))
	}
	d.reset()
}

// reset empties the directory without touching the values in the store.
func (d *directory[M]) reset() {
	clear(d.slots)
	d.slots = d.slots[:0]
	d.ids = d.ids[:0]
	clear(d.indices)
	d.cursor = 0
}

func (d *directory[M]) componentTypes() iter.Seq[ComponentID] {
	return func(yield func(ComponentID) bool) {
		for _, s := range d.slots {
			if !yield(s.info.id) {
				return
			}
		}
	}
}
