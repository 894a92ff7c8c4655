package crate

import (
	"cmp"
	"fmt"
	"reflect"
	"unsafe"

	"github.com/TheBitDrifter/table"
)

// ComponentID is the runtime identifier assigned to a component type.
// IDs are handed out in registration order and never reused.
type ComponentID uint32

// Dropper is implemented by components that own resources needing explicit
// cleanup. Drop runs exactly once for every value a builder destroys.
type Dropper interface {
	Drop()
}

// Cloner is implemented by components that need a deep copy when a
// ReusableBundle is consumed. Components without it are copied by value.
type Cloner[T any] interface {
	Clone() T
}

// TypeInfo describes a component type: its identity, memory layout and the
// type-erased operations the builders use to move, destroy and place values
// of that type. TypeInfo values are canonical; obtain them with TypeOf.
type TypeInfo struct {
	id       ComponentID
	typ      reflect.Type
	size     uintptr
	align    uintptr
	pointers bool
	comp     Component

	move   func(dst, src unsafe.Pointer)
	drop   func(ptr unsafe.Pointer)
	forget func(ptr unsafe.Pointer)
	place  func(src unsafe.Pointer, row int, tbl table.Table)
}

func newTypeInfo[T any](id ComponentID, typ reflect.Type) *TypeInfo {
	var zero T
	elem := table.FactoryNewElementType[T]()
	accessor := table.FactoryNewAccessor[T](elem)
	return &TypeInfo{
		id:       id,
		typ:      typ,
		size:     unsafe.Sizeof(zero),
		align:    unsafe.Alignof(zero),
		pointers: hasPointers(typ),
		comp:     elem,
		move: func(dst, src unsafe.Pointer) {
			*(*T)(dst) = *(*T)(src)
		},
		drop: func(ptr unsafe.Pointer) {
			if d, ok := any((*T)(ptr)).(Dropper); ok {
				d.Drop()
			}
			*(*T)(ptr) = zero
		},
		forget: func(ptr unsafe.Pointer) {
			*(*T)(ptr) = zero
		},
		place: func(src unsafe.Pointer, row int, tbl table.Table) {
			*accessor.Get(row, tbl) = *(*T)(src)
		},
	}
}

func (ti *TypeInfo) ID() ComponentID {
	return ti.id
}

func (ti *TypeInfo) Type() reflect.Type {
	return ti.typ
}

func (ti *TypeInfo) Size() uintptr {
	return ti.size
}

func (ti *TypeInfo) Align() uintptr {
	return ti.align
}

// HasPointers reports whether values of the type hold references the garbage
// collector must trace.
func (ti *TypeInfo) HasPointers() bool {
	return ti.pointers
}

// Component returns the table element type backing this component type.
func (ti *TypeInfo) Component() Component {
	return ti.comp
}

// Compare orders descriptors by ComponentID.
func (ti *TypeInfo) Compare(other *TypeInfo) int {
	return cmp.Compare(ti.id, other.id)
}

// Drop destroys the value of this type stored at ptr.
func (ti *TypeInfo) Drop(ptr unsafe.Pointer) {
	ti.drop(ptr)
}

func (ti *TypeInfo) String() string {
	return fmt.Sprintf("%v#%d", ti.typ, ti.id)
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.Slice, reflect.String:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
