package crate

import (
	"cmp"
	"fmt"
	"math/bits"
	"reflect"
	"slices"
	"strconv"
	"unsafe"

	"go.uber.org/zap"
)

// MinStoreCapacity is the smallest region a builder allocates.
const MinStoreCapacity = 64

var (
	byteType = reflect.TypeFor[byte]()

	// Zero-sized components resolve here instead of into the region.
	emptyRegion uint64
)

// rawStore is a single growable region holding packed component values.
//
// The region is allocated as a struct whose fields sit at the offsets the
// directory assigned, so the collector can trace pointers held by resident
// values. Slack past the last field is plain bytes; a value with pointers is
// never written into slack, the region is re-laid out first.
//
// Each pointer-holding value that lands in slack therefore costs one
// relocation of the whole region, O(n) in the bytes already buffered, even
// when the capacity does not change. The layout survives a clear, so a
// builder refilled with the same component shape relocates only on its first
// fill. reflect.StructOf caches identical layouts across builders.
type rawStore struct {
	base     unsafe.Pointer
	layout   reflect.Type
	fields   []resident
	capacity uintptr
	align    uintptr
}

// resident is a value living in (or about to be written to) the store.
type resident struct {
	offset uintptr
	info   *TypeInfo
}

func (s *rawStore) at(offset, size uintptr) unsafe.Pointer {
	if s.base == nil || size == 0 {
		return unsafe.Pointer(&emptyRegion)
	}
	return unsafe.Add(s.base, offset)
}

// fits reports whether a value of info can be written at offset without
// relocating the region. Bytes typed as pointers by the current layout only
// ever receive a value of the field's own type.
func (s *rawStore) fits(offset uintptr, info *TypeInfo) bool {
	if info.size == 0 {
		return true
	}
	end := offset + info.size
	if end > s.capacity || info.align > s.align {
		return false
	}
	for _, f := range s.fields {
		if f.offset >= end {
			break
		}
		if f.offset+f.info.size <= offset {
			continue
		}
		if f.offset == offset && f.info == info {
			return true
		}
		if f.info.pointers {
			return false
		}
	}
	return !info.pointers
}

// ensureCapacity relocates the region so that incoming fits, growing it to the
// next power of two (at least MinStoreCapacity) when minSize or align exceed
// what is provisioned. Live values are moved to the new region before the old
// one is released.
func (s *rawStore) ensureCapacity(minSize, align uintptr, live []resident, incoming resident) {
	size := s.capacity
	if minSize > s.capacity || align > s.align {
		size = max(nextPowerOfTwo(minSize), MinStoreCapacity)
	}
	align = max(s.align, align)

	layout, fields := layoutOf(size, append(slices.Clone(live), incoming))
	base := reflect.New(layout).UnsafePointer()
	for _, r := range live {
		if r.info.size == 0 {
			continue
		}
		r.info.move(unsafe.Add(base, r.offset), s.at(r.offset, r.info.size))
	}

	grew := layout.Size() != s.capacity
	s.base = base
	s.layout = layout
	s.fields = fields
	s.capacity = layout.Size()
	s.align = align

	if ce := logger().Check(zap.DebugLevel, "relocated component store"); ce != nil {
		ce.Write(
			zap.Bool("grew", grew),
			zap.Uintptr("capacity", s.capacity),
			zap.Uintptr("align", s.align),
			zap.Int("residents", len(live)),
		)
	}
}

// duplicate returns an empty region with the same layout and capacity.
func (s *rawStore) duplicate() rawStore {
	if s.layout == nil {
		return rawStore{align: s.align}
	}
	return rawStore{
		base:     reflect.New(s.layout).UnsafePointer(),
		layout:   s.layout,
		fields:   s.fields,
		capacity: s.capacity,
		align:    s.align,
	}
}

// layoutOf builds the struct type backing a region of size bytes, with one
// field per sized resident in offset order. It returns the fields it laid out.
func layoutOf(size uintptr, residents []resident) (reflect.Type, []resident) {
	residents = slices.DeleteFunc(residents, func(r resident) bool {
		return r.info.size == 0
	})
	slices.SortFunc(residents, func(a, b resident) int {
		return cmp.Compare(a.offset, b.offset)
	})

	fields := make([]reflect.StructField, 0, len(residents)+1)
	var end uintptr
	for i, r := range residents {
		fields = append(fields, reflect.StructField{
			Name: "F" + strconv.Itoa(i),
			Type: r.info.typ,
		})
		end = max(end, r.offset+r.info.size)
	}
	if size > end {
		fields = append(fields, reflect.StructField{
			Name: "Slack",
			Type: reflect.ArrayOf(int(size-end), byteType),
		})
	}

	layout := reflect.StructOf(fields)
	for i, r := range residents {
		if got := layout.Field(i).Offset; got != r.offset {
			panic(fmt.Sprintf("crate: %v laid out at offset %d, want %d", r.info, got, r.offset))
		}
	}
	return layout, residents
}

func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

func nextPowerOfTwo(n uintptr) uintptr {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
