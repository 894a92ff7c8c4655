package crate

import (
	"maps"
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// DefaultMaxComponentTypes bounds the number of distinct component types the
// registry accepts unless Config.SetMaxComponentTypes says otherwise.
const DefaultMaxComponentTypes = 1024

var registry = &typeRegistry{
	infos: &SimpleCache[reflect.Type, *TypeInfo]{
		itemIndices: make(map[reflect.Type]int),
		maxCapacity: DefaultMaxComponentTypes,
	},
}

// typeRegistry maps Go types to their canonical TypeInfo. The index a type
// is registered at is its ComponentID.
//
// Lookups read immutable snapshots and never lock. Registration is serialized
// by mu and publishes fresh snapshots.
type typeRegistry struct {
	mu    sync.Mutex
	infos *SimpleCache[reflect.Type, *TypeInfo]

	byType atomic.Pointer[map[reflect.Type]*TypeInfo]
	byID   atomic.Pointer[[]*TypeInfo]
}

// TypeOf returns the canonical descriptor for T, registering it on first use.
// Repeated calls for the same T return the same pointer.
func TypeOf[T any]() *TypeInfo {
	typ := reflect.TypeFor[T]()
	if info, ok := registry.lookupType(typ); ok {
		return info
	}
	return register[T](typ)
}

func register[T any](typ reflect.Type) *TypeInfo {
	r := registry
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx, ok := r.infos.GetIndex(typ); ok {
		return *r.infos.GetItem(idx)
	}
	info := newTypeInfo[T](ComponentID(r.infos.Len()), typ)
	if _, err := r.infos.Register(typ, info); err != nil {
		panic(ComponentLimitError{Limit: r.infos.maxCapacity})
	}
	r.publish(typ, info)

	logger().Debug("registered component type",
		zap.Stringer("type", typ),
		zap.Uint32("id", uint32(info.id)),
		zap.Uintptr("size", info.size),
		zap.Uintptr("align", info.align),
	)
	return info
}

// publish copies the snapshots with info added. Callers hold mu.
func (r *typeRegistry) publish(typ reflect.Type, info *TypeInfo) {
	var byType map[reflect.Type]*TypeInfo
	if m := r.byType.Load(); m != nil {
		byType = maps.Clone(*m)
	} else {
		byType = make(map[reflect.Type]*TypeInfo, 1)
	}
	byType[typ] = info

	var byID []*TypeInfo
	if s := r.byID.Load(); s != nil {
		byID = append(make([]*TypeInfo, 0, len(*s)+1), *s...)
	}
	byID = append(byID, info)

	r.byID.Store(&byID)
	r.byType.Store(&byType)
}

func (r *typeRegistry) lookupType(typ reflect.Type) (*TypeInfo, bool) {
	m := r.byType.Load()
	if m == nil {
		return nil, false
	}
	info, ok := (*m)[typ]
	return info, ok
}

// LookupTypeInfo returns the descriptor registered under id.
func LookupTypeInfo(id ComponentID) (*TypeInfo, bool) {
	s := registry.byID.Load()
	if s == nil || int(id) >= len(*s) {
		return nil, false
	}
	return (*s)[id], true
}

func (r *typeRegistry) setLimit(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos.maxCapacity = max(n, r.infos.Len())
}
