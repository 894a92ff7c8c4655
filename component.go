package crate

import (
	"unsafe"

	"github.com/TheBitDrifter/table"
)

// Component represents a data attribute/state that can be attached to entities
// Components can be used to create queries for entities
type Component interface {
	table.ElementType
}

// AccessibleComponent pairs a component type's descriptor with typed table
// access, so the same value can build bundles, form queries and read values.
type AccessibleComponent[T any] struct {
	Component
	table.Accessor[T]
	info *TypeInfo
}

// TypeInfo returns the descriptor of T.
func (c AccessibleComponent[T]) TypeInfo() *TypeInfo {
	return c.info
}

// GetFromCursor retrieves a component value for the entity at the cursor position
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) *T {
	return c.Get(
		cursor.entityIndex-1,
		cursor.currentArchetype.table,
	)
}

// GetFromCursorSafe safely retrieves a component value, checking if the component exists
func (c AccessibleComponent[T]) GetFromCursorSafe(cursor *Cursor) (bool, *T) {
	if c.CheckCursor(cursor) {
		return true, c.GetFromCursor(cursor)
	}
	return false, nil
}

// CheckCursor determines if the component exists in the archetype at the cursor position
func (c AccessibleComponent[T]) CheckCursor(cursor *Cursor) bool {
	return c.Accessor.Check(cursor.currentArchetype.table)
}

// GetFromEntity retrieves a component value for the specified entity
func (c AccessibleComponent[T]) GetFromEntity(entity Entity) *T {
	return c.Get(entity.Index(), entity.Table())
}

// GetFromBuilder retrieves the value buffered in a builder or bundle.
func (c AccessibleComponent[T]) GetFromBuilder(h Holder) (*T, bool) {
	ptr, ok := h.lookup(c.info.id)
	if !ok {
		return nil, false
	}
	return (*T)(ptr), true
}

// Of wraps value as an Item of this component type.
func (c AccessibleComponent[T]) Of(value T) Item {
	return Item{info: c.info, ptr: unsafe.Pointer(&value)}
}
