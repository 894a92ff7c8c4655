package crate

import "fmt"

type LockedStorageError struct{}

func (e LockedStorageError) Error() string {
	return "storage is currently locked"
}

type EntityRelationError struct {
	child, parent Entity
}

func (e EntityRelationError) Error() string {
	return fmt.Sprintf("child (%v) already has parent %v", e.child, e.parent)
}

type EntityNotFoundError struct {
	ID int
}

func (e EntityNotFoundError) Error() string {
	return fmt.Sprintf("entity %d does not exist", e.ID)
}

type ComponentExistsError struct {
	Component Component
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("component already exists on entity: %T", e.Component)
}

type ComponentNotFoundError struct {
	Component Component
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component does not exist on entity: %T", e.Component)
}

// EmptyBundleError is returned when an entity would be spawned without
// components, e.g. from a bundle that was already consumed.
type EmptyBundleError struct{}

func (e EmptyBundleError) Error() string {
	return "bundle holds no components"
}

type UnknownComponentError struct {
	ID ComponentID
}

func (e UnknownComponentError) Error() string {
	return fmt.Sprintf("no component type registered with id %d", e.ID)
}

// ComponentLimitError is raised (as a panic) when more component types are
// registered than Config allows.
type ComponentLimitError struct {
	Limit int
}

func (e ComponentLimitError) Error() string {
	return fmt.Sprintf("component type limit reached (%d)", e.Limit)
}

type CacheCapacityError struct {
	Capacity int
}

func (e CacheCapacityError) Error() string {
	return fmt.Sprintf("cache at maximum capacity (%d)", e.Capacity)
}
