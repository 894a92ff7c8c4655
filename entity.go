package crate

import (
	"fmt"
	"unsafe"

	"github.com/TheBitDrifter/table"
	iter_util "github.com/TheBitDrifter/util/iter"
)

var _ Entity = &entity{}

type entity struct {
	sto *storage
	table.Entry
	relationships relationships
}

type relationships struct {
	parent    Entity
	onDestroy EntityDestroyCallback
}

func (e *entity) Storage() Storage {
	return e.sto
}

func (e *entity) SetParent(parent Entity, callback EntityDestroyCallback) error {
	if e.relationships.parent != nil {
		return EntityRelationError{e, e.relationships.parent}
	}
	e.relationships.parent = parent
	return parent.SetDestroyCallback(callback)
}

func (e *entity) SetDestroyCallback(callback EntityDestroyCallback) error {
	e.relationships.onDestroy = callback
	return nil
}

func (e *entity) AddComponent(c Component) error {
	if e.sto.locked {
		return LockedStorageError{}
	}
	if e.Table().Contains(c) {
		return ComponentExistsError{Component: c}
	}
	return e.moveTo(append(e.components(), c))
}

func (e *entity) RemoveComponent(c Component) error {
	if e.sto.locked {
		return LockedStorageError{}
	}
	if !e.Table().Contains(c) {
		return ComponentNotFoundError{Component: c}
	}
	current := e.components()
	row := e.sto.RowIndexFor(c)
	remaining := make([]Component, 0, len(current)-1)
	for _, comp := range current {
		if e.sto.RowIndexFor(comp) != row {
			remaining = append(remaining, comp)
		}
	}
	return e.moveTo(remaining)
}

// Insert adds the components of bundle to the entity. Components the entity
// already has are overwritten with the bundle's values.
func (e *entity) Insert(bundle DynamicBundle) error {
	if e.sto.locked {
		return LockedStorageError{}
	}
	incoming, err := componentsOf(bundle.IDs())
	if err != nil {
		return err
	}
	components := e.components()
	grown := false
	for _, c := range incoming {
		if !e.Table().Contains(c) {
			components = append(components, c)
			grown = true
		}
	}
	if grown {
		if err := e.moveTo(components); err != nil {
			return err
		}
	}
	row, tbl := e.Index(), e.Table()
	bundle.Put(func(ptr unsafe.Pointer, info *TypeInfo) {
		info.place(ptr, row, tbl)
	})
	return nil
}

func (e *entity) EnqueueAddComponent(c Component) error {
	if !e.sto.locked {
		return e.AddComponent(c)
	}
	e.sto.opQueue.enqueueComponentOp(opAddComponent, e, c, nil)
	return nil
}

func (e *entity) EnqueueRemoveComponent(c Component) error {
	if !e.sto.locked {
		return e.RemoveComponent(c)
	}
	e.sto.opQueue.enqueueComponentOp(opRemoveComponent, e, c, nil)
	return nil
}

func (e *entity) EnqueueInsert(bundle *ReusableBundle) error {
	if !e.sto.locked {
		return e.Insert(bundle)
	}
	e.sto.opQueue.enqueueComponentOp(opInsert, e, nil, bundle)
	return nil
}

func (e *entity) components() []Component {
	elementTypes := iter_util.Collect(e.Table().ElementTypes())
	components := make([]Component, len(elementTypes))
	for i, et := range elementTypes {
		components[i] = et
	}
	return components
}

// moveTo transfers the entity into the archetype holding exactly components.
func (e *entity) moveTo(components []Component) error {
	dest, err := e.sto.archetypeFor(components)
	if err != nil {
		return fmt.Errorf("failed to get/create archetype: %w", err)
	}
	if err := e.Table().TransferEntries(dest.table, e.Index()); err != nil {
		return fmt.Errorf("failed to transfer entity: %w", err)
	}
	return nil
}
