package crate

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"go.uber.org/zap"
)

type operation struct {
	typ      operationType
	amount   int
	comps    []Component
	entities []Entity
	bundle   *ReusableBundle
}

type operationType int

const (
	opCreate operationType = iota
	opSpawn
	opDestroy
	opAddComponent
	opRemoveComponent
	opInsert
)

// opQueue defers structural changes requested while a storage is locked.
// Creation runs first, then component changes, then destruction. Component
// changes on an entity that is pending destruction are dropped.
type opQueue struct {
	createOps      []operation
	componentOps   []operation
	destroyOps     []operation
	pendingDestroy *roaring.Bitmap
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: roaring.New(),
	}
}

func (q *opQueue) len() int {
	return len(q.createOps) + len(q.componentOps) + len(q.destroyOps)
}

func (q *opQueue) enqueueOp(op operation) {
	switch op.typ {
	case opCreate, opSpawn:
		q.createOps = append(q.createOps, op)
	case opDestroy:
		q.destroyOps = append(q.destroyOps, op)
	case opAddComponent, opRemoveComponent, opInsert:
		q.componentOps = append(q.componentOps, op)
	}
}

func (q *opQueue) enqueueDestroy(entities []Entity) {
	var fresh []Entity
	for _, en := range entities {
		if en == nil {
			continue
		}
		if q.pendingDestroy.CheckedAdd(uint32(en.ID())) {
			fresh = append(fresh, en)
		}
	}
	if len(fresh) > 0 {
		q.enqueueOp(operation{typ: opDestroy, entities: fresh})
	}
}

func (q *opQueue) enqueueComponentOp(typ operationType, en Entity, comp Component, bundle *ReusableBundle) {
	if q.pendingDestroy.Contains(uint32(en.ID())) {
		return
	}
	op := operation{
		typ:      typ,
		entities: []Entity{en},
		bundle:   bundle,
	}
	if comp != nil {
		op.comps = []Component{comp}
	}
	q.enqueueOp(op)
}

func (q *opQueue) reset() {
	q.createOps = q.createOps[:0]
	q.componentOps = q.componentOps[:0]
	q.destroyOps = q.destroyOps[:0]
	q.pendingDestroy.Clear()
}

func (sto *storage) processOperationQueue() error {
	q := &sto.opQueue
	if q.len() == 0 {
		return nil
	}
	logger().Debug("processing queued operations",
		zap.Int("create", len(q.createOps)),
		zap.Int("component", len(q.componentOps)),
		zap.Int("destroy", len(q.destroyOps)),
	)
	defer q.reset()

	for _, op := range q.createOps {
		switch op.typ {
		case opCreate:
			if _, err := sto.NewEntities(op.amount, op.comps...); err != nil {
				return fmt.Errorf("failed to process queued entity creation: %w", err)
			}
		case opSpawn:
			if _, err := sto.Spawn(op.bundle); err != nil {
				return fmt.Errorf("failed to process queued spawn: %w", err)
			}
		}
	}

	for _, op := range q.componentOps {
		en := op.entities[0]
		// Skip entries that were destroyed or recycled since enqueueing
		if q.pendingDestroy.Contains(uint32(en.ID())) || !sto.live.Contains(uint32(en.ID())) {
			continue
		}
		switch op.typ {
		case opAddComponent:
			if err := en.AddComponent(op.comps[0]); err != nil {
				return fmt.Errorf("failed to add queued component: %w", err)
			}
		case opRemoveComponent:
			if err := en.RemoveComponent(op.comps[0]); err != nil {
				return fmt.Errorf("failed to remove queued component: %w", err)
			}
		case opInsert:
			if err := en.Insert(op.bundle); err != nil {
				return fmt.Errorf("failed to insert queued bundle: %w", err)
			}
		}
	}

	for _, op := range q.destroyOps {
		if err := sto.DestroyEntities(op.entities...); err != nil {
			return fmt.Errorf("failed to delete queued entries: %w", err)
		}
	}
	return nil
}
