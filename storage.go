package crate

import (
	"fmt"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/TheBitDrifter/table"
)

var _ Storage = &storage{}

type storage struct {
	locked     bool
	schema     table.Schema
	archetypes *archetypes
	opQueue    opQueue
	entities   []*entity
	live       *roaring.Bitmap
}

func newStorage(schema table.Schema) Storage {
	return &storage{
		archetypes: newArchetypes(schema, table.Factory.NewEntryIndex()),
		schema:     schema,
		opQueue:    newOpQueue(),
		live:       roaring.New(),
	}
}

func (sto *storage) Entity(id int) (Entity, error) {
	if id <= 0 || !sto.live.Contains(uint32(id)) {
		return nil, EntityNotFoundError{ID: id}
	}
	return sto.entities[id-1], nil
}

func (sto *storage) NewEntities(n int, components ...Component) ([]Entity, error) {
	if sto.locked {
		return nil, LockedStorageError{}
	}
	if len(components) == 0 {
		return nil, EmptyBundleError{}
	}
	entityArchetype, err := sto.archetypeFor(components)
	if err != nil {
		return nil, err
	}
	entries, err := entityArchetype.table.NewEntries(n)
	if err != nil {
		return nil, err
	}
	entities := make([]Entity, n)
	for i, entry := range entries {
		entities[i] = sto.track(entry)
	}
	return entities, nil
}

// Spawn creates one entity holding the components of bundle. The archetype is
// chosen from the bundle's ids before any value is taken out of it. On error
// the bundle is left untouched, so a BuiltBundle should still be released.
func (sto *storage) Spawn(bundle DynamicBundle) (Entity, error) {
	if sto.locked {
		return nil, LockedStorageError{}
	}
	components, err := componentsOf(bundle.IDs())
	if err != nil {
		return nil, err
	}
	if len(components) == 0 {
		return nil, EmptyBundleError{}
	}
	entityArchetype, err := sto.archetypeFor(components)
	if err != nil {
		return nil, err
	}
	entries, err := entityArchetype.table.NewEntries(1)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate entry: %w", err)
	}
	en := sto.track(entries[0])
	row, tbl := en.Index(), en.Table()
	bundle.Put(func(ptr unsafe.Pointer, info *TypeInfo) {
		info.place(ptr, row, tbl)
	})
	return en, nil
}

func (sto *storage) EnqueueSpawn(bundle *ReusableBundle) error {
	if !sto.locked {
		if _, err := sto.Spawn(bundle); err != nil {
			return fmt.Errorf("failed to spawn entity directly: %w", err)
		}
		return nil
	}
	sto.opQueue.enqueueOp(operation{
		typ:    opSpawn,
		bundle: bundle,
	})
	return nil
}

func (sto *storage) RowIndexFor(c Component) uint32 {
	return sto.schema.RowIndexFor(c)
}

func (sto *storage) Locked() bool {
	return sto.locked
}

func (sto *storage) Lock() {
	sto.locked = true
}

func (sto *storage) Unlock() {
	sto.locked = false
	err := sto.processOperationQueue()
	if err != nil {
		panic(err)
	}
}

func (sto *storage) EnqueueNewEntities(amount int, components ...Component) error {
	if !sto.locked {
		_, err := sto.NewEntities(amount, components...)
		if err != nil {
			return fmt.Errorf("failed to create entities directly: %w", err)
		}
		return nil
	}
	sto.opQueue.enqueueOp(operation{
		typ:    opCreate,
		amount: amount,
		comps:  components,
	})
	return nil
}

func (sto *storage) DestroyEntities(entities ...Entity) error {
	if sto.locked {
		return LockedStorageError{}
	}
	tableGroups := make(map[table.Table][]int)
	for _, en := range entities {
		if en == nil || !sto.live.Contains(uint32(en.ID())) {
			continue
		}
		tableGroups[en.Table()] = append(tableGroups[en.Table()], int(en.ID()))
	}
	for tbl, ids := range tableGroups {
		if _, err := tbl.DeleteEntries(ids...); err != nil {
			return fmt.Errorf("failed to delete entries: %w", err)
		}
	}
	for _, en := range entities {
		if en == nil {
			continue
		}
		id := int(en.ID())
		if !sto.live.CheckedRemove(uint32(id)) {
			continue
		}
		destroyed := sto.entities[id-1]
		sto.entities[id-1] = nil
		if destroyed != nil && destroyed.relationships.onDestroy != nil {
			destroyed.relationships.onDestroy(destroyed)
		}
	}
	return nil
}

func (sto *storage) EnqueueDestroyEntities(entities ...Entity) error {
	if !sto.locked {
		return sto.DestroyEntities(entities...)
	}
	sto.opQueue.enqueueDestroy(entities)
	return nil
}

// archetypeFor returns the archetype holding exactly components, creating it
// on first use.
func (sto *storage) archetypeFor(components []Component) (archetype, error) {
	arch, err := sto.archetypes.resolve(components)
	if err != nil {
		return archetype{}, fmt.Errorf("failed to create archetype: %w", err)
	}
	return arch, nil
}

// track registers a freshly allocated entry as a live entity.
func (sto *storage) track(entry table.Entry) *entity {
	en := &entity{Entry: entry, sto: sto}
	id := int(entry.ID())
	if id > len(sto.entities) {
		// Grow by doubling or up to id, whichever is larger
		newCap := max(id, 2*cap(sto.entities))
		grown := make([]*entity, id, newCap)
		copy(grown, sto.entities)
		sto.entities = grown
	}
	sto.entities[id-1] = en
	sto.live.Add(uint32(id))
	return en
}

func componentsOf(ids []ComponentID) ([]Component, error) {
	components := make([]Component, len(ids))
	for i, id := range ids {
		info, ok := LookupTypeInfo(id)
		if !ok {
			return nil, UnknownComponentError{ID: id}
		}
		components[i] = info.comp
	}
	return components, nil
}
