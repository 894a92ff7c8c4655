package crate

import (
	"iter"

	"github.com/TheBitDrifter/table"
)

var _ iCursor = &Cursor{}

// Cursor walks the entities of every archetype matching a query. While a
// cursor is iterating it holds the storage lock, so structural changes made
// through the Enqueue methods are applied once iteration ends.
type Cursor struct {
	query   QueryNode
	storage Storage

	currentArchetype archetype
	storageIndex     int
	entityIndex      int
	remaining        int

	initialized     bool
	ownsLock        bool
	matchedStorages []archetype
}

func newCursor(query QueryNode, storage Storage) *Cursor {
	return &Cursor{
		query:   query,
		storage: storage,
	}
}

func (c *Cursor) Next() bool {
	if c.entityIndex < c.remaining {
		c.entityIndex++
		return true
	}
	return c.advance()
}

func (c *Cursor) advance() bool {
	c.initialize()
	for c.storageIndex < len(c.matchedStorages) {
		c.currentArchetype = c.matchedStorages[c.storageIndex]
		c.remaining = c.currentArchetype.table.Length()

		if c.entityIndex < c.remaining {
			c.entityIndex++
			return true
		}
		c.storageIndex++
		c.entityIndex = 0
	}
	c.Reset()
	return false
}

func (c *Cursor) Entities() iter.Seq2[int, table.Table] {
	return func(yield func(int, table.Table) bool) {
		c.initialize()
		defer c.Reset()

		for c.storageIndex < len(c.matchedStorages) {
			c.currentArchetype = c.matchedStorages[c.storageIndex]
			c.remaining = c.currentArchetype.table.Length()

			for c.entityIndex < c.remaining {
				if !yield(c.entityIndex, c.currentArchetype.table) {
					return
				}
				c.entityIndex++
			}
			c.entityIndex = 0
			c.storageIndex++
		}
	}
}

func (c *Cursor) initialize() {
	if c.initialized {
		return
	}
	c.matchedStorages = c.matching()
	if len(c.matchedStorages) > 0 {
		c.storageIndex = 0
		c.currentArchetype = c.matchedStorages[0]
		c.remaining = c.currentArchetype.table.Length()
	}
	if !c.storage.Locked() {
		c.storage.Lock()
		c.ownsLock = true
	}
	c.initialized = true
}

func (c *Cursor) matching() []archetype {
	var matched []archetype
	for _, arch := range c.storage.(*storage).archetypes.all {
		if c.query.Evaluate(arch, c.storage) {
			matched = append(matched, arch)
		}
	}
	return matched
}

// Reset rewinds the cursor and releases the storage lock it took.
func (c *Cursor) Reset() {
	c.storageIndex = 0
	c.entityIndex = 0
	c.remaining = 0
	c.matchedStorages = nil
	c.initialized = false
	if c.ownsLock {
		c.ownsLock = false
		c.storage.Unlock()
	}
}

func (c *Cursor) CurrentEntity() (int, table.Table) {
	return c.entityIndex, c.currentArchetype.table
}

func (c *Cursor) RemainingInArchetype() int {
	return c.remaining - c.entityIndex
}

// TotalMatched counts the entities matching the query without starting an
// iteration.
func (c *Cursor) TotalMatched() int {
	total := 0
	for _, arch := range c.matching() {
		total += arch.table.Length()
	}
	return total
}
