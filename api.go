package crate

import (
	"iter"
	"unsafe"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
)

// DynamicBundle is a set of type-distinct component values that a receiving
// store can take ownership of. IDs lets the store pick an archetype before any
// value moves; Put is the only way values leave the bundle.
type DynamicBundle interface {
	IDs() []ComponentID
	TypeInfos() []*TypeInfo
	Put(sink func(ptr unsafe.Pointer, info *TypeInfo))
}

type Storage interface {
	Entity(id int) (Entity, error)
	NewEntities(int, ...Component) ([]Entity, error)
	EnqueueNewEntities(int, ...Component) error
	Spawn(DynamicBundle) (Entity, error)
	EnqueueSpawn(*ReusableBundle) error
	DestroyEntities(...Entity) error
	EnqueueDestroyEntities(...Entity) error
	RowIndexFor(Component) uint32
	Locked() bool
	Lock()
	Unlock()
}

type EntityDestroyCallback func(Entity)

type Entity interface {
	table.Entry
	Storage() Storage
	SetParent(parent Entity, callback EntityDestroyCallback) error
	SetDestroyCallback(EntityDestroyCallback) error
	AddComponent(Component) error
	RemoveComponent(Component) error
	Insert(DynamicBundle) error
	EnqueueAddComponent(Component) error
	EnqueueRemoveComponent(Component) error
	EnqueueInsert(*ReusableBundle) error
}

type Archetype interface {
	ID() uint32
	Signature() mask.Mask
	Table() table.Table
}

type Query interface {
	QueryNode
	And(items ...interface{}) QueryNode
	Or(items ...interface{}) QueryNode
	Not(items ...interface{}) QueryNode
}

type QueryNode interface {
	Evaluate(archetype Archetype, storage Storage) bool
}

type iCursor interface {
	Entities() iter.Seq2[int, table.Table]
	Next() bool
}

type Cache[K comparable, T any] interface {
	GetIndex(K) (int, bool)
	GetItem(int) *T
	GetItem32(uint32) *T
	Register(K, T) (int, error)
	Len() int
}
