package crate

import (
	"github.com/TheBitDrifter/table"
)

type factory struct{}

var Factory factory

func (f factory) NewStorage(schema table.Schema) Storage {
	return newStorage(schema)
}

func (f factory) NewQuery() Query {
	return newQuery()
}

func (f factory) NewCursor(query QueryNode, storage Storage) *Cursor {
	return newCursor(query, storage)
}

func (f factory) NewBuilder() *Builder {
	return newBuilder()
}

func (f factory) NewCloneableBuilder() *CloneableBuilder {
	return newCloneableBuilder()
}

func FactoryNewComponent[T any]() AccessibleComponent[T] {
	info := TypeOf[T]()
	return AccessibleComponent[T]{
		Component: info.comp,
		Accessor:  table.FactoryNewAccessor[T](info.comp),
		info:      info,
	}
}

func FactoryNewCache[K comparable, T any](cap int) Cache[K, T] {
	return &SimpleCache[K, T]{
		itemIndices: make(map[K]int),
		maxCapacity: cap,
	}
}
