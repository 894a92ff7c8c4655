/*
Package crate builds entities from components whose types are only known at
runtime, and ships them into an archetype-based storage.

A Builder buffers values of arbitrary types in one packed, growable region,
keyed by component type. Build freezes the buffer into a bundle sorted by
ComponentID; the storage picks an archetype from the bundle's ids and then
takes the values out. Afterwards the builder is empty and ready for the next
entity, keeping its memory.

Core Concepts:

  - TypeInfo: runtime identity, size, alignment and type-erased operations of a component type.
  - Builder: buffers components; adding a type twice replaces the first value.
  - BuiltBundle: single-use output of a Builder, moved into a storage.
  - CloneableBuilder / ReusableBundle: components duplicated on every spawn.
  - Storage: archetype tables holding spawned entities, read back via queries.

Basic Usage:

	schema := table.Factory.NewSchema()
	storage := crate.Factory.NewStorage(schema)

	position := crate.FactoryNewComponent[Position]()

	builder := crate.Factory.NewBuilder()
	crate.Add(builder, Position{X: 1, Y: 2})
	crate.Add(builder, Name{Value: "Player"})

	bundle := builder.Build()
	defer bundle.Release()
	player, _ := storage.Spawn(bundle)

	pos := position.GetFromEntity(player)

Templates that are spawned repeatedly use a CloneableBuilder:

	template := crate.Factory.NewCloneableBuilder()
	crate.AddCloneable(template, Health{Max: 10})
	spawner := template.Build()

	for range 100 {
		storage.Spawn(spawner)
	}

Components implementing Dropper are dropped exactly once by whichever side
owns them last; components implementing Cloner are deep copied by reusable
bundles.

Builders are not safe for concurrent mutation. Use one builder per goroutine.
*/
package crate
