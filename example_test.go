package crate_test

import (
	"fmt"
	"slices"
	"unsafe"

	"github.com/TheBitDrifter/crate"
	"github.com/TheBitDrifter/table"
)

// Position is a simple component for 2D coordinates
type Position struct {
	X float64
	Y float64
}

// Velocity is a simple component for 2D movement
type Velocity struct {
	X float64
	Y float64
}

// Name is a simple component for entity identification
type Name struct {
	Value string
}

// Inventory holds a slice and clones it for every spawned copy
type Inventory struct {
	Items []string
}

func (inv Inventory) Clone() Inventory {
	return Inventory{Items: slices.Clone(inv.Items)}
}

// Example shows basic usage with entity spawning and queries
func Example_basic() {
	schema := table.Factory.NewSchema()
	storage := crate.Factory.NewStorage(schema)

	position := crate.FactoryNewComponent[Position]()
	velocity := crate.FactoryNewComponent[Velocity]()
	name := crate.FactoryNewComponent[Name]()

	storage.NewEntities(5, position)
	storage.NewEntities(3, position, velocity)

	// Spawn one named entity from a builder
	builder := crate.Factory.NewBuilder()
	crate.Add(builder, Position{X: 10, Y: 20})
	crate.Add(builder, Velocity{X: 1, Y: 2})
	crate.Add(builder, Name{Value: "Player"})
	storage.Spawn(builder.Build())

	query := crate.Factory.NewQuery()
	queryNode := query.And(position, velocity)
	cursor := crate.Factory.NewCursor(queryNode, storage)

	matchCount := 0
	for cursor.Next() {
		matchCount++
	}
	fmt.Printf("Found %d entities with position and velocity\n", matchCount)

	query = crate.Factory.NewQuery()
	queryNode = query.And(name)
	cursor = crate.Factory.NewCursor(queryNode, storage)

	for cursor.Next() {
		pos := position.GetFromCursor(cursor)
		vel := velocity.GetFromCursor(cursor)
		nme := name.GetFromCursor(cursor)

		pos.X += vel.X
		pos.Y += vel.Y

		fmt.Printf("Updated %s to position (%.1f, %.1f)\n", nme.Value, pos.X, pos.Y)
	}

	// Output:
	// Found 4 entities with position and velocity
	// Updated Player to position (11.0, 22.0)
}

// Example_queries shows how to use different query operations
func Example_queries() {
	schema := table.Factory.NewSchema()
	storage := crate.Factory.NewStorage(schema)

	position := crate.FactoryNewComponent[Position]()
	velocity := crate.FactoryNewComponent[Velocity]()
	name := crate.FactoryNewComponent[Name]()

	storage.NewEntities(3, position)
	storage.NewEntities(3, position, velocity)
	storage.NewEntities(3, position, name)
	storage.NewEntities(3, position, velocity, name)

	// AND query: entities with position AND velocity
	query := crate.Factory.NewQuery()
	andQuery := query.And(position, velocity)

	cursor := crate.Factory.NewCursor(andQuery, storage)
	fmt.Printf("AND query matched %d entities\n", cursor.TotalMatched())

	// OR query: entities with velocity OR name
	orQuery := query.Or(velocity, name)

	cursor = crate.Factory.NewCursor(orQuery, storage)
	fmt.Printf("OR query matched %d entities\n", cursor.TotalMatched())

	// NOT query: entities without velocity
	notQuery := query.Not(velocity)

	cursor = crate.Factory.NewCursor(notQuery, storage)
	fmt.Printf("NOT query matched %d entities\n", cursor.TotalMatched())

	// Output:
	// AND query matched 6 entities
	// OR query matched 9 entities
	// NOT query matched 6 entities
}

// Example_builder shows that a builder is emptied by every spawn and reused
func Example_builder() {
	storage := crate.Factory.NewStorage(table.Factory.NewSchema())
	name := crate.FactoryNewComponent[Name]()

	builder := crate.Factory.NewBuilder()
	defer builder.Close()

	for _, n := range []string{"Ada", "Grace", "Edsger"} {
		crate.Add(builder, Name{Value: n})
		crate.Add(builder, Position{})

		bundle := builder.Build()
		entity, err := storage.Spawn(bundle)
		if err != nil {
			bundle.Release()
			continue
		}
		fmt.Printf("%s spawned, builder holds %d components\n", name.GetFromEntity(entity).Value, builder.Len())
	}

	// Output:
	// Ada spawned, builder holds 0 components
	// Grace spawned, builder holds 0 components
	// Edsger spawned, builder holds 0 components
}

// Example_reusable shows a template spawned many times with independent copies
func Example_reusable() {
	storage := crate.Factory.NewStorage(table.Factory.NewSchema())
	inventory := crate.FactoryNewComponent[Inventory]()

	template := crate.Factory.NewCloneableBuilder()
	crate.AddCloneable(template, Inventory{Items: []string{"sword"}})
	crate.AddCloneable(template, Position{})
	spawner := template.Build()
	defer spawner.Close()

	first, _ := storage.Spawn(spawner)
	second, _ := storage.Spawn(spawner)

	items := inventory.GetFromEntity(first)
	items.Items = append(items.Items, "shield")

	fmt.Println(inventory.GetFromEntity(first).Items)
	fmt.Println(inventory.GetFromEntity(second).Items)

	// Output:
	// [sword shield]
	// [sword]
}

// Example_dynamic shows components handed to a custom receiver
func Example_dynamic() {
	builder := crate.Factory.NewBuilder()
	crate.Add(builder, int32(123))
	crate.Add(builder, "abc")

	bundle := builder.Build()
	fmt.Println("components:", len(bundle.IDs()))

	bundle.Put(func(ptr unsafe.Pointer, info *crate.TypeInfo) {
		switch info {
		case crate.TypeOf[int32]():
			fmt.Println("int32", *(*int32)(ptr))
		case crate.TypeOf[string]():
			fmt.Println("string", *(*string)(ptr))
		}
	})
	fmt.Println("left in builder:", builder.Len())

	// Unordered output:
	// components: 2
	// int32 123
	// string abc
	// left in builder: 0
}
