package crate

import (
	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
	"go.uber.org/zap"
)

var _ Archetype = archetype{}

type archetypeID uint32

// archetype is the table shared by every entity with one exact set of
// components. Its signature marks the schema rows of those components.
type archetype struct {
	id        archetypeID
	signature mask.Mask
	table     table.Table
}

func (a archetype) ID() uint32 {
	return uint32(a.id)
}

func (a archetype) Signature() mask.Mask {
	return a.signature
}

func (a archetype) Table() table.Table {
	return a.table
}

// archetypes indexes the archetypes of a storage by id and by signature.
// Ids start at 1 and are never reused.
type archetypes struct {
	schema      table.Schema
	entryIndex  table.EntryIndex
	all         []archetype
	bySignature map[mask.Mask]archetypeID
}

func newArchetypes(schema table.Schema, entryIndex table.EntryIndex) *archetypes {
	return &archetypes{
		schema:      schema,
		entryIndex:  entryIndex,
		bySignature: make(map[mask.Mask]archetypeID),
	}
}

// signatureOf registers components with the schema and marks their rows.
func (as *archetypes) signatureOf(components []Component) mask.Mask {
	var sig mask.Mask
	for _, c := range components {
		as.schema.Register(c)
		sig.Mark(as.schema.RowIndexFor(c))
	}
	return sig
}

// resolve returns the archetype for exactly components, building its table on
// first use.
func (as *archetypes) resolve(components []Component) (archetype, error) {
	sig := as.signatureOf(components)
	if id, ok := as.bySignature[sig]; ok {
		return as.all[id-1], nil
	}

	elementTypes := make([]table.ElementType, len(components))
	for i, c := range components {
		elementTypes[i] = c
	}
	tbl, err := table.NewTableBuilder().
		WithSchema(as.schema).
		WithEntryIndex(as.entryIndex).
		WithElementTypes(elementTypes...).
		WithEvents(Config.tableEvents).
		Build()
	if err != nil {
		return archetype{}, err
	}

	created := archetype{
		id:        archetypeID(len(as.all) + 1),
		signature: sig,
		table:     tbl,
	}
	as.all = append(as.all, created)
	as.bySignature[sig] = created.id

	logger().Debug("created archetype",
		zap.Uint32("archetype", uint32(created.id)),
		zap.Int("components", len(components)),
	)
	return created, nil
}
