package crate

import (
	"github.com/TheBitDrifter/mask"
)

type Operation int

const (
	OpAnd Operation = iota
	OpOr
	OpNot
)

// compositeNode combines a set of components and child nodes under one
// operation.
type compositeNode struct {
	op         Operation
	children   []QueryNode
	components []Component
}

type query struct {
	root QueryNode
}

func newQuery() Query {
	return &query{}
}

func (n *compositeNode) Evaluate(archetype Archetype, storage Storage) bool {
	nodeMask := maskOf(n.components, storage)
	archeMask := archetype.Signature()

	switch n.op {
	case OpAnd:
		if !archeMask.ContainsAll(nodeMask) {
			return false
		}
		for _, child := range n.children {
			if !child.Evaluate(archetype, storage) {
				return false
			}
		}
		return true

	case OpOr:
		if archeMask.ContainsAny(nodeMask) {
			return true
		}
		for _, child := range n.children {
			if child.Evaluate(archetype, storage) {
				return true
			}
		}
		return false

	case OpNot:
		for _, child := range n.children {
			if child.Evaluate(archetype, storage) {
				return false
			}
		}
		return archeMask.ContainsNone(nodeMask)
	}
	return false
}

func (q *query) And(items ...interface{}) QueryNode {
	return q.node(OpAnd, items)
}

func (q *query) Or(items ...interface{}) QueryNode {
	return q.node(OpOr, items)
}

func (q *query) Not(items ...interface{}) QueryNode {
	return q.node(OpNot, items)
}

// node builds a composite node; the first node built becomes the query root.
func (q *query) node(op Operation, items []interface{}) QueryNode {
	node := &compositeNode{op: op}
	for _, item := range items {
		switch v := item.(type) {
		case *TypeInfo:
			node.components = append(node.components, v.comp)
		case []*TypeInfo:
			for _, info := range v {
				node.components = append(node.components, info.comp)
			}
		case DynamicBundle:
			for _, info := range v.TypeInfos() {
				node.components = append(node.components, info.comp)
			}
		case Component:
			node.components = append(node.components, v)
		case []Component:
			node.components = append(node.components, v...)
		case QueryNode:
			node.children = append(node.children, v)
		}
	}
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Evaluate(archetype Archetype, storage Storage) bool {
	if q.root == nil {
		return false
	}
	return q.root.Evaluate(archetype, storage)
}

func maskOf(components []Component, storage Storage) mask.Mask {
	var m mask.Mask
	for _, comp := range components {
		m.Mark(storage.RowIndexFor(comp))
	}
	return m
}
