// Copyright 2026 Kiln Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph provides the public API for building tensor dataflow
// graphs in Kiln.
//
// A Graph owns axes, tensors and operations. Axes and tensors are
// compared by identity; the graph records operations in topological
// order, which the alias analysis relies on.
//
// Example:
//
//	g := graph.New()
//	i0 := g.NewAxis("i0", 8)
//	i1 := g.NewAxis("i1", 4)
//	x := g.NewTensor("x", i0, i1)
//	g.AddInput(x)
package graph

import (
	"github.com/kiln-ml/kiln/internal/graph"
)

// Graph is an acyclic dataflow graph of shape-transforming operations.
type Graph = graph.Graph

// New returns an empty graph.
func New() *Graph {
	return graph.New()
}

// Axis is the identity of one logical dimension of a tensor.
type Axis = graph.Axis

// Tensor is one value flowing through the graph.
type Tensor = graph.Tensor

// Contiguity is the tri-state per-axis layout marker.
type Contiguity = graph.Contiguity

// Contiguity states.
const (
	NotApplicable Contiguity = graph.NotApplicable
	Contiguous    Contiguity = graph.Contiguous
	Dense         Contiguity = graph.Dense
)

// Op is one operation of the graph.
type Op = graph.Op

// Operation kinds understood by the alias analysis.
type (
	ViewOp      = graph.ViewOp
	PermuteOp   = graph.PermuteOp
	SliceOp     = graph.SliceOp
	BroadcastOp = graph.BroadcastOp
	SqueezeOp   = graph.SqueezeOp
	OtherOp     = graph.OtherOp
)

// Transform kinds relating a tensor's root domain to its logical
// domain.
type (
	Transform = graph.Transform
	Split     = graph.Split
	Merge     = graph.Merge
	Resize    = graph.Resize
)
