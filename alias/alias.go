// Copyright 2026 Kiln Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package alias provides the public API for Kiln's layout alias
// analysis.
//
// The analysis decides which tensors of a dataflow graph can reuse the
// memory of their producers without a copy, and under which physical
// layout. Typical use:
//
//	result, err := alias.Find(g)
//	if err != nil {
//	    return err
//	}
//	for _, out := range g.Outputs() {
//	    if src := result.GetNearestAliasedIo(out); src != nil {
//	        // reuse src's buffer for out, laid out as
//	        // result.PreferredLayout(out)
//	    }
//	}
package alias

import (
	"github.com/kiln-ml/kiln/internal/alias"
	"github.com/kiln-ml/kiln/internal/graph"
)

// Layout is a physical memory layout: allocation order plus per-axis
// contiguity.
type Layout = alias.Layout

// Result holds the findings of one analysis run.
type Result = alias.Result

// Find runs the alias analysis over the graph. Outputs without an
// explicitly declared allocation domain are free to take whatever
// layout aliasing requires.
func Find(g *graph.Graph) (*Result, error) {
	return alias.FindAliases(g, true)
}

// FindStrict is like Find but holds every output to its current
// layout, declared or not.
func FindStrict(g *graph.Graph) (*Result, error) {
	return alias.FindAliases(g, false)
}
