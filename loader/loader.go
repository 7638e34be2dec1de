// Package loader provides graph description loading for Kiln.
//
// It wraps the internal loader and exports a clean public API for
// building dataflow graphs from declarative YAML descriptions.
//
// Example usage:
//
//	import (
//	    "github.com/kiln-ml/kiln/alias"
//	    "github.com/kiln-ml/kiln/loader"
//	)
//
//	g, err := loader.LoadFile("graph.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := alias.Find(g)
package loader

import (
	"github.com/kiln-ml/kiln/graph"
	"github.com/kiln-ml/kiln/internal/loader"
)

// Load parses a YAML graph description and builds the graph.
func Load(data []byte) (*graph.Graph, error) {
	return loader.Load(data)
}

// LoadFile reads and parses a YAML graph description file.
func LoadFile(path string) (*graph.Graph, error) {
	return loader.LoadFile(path)
}
