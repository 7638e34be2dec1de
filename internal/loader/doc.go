// Package loader builds dataflow graphs from declarative YAML
// descriptions.
//
// A description names the graph's axes (with extents and kinds),
// tensors (logical/root domains, optional allocation domain with
// contiguity flags, input/output membership, and for view or slice
// outputs the root-to-logical transform chain) and operations. The
// loader resolves every reference by name and hands back a fully
// built graph ready for analysis.
//
// Example description:
//
//	axes:
//	  - {name: i0, extent: 8}
//	  - {name: i1, extent: 4}
//	tensors:
//	  - name: x
//	    logical: [i0, i1]
//	    allocation: [i1, i0]
//	    contiguity: [contiguous, contiguous]
//	    input: true
//
// Contiguity flags accept the long forms "contiguous", "dense" and
// "na", or the short forms "t", "f" and "n" used by layout dumps.
package loader
