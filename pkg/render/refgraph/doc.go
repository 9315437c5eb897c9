// Package refgraph draws which assets each block references.
//
// [ToDOT] produces a Graphviz digraph with one node per block (in page order)
// and one node per asset, and an edge per slot. References to assets that
// are not in the registry are drawn as dashed red nodes; registered assets
// no block uses are grey. [RenderSVG] lays the graph out with Graphviz.
//
//	dot := refgraph.ToDOT(doc, refgraph.Options{})
//	svg, err := refgraph.RenderSVG(dot)
package refgraph
