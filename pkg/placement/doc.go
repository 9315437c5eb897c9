// Package placement turns blocks into geometry.
//
// [Place] maps one block to slot rectangles relative to the block's top-left
// corner. Slots sit inside the content box, which is the block inset by its
// padding. Single blocks get one slot covering the box. Split blocks divide
// the box width minus gapX by their column weights. Grid blocks flow their
// slots through square cells with first-fit auto-placement (see
// [GridCells]).
//
// [PlacePage] stacks a whole document and pairs each slot with its asset.
// Missing assets become empty slots, so a page with dangling references
// still previews.
package placement
