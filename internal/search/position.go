// Package search enumerates adjacency-valid, fillable layouts by
// worker-parallel, checkpointed depth-first traversal of the position
// universe derived from an adjacency.Graph.
package search

// position indexes into the 2*|L*|-sized universe described in
// spec.md section 4.3: each label appears twice, once as a potential
// row (the even instance) and once as a potential column (the odd
// instance), with the row instance of a label always preceding its
// column instance.
type position int

func rowInstance(labelIdx int) position { return position(2 * labelIdx) }
func colInstance(labelIdx int) position { return position(2*labelIdx + 1) }

func (p position) isRow() bool     { return p%2 == 0 }
func (p position) labelIdx() int   { return int(p) / 2 }
func universeSize(numLabels int) position { return position(2 * numLabels) }
