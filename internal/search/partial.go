package search

import "github.com/rbscholtus/connecdoku/internal/adjacency"

// partial tracks an in-progress position sequence: a strictly
// increasing stack of positions whose induced (R,C) is adjacency-valid
// so far, with at most four rows and four columns and pairwise
// distinct labels (spec.md section 4.3).
type partial struct {
	graph *adjacency.Graph

	stack []position
	rows  []int // label indices chosen as rows, in the order pushed
	cols  []int // label indices chosen as cols, in the order pushed
	used  map[int]bool
}

func newPartial(g *adjacency.Graph) *partial {
	return &partial{graph: g, used: make(map[int]bool)}
}

func (p *partial) depth() int { return len(p.stack) }

func (p *partial) top() position {
	if len(p.stack) == 0 {
		return -1
	}
	return p.stack[len(p.stack)-1]
}

// canPush reports whether pos can legally extend the current partial
// layout: unused label, row/column slot available, first position is a
// row (symmetry break), and the induced adjacency (R2 within rows, R2
// within cols, R1 across) still holds.
func (p *partial) canPush(pos position) bool {
	if len(p.stack) == 0 && !pos.isRow() {
		return false // orientation rule: first position must be a row
	}
	idx := pos.labelIdx()
	if p.used[idx] {
		return false
	}
	if pos.isRow() {
		if len(p.rows) >= 4 {
			return false
		}
		for _, r := range p.rows {
			if !p.graph.R2[idx].Has(r) {
				return false
			}
		}
		for _, c := range p.cols {
			if !p.graph.R1[idx].Has(c) {
				return false
			}
		}
		return true
	}
	if len(p.cols) >= 4 {
		return false
	}
	for _, c := range p.cols {
		if !p.graph.R2[idx].Has(c) {
			return false
		}
	}
	for _, r := range p.rows {
		if !p.graph.R1[idx].Has(r) {
			return false
		}
	}
	return true
}

// push appends pos, which must already satisfy canPush.
func (p *partial) push(pos position) {
	p.stack = append(p.stack, pos)
	idx := pos.labelIdx()
	p.used[idx] = true
	if pos.isRow() {
		p.rows = append(p.rows, idx)
	} else {
		p.cols = append(p.cols, idx)
	}
}

// pop removes the top position.
func (p *partial) pop() {
	if len(p.stack) == 0 {
		return
	}
	top := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	idx := top.labelIdx()
	delete(p.used, idx)
	if top.isRow() {
		p.rows = p.rows[:len(p.rows)-1]
	} else {
		p.cols = p.cols[:len(p.cols)-1]
	}
}

// complete reports whether the partial layout has all 8 positions.
func (p *partial) complete() bool { return len(p.stack) == 8 }

// labels returns the label indices chosen as rows and as columns, in
// push order.
func (p *partial) labels() (rows, cols [4]int) {
	copy(rows[:], p.rows)
	copy(cols[:], p.cols)
	return
}
