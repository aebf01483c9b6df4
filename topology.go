// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

// successors maps every element to the elements its output drives.
func (c *Circuit) successors() map[ElementID][]ElementID {
	succ := make(map[ElementID][]ElementID, len(c.order))
	for _, w := range c.Wires() {
		pf, pt := c.pins[w.From], c.pins[w.To]
		if pf == nil || pt == nil {
			continue
		}
		succ[pf.Element] = append(succ[pf.Element], pt.Element)
	}
	return succ
}

// Levels computes the logic level of every element: elements with no driven
// input are at level 0 and any other element sits one level above its
// highest driver.
//
// Elements that cannot be levelized are on a feedback loop or downstream of
// one; they are missing from levels. feedback lists, in placement order, the
// ones that are on a directed cycle.
//
func (c *Circuit) Levels() (levels map[ElementID]int, feedback []ElementID) {
	succ := c.successors()
	indeg := make(map[ElementID]int, len(c.order))
	for _, ss := range succ {
		for _, s := range ss {
			indeg[s]++
		}
	}

	levels = make(map[ElementID]int, len(c.order))
	lv := make(map[ElementID]int, len(c.order))
	var queue []ElementID
	for _, id := range c.order {
		if indeg[id] == 0 {
			levels[id] = 0
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, s := range succ[id] {
			if l := levels[id] + 1; l > lv[s] {
				lv[s] = l
			}
			indeg[s]--
			if indeg[s] == 0 {
				levels[s] = lv[s]
				queue = append(queue, s)
			}
		}
	}

	if len(levels) == len(c.order) {
		return levels, nil
	}
	for _, id := range c.order {
		if _, ok := levels[id]; ok {
			continue
		}
		if c.onCycle(id, succ, levels) {
			feedback = append(feedback, id)
		}
	}
	return levels, feedback
}

// onCycle returns true if id can reach itself. Levelized elements are skipped
// since they cannot be part of a cycle.
func (c *Circuit) onCycle(id ElementID, succ map[ElementID][]ElementID, levels map[ElementID]int) bool {
	seen := make(map[ElementID]bool)
	stack := append([]ElementID(nil), succ[id]...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == id {
			return true
		}
		if _, ok := levels[n]; ok || seen[n] {
			continue
		}
		seen[n] = true
		stack = append(stack, succ[n]...)
	}
	return false
}

// Depth returns the highest logic level in the circuit, or -1 if the circuit
// is empty or has a feedback loop.
//
func (c *Circuit) Depth() int {
	levels, _ := c.Levels()
	if len(c.order) == 0 || len(levels) != len(c.order) {
		return -1
	}
	depth := 0
	for _, l := range levels {
		if l > depth {
			depth = l
		}
	}
	return depth
}

// Reaches returns true if a signal on pin from can reach pin to, following
// wires from output to input pins and gates from input to output pins.
//
func (c *Circuit) Reaches(from, to PinID) bool {
	if c.pins[from] == nil || c.pins[to] == nil {
		return false
	}
	fanout := make(map[PinID][]PinID, len(c.wires))
	for _, w := range c.wires {
		fanout[w.From] = append(fanout[w.From], w.To)
	}
	seen := map[PinID]bool{from: true}
	stack := []PinID{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == to {
			return true
		}
		p := c.pins[n]
		var next []PinID
		if p.Dir == Out {
			next = fanout[n]
		} else if e := c.elements[p.Element]; e != nil && e.Kind.IsGate() {
			if o := e.Output(); o != NoPin {
				next = []PinID{o}
			}
		}
		for _, m := range next {
			if !seen[m] && c.pins[m] != nil {
				seen[m] = true
				stack = append(stack, m)
			}
		}
	}
	return false
}

// ClosesLoop returns true if a wire from pin from to pin to would create a
// feedback loop.
//
func (c *Circuit) ClosesLoop(from, to PinID) bool {
	return c.Reaches(to, from)
}
