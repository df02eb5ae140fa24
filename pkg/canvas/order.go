package canvas

// SortRenderOrder returns a copy of nodes in which every parent precedes its
// members.
//
// The sort is stable and minimal: nodes keep their relative order, and a
// member is only moved when its parent appears after it, in which case it is
// placed immediately after the parent (after any earlier members that were
// moved the same way). Members whose parent is absent from the collection
// are emitted at the end in their original order so no node is dropped.
// Sorting an already ordered collection returns an identical sequence.
func SortRenderOrder(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.ID] = true
	}

	emitted := make(map[string]bool, len(nodes))
	placed := make([]bool, len(nodes))
	waiting := make(map[string][]int)
	var emit func(i int)
	emit = func(i int) {
		out = append(out, nodes[i])
		placed[i] = true
		emitted[nodes[i].ID] = true
		if kids, ok := waiting[nodes[i].ID]; ok {
			delete(waiting, nodes[i].ID)
			for _, k := range kids {
				emit(k)
			}
		}
	}

	var orphans []int
	for i, n := range nodes {
		switch {
		case n.ParentID == "" || emitted[n.ParentID]:
			emit(i)
		case present[n.ParentID]:
			waiting[n.ParentID] = append(waiting[n.ParentID], i)
		default:
			orphans = append(orphans, i)
		}
	}
	for _, i := range orphans {
		emit(i)
	}

	// Cyclic parent references (only possible in corrupt input) never
	// flush; keep those nodes in input order.
	for i := range nodes {
		if !placed[i] {
			out = append(out, nodes[i])
		}
	}
	return out
}

// IsRenderOrdered reports whether every member appears after its parent.
func IsRenderOrdered(nodes []Node) bool {
	seen := make(map[string]bool, len(nodes))
	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.ID] = true
	}
	for _, n := range nodes {
		if n.ParentID != "" && present[n.ParentID] && !seen[n.ParentID] {
			return false
		}
		seen[n.ID] = true
	}
	return true
}
