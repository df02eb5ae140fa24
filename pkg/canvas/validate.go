package canvas

import (
	stderrors "errors"
	"slices"

	"github.com/matzehuels/groupflow/pkg/errors"
	"github.com/matzehuels/groupflow/pkg/geom"
)

// Validate checks nodes against the layout invariants and returns every
// violation joined into one error, or nil.
//
// Checked rules:
//   - ids are unique and kinds are declared
//   - a group has no parent (NESTED_GROUP)
//   - a parent reference names an existing group (MISSING_ENTITY, INVALID_KIND)
//   - a parent precedes its members (INVARIANT_VIOLATION)
//   - groups do not overlap horizontally (INVARIANT_VIOLATION)
func Validate(nodes []Node) error {
	var errs []error
	ix := NewIndex(nodes)
	seen := make(map[string]bool, len(nodes))

	for _, n := range nodes {
		if seen[n.ID] {
			errs = append(errs, errors.New(errors.ErrCodeInvariant, "duplicate node id %q", n.ID))
		}
		if !n.Kind.Valid() {
			errs = append(errs, errors.New(errors.ErrCodeInvalidKind, "node %q has undeclared kind %d", n.ID, int(n.Kind)))
		}
		if n.IsGroup() && n.ParentID != "" {
			errs = append(errs, errors.New(errors.ErrCodeNestedGroup, "group %q has parent %q", n.ID, n.ParentID))
		}
		if n.ParentID != "" {
			parent, ok := ix.Node(n.ParentID)
			switch {
			case !ok:
				errs = append(errs, errors.New(errors.ErrCodeMissingEntity, "node %q references missing parent %q", n.ID, n.ParentID))
			case !parent.IsGroup():
				errs = append(errs, errors.New(errors.ErrCodeInvalidKind, "node %q has parent %q of kind %s", n.ID, n.ParentID, parent.Kind))
			case !seen[n.ParentID]:
				errs = append(errs, errors.New(errors.ErrCodeInvariant, "node %q precedes its parent %q", n.ID, n.ParentID))
			}
		}
		seen[n.ID] = true
	}

	errs = append(errs, checkStrip(nodes)...)
	return stderrors.Join(errs...)
}

// checkStrip reports every group that starts before the right edge of an
// earlier group in x order, naming the group that reaches furthest.
func checkStrip(nodes []Node) []error {
	groups := Groups(nodes)
	slices.SortStableFunc(groups, func(a, b Node) int {
		switch {
		case a.Position.X < b.Position.X:
			return -1
		case a.Position.X > b.Position.X:
			return 1
		}
		return 0
	})

	var (
		errs  []error
		reach Node // group with the rightmost edge so far
	)
	for i, cur := range groups {
		b := geom.RectAt(cur.Position, cur.Size)
		if i == 0 {
			reach = cur
			continue
		}
		other := reach
		if prev := groups[i-1]; prev.Position.X == cur.Position.X {
			other = prev
		}
		a := geom.RectAt(other.Position, other.Size)
		if geom.HorizontalOverlap(a, b) || a.Left() == b.Left() {
			errs = append(errs, errors.New(errors.ErrCodeInvariant,
				"groups %q [%g,%g] and %q [%g,%g] overlap horizontally",
				other.ID, a.Left(), a.Right(), cur.ID, b.Left(), b.Right()))
		}
		if r := geom.RectAt(reach.Position, reach.Size); b.Right() > r.Right() {
			reach = cur
		}
	}
	return errs
}
