package scenario

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/matzehuels/groupflow/pkg/canvas"
	"github.com/matzehuels/groupflow/pkg/errors"
	"github.com/matzehuels/groupflow/pkg/geom"
	"github.com/matzehuels/groupflow/pkg/grouping"
	"github.com/matzehuels/groupflow/pkg/store"
)

// Step records the outcome of one replayed event.
type Step struct {
	Index    int
	Event    Event
	Err      error  // engine or host error; the event committed nothing
	Created  string // id of the node created by a drop, or the edge by a connect
	Version  int
	Nodes    []canvas.Node
	Duration time.Duration
}

// Skipped reports whether the event degraded to a no-op.
func (s Step) Skipped() bool { return s.Err != nil }

// Replay applies events in order. Engine errors do not stop the replay:
// they are recorded on the step, matching how a host ignores a gesture that
// could not be applied. Replay stops early only when ctx is done.
//
// onStep, when non-nil, is called after every event.
func Replay(ctx context.Context, eng *grouping.Engine, st *store.Store, events []Event, onStep func(Step)) ([]Step, error) {
	steps := make([]Step, 0, len(events))
	for i, ev := range events {
		if err := ctx.Err(); err != nil {
			return steps, err
		}

		step := run(eng, st, i, ev)
		steps = append(steps, step)
		if onStep != nil {
			onStep(step)
		}
	}
	return steps, nil
}

// Stepper replays events one at a time, for interactive front ends.
type Stepper struct {
	eng    *grouping.Engine
	st     *store.Store
	events []Event
	next   int
}

// NewStepper returns a stepper positioned before the first event.
func NewStepper(sess *Session, events []Event) *Stepper {
	return &Stepper{eng: sess.Engine, st: sess.Store, events: events}
}

// Done reports whether every event has been applied.
func (s *Stepper) Done() bool { return s.next >= len(s.events) }

// Len returns the number of events.
func (s *Stepper) Len() int { return len(s.events) }

// Next applies the next event.
func (s *Stepper) Next() (Step, bool) {
	if s.Done() {
		return Step{}, false
	}
	step := run(s.eng, s.st, s.next, s.events[s.next])
	s.next++
	return step, true
}

func run(eng *grouping.Engine, st *store.Store, i int, ev Event) Step {
	start := time.Now()
	created, err := Apply(eng, st, ev)
	snap := st.Snapshot()
	return Step{
		Index:    i,
		Event:    ev,
		Err:      err,
		Created:  created,
		Version:  snap.Version,
		Nodes:    snap.Nodes,
		Duration: time.Since(start),
	}
}

// Apply performs one event against the engine and its store. It returns the
// id of the node or edge the event created, if any.
func Apply(eng *grouping.Engine, st *store.Store, ev Event) (string, error) {
	switch ev.Type {
	case EventDrop:
		kind, err := canvas.ParseKind(ev.Kind)
		if err != nil {
			return "", err
		}
		return eng.Drop(kind, ev.Point())

	case EventDrag:
		for _, p := range ev.Path {
			n, err := st.MoveNode(ev.Node, geom.Point{X: p[0], Y: p[1]})
			if err != nil {
				return "", err
			}
			if err := eng.DragMove(n); err != nil {
				return "", err
			}
		}
		n, err := st.MoveNode(ev.Node, ev.Point())
		if err != nil {
			return "", err
		}
		return "", eng.DragStop(n)

	case EventDragMove:
		n, err := st.MoveNode(ev.Node, ev.Point())
		if err != nil {
			return "", err
		}
		return "", eng.DragMove(n)

	case EventDragStop:
		n, err := st.MoveNode(ev.Node, ev.Point())
		if err != nil {
			return "", err
		}
		return "", eng.DragStop(n)

	case EventResize:
		return "", eng.Resize(ev.Group, geom.Size{Width: ev.Width, Height: ev.Height})

	case EventDetach:
		return "", eng.Detach(ev.Nodes, ev.RemoveParent)

	case EventDeleteGroup:
		return "", eng.DeleteGroup(ev.Group)

	case EventConnect:
		e, err := st.Connect(ev.Node, ev.Target)
		return e.ID, err
	}
	return "", errors.New(errors.ErrCodeInvalidScenario, "unknown event type %q", ev.Type)
}

// Check compares nodes with the expectations and returns every mismatch
// joined into one error, or nil.
func Check(nodes []canvas.Node, expect []Expectation) error {
	ix := canvas.NewIndex(nodes)
	var errs []error
	for _, ex := range expect {
		n, ok := ix.Node(ex.Node)
		switch {
		case ex.Absent && ok:
			errs = append(errs, fmt.Errorf("%s: expected to be absent", ex.Node))
			continue
		case ex.Absent:
			continue
		case !ok:
			errs = append(errs, fmt.Errorf("%s: not found", ex.Node))
			continue
		}
		if ex.Parent != nil && n.ParentID != *ex.Parent {
			errs = append(errs, fmt.Errorf("%s: parent %q, want %q", ex.Node, n.ParentID, *ex.Parent))
		}
		if ex.X != nil && n.Position.X != *ex.X {
			errs = append(errs, fmt.Errorf("%s: x %g, want %g", ex.Node, n.Position.X, *ex.X))
		}
		if ex.Y != nil && n.Position.Y != *ex.Y {
			errs = append(errs, fmt.Errorf("%s: y %g, want %g", ex.Node, n.Position.Y, *ex.Y))
		}
		if ex.Width != nil && n.Size.Width != *ex.Width {
			errs = append(errs, fmt.Errorf("%s: width %g, want %g", ex.Node, n.Size.Width, *ex.Width))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Wrap(errors.ErrCodeInvariant, stderrors.Join(errs...), "%d expectation(s) failed", len(errs))
}
