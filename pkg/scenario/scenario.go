package scenario

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/groupflow/pkg/canvas"
	"github.com/matzehuels/groupflow/pkg/errors"
	"github.com/matzehuels/groupflow/pkg/geom"
	"github.com/matzehuels/groupflow/pkg/grouping"
	"github.com/matzehuels/groupflow/pkg/ids"
	"github.com/matzehuels/groupflow/pkg/store"
)

// Format identifies a scenario encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported scenario format %q", filepath.Ext(path))
}

// Event types.
const (
	EventDrop        = "drop"
	EventDrag        = "drag"
	EventDragMove    = "drag_move"
	EventDragStop    = "drag_stop"
	EventResize      = "resize"
	EventDetach      = "detach"
	EventDeleteGroup = "delete_group"
	EventConnect     = "connect"
)

// Event is one scripted gesture. Which fields apply depends on Type:
//
//   - drop: Kind, X, Y (screen coordinates)
//   - drag: Node, Path (intermediate positions), X, Y (final position)
//   - drag_move, drag_stop: Node, X, Y
//   - resize: Group, Width, Height (0 keeps the current height)
//   - detach: Nodes, RemoveParent
//   - delete_group: Group
//   - connect: Node (source), Target
type Event struct {
	Type         string      `json:"type" toml:"type" yaml:"type"`
	Note         string      `json:"note,omitempty" toml:"note,omitempty" yaml:"note,omitempty"`
	Node         string      `json:"node,omitempty" toml:"node,omitempty" yaml:"node,omitempty"`
	Kind         string      `json:"kind,omitempty" toml:"kind,omitempty" yaml:"kind,omitempty"`
	X            float64     `json:"x,omitempty" toml:"x,omitempty" yaml:"x,omitempty"`
	Y            float64     `json:"y,omitempty" toml:"y,omitempty" yaml:"y,omitempty"`
	Path         [][]float64 `json:"path,omitempty" toml:"path,omitempty" yaml:"path,omitempty"`
	Group        string      `json:"group,omitempty" toml:"group,omitempty" yaml:"group,omitempty"`
	Width        float64     `json:"width,omitempty" toml:"width,omitempty" yaml:"width,omitempty"`
	Height       float64     `json:"height,omitempty" toml:"height,omitempty" yaml:"height,omitempty"`
	Nodes        []string    `json:"nodes,omitempty" toml:"nodes,omitempty" yaml:"nodes,omitempty"`
	RemoveParent string      `json:"remove_parent,omitempty" toml:"remove_parent,omitempty" yaml:"remove_parent,omitempty"`
	Target       string      `json:"target,omitempty" toml:"target,omitempty" yaml:"target,omitempty"`
}

// Point returns the event's X/Y pair.
func (e Event) Point() geom.Point { return geom.Point{X: e.X, Y: e.Y} }

// String summarizes the event for logs and step listings.
func (e Event) String() string {
	if e.Note != "" {
		return e.Type + ": " + e.Note
	}
	switch e.Type {
	case EventDrop:
		return e.Type + " " + e.Kind
	case EventDrag, EventDragMove, EventDragStop:
		return e.Type + " " + e.Node
	case EventResize, EventDeleteGroup:
		return e.Type + " " + e.Group
	case EventDetach:
		return e.Type + " " + strings.Join(e.Nodes, ",")
	case EventConnect:
		return e.Type + " " + e.Node + "->" + e.Target
	}
	return e.Type
}

// Expectation asserts the final state of one node after a replay. Nil
// fields are not checked.
type Expectation struct {
	Node   string   `toml:"node" yaml:"node"`
	Parent *string  `toml:"parent,omitempty" yaml:"parent,omitempty"`
	X      *float64 `toml:"x,omitempty" yaml:"x,omitempty"`
	Y      *float64 `toml:"y,omitempty" yaml:"y,omitempty"`
	Width  *float64 `toml:"width,omitempty" yaml:"width,omitempty"`
	Absent bool     `toml:"absent,omitempty" yaml:"absent,omitempty"`
}

// Settings is the [options] table of a scenario file.
type Settings struct {
	ProbeSize        []float64 `toml:"probe,omitempty" yaml:"probe,omitempty"`
	DefaultGroupSize []float64 `toml:"default_group_size,omitempty" yaml:"default_group_size,omitempty"`
	MinGroupSize     []float64 `toml:"min_group_size,omitempty" yaml:"min_group_size,omitempty"`
	TieBreak         string    `toml:"tie_break,omitempty" yaml:"tie_break,omitempty"`
	IDSource         string    `toml:"id_source,omitempty" yaml:"id_source,omitempty"`
}

type nodeSpec struct {
	ID     string  `toml:"id" yaml:"id"`
	Kind   string  `toml:"kind" yaml:"kind"`
	Label  string  `toml:"label,omitempty" yaml:"label,omitempty"`
	X      float64 `toml:"x" yaml:"x"`
	Y      float64 `toml:"y" yaml:"y"`
	Width  float64 `toml:"width,omitempty" yaml:"width,omitempty"`
	Height float64 `toml:"height,omitempty" yaml:"height,omitempty"`
	Parent string  `toml:"parent,omitempty" yaml:"parent,omitempty"`
}

type edgeSpec struct {
	ID     string `toml:"id,omitempty" yaml:"id,omitempty"`
	Source string `toml:"source" yaml:"source"`
	Target string `toml:"target" yaml:"target"`
}

// file mirrors the on-disk layout. TOML uses singular array-of-table names,
// YAML plural list keys.
type file struct {
	Name     string         `toml:"name" yaml:"name"`
	Options  Settings       `toml:"options" yaml:"options"`
	Viewport store.Viewport `toml:"viewport" yaml:"viewport"`
	Nodes    []nodeSpec     `toml:"node" yaml:"nodes"`
	Edges    []edgeSpec     `toml:"edge" yaml:"edges"`
	Events   []Event        `toml:"event" yaml:"events"`
	Expect   []Expectation  `toml:"expect" yaml:"expect"`
}

// Scenario is a decoded and validated scenario.
type Scenario struct {
	Name     string
	Settings Settings
	Viewport store.Viewport
	Nodes    []canvas.Node
	Edges    []canvas.Edge
	Events   []Event
	Expect   []Expectation
}

// Load reads and validates the scenario at path.
func Load(path string) (*Scenario, error) {
	if err := errors.ValidateScenarioPath(path); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scenario not found")
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read scenario")
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes and validates a scenario document.
func Parse(data []byte, format Format) (*Scenario, error) {
	var f file
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "decode toml")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "decode yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported scenario format %q", format)
	}
	return f.build()
}

func (f *file) build() (*Scenario, error) {
	s := &Scenario{
		Name:     f.Name,
		Settings: f.Options,
		Viewport: f.Viewport,
		Events:   f.Events,
		Expect:   f.Expect,
	}
	if _, err := s.Options(nil); err != nil {
		return nil, err
	}
	if _, err := ids.Named(f.Options.IDSource); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "options")
	}
	if err := errors.ValidateFinite("viewport zoom", f.Viewport.Zoom); err != nil || f.Viewport.Zoom < 0 {
		return nil, errors.New(errors.ErrCodeInvalidScenario, "viewport zoom must be a non-negative number")
	}

	for i, ns := range f.Nodes {
		n, err := ns.node()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "node #%d", i+1)
		}
		s.Nodes = append(s.Nodes, n)
	}
	if err := canvas.Validate(canvas.SortRenderOrder(s.Nodes)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "seed nodes violate layout rules")
	}

	for i, es := range f.Edges {
		if es.Source == "" || es.Target == "" {
			return nil, errors.New(errors.ErrCodeInvalidScenario, "edge #%d: source and target are required", i+1)
		}
		id := es.ID
		if id == "" {
			id = store.EdgeID(es.Source, es.Target)
		}
		s.Edges = append(s.Edges, canvas.Edge{ID: id, Source: es.Source, Target: es.Target, Style: canvas.DefaultEdgeStyle})
	}

	for i, ev := range f.Events {
		if err := ev.Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "event #%d", i+1)
		}
	}
	for i, ex := range f.Expect {
		if ex.Node == "" {
			return nil, errors.New(errors.ErrCodeInvalidScenario, "expect #%d: node is required", i+1)
		}
	}
	return s, nil
}

func (ns nodeSpec) node() (canvas.Node, error) {
	if err := errors.ValidateNodeID(ns.ID); err != nil {
		return canvas.Node{}, err
	}
	kind, err := canvas.ParseKind(ns.Kind)
	if err != nil {
		return canvas.Node{}, err
	}
	for name, v := range map[string]float64{"x": ns.X, "y": ns.Y} {
		if err := errors.ValidateFinite(name, v); err != nil {
			return canvas.Node{}, err
		}
	}
	for name, v := range map[string]float64{"width": ns.Width, "height": ns.Height} {
		if err := errors.ValidateDimension(name, v); err != nil {
			return canvas.Node{}, err
		}
	}
	label := ns.Label
	if label == "" {
		label = ns.ID
	}
	return canvas.Node{
		ID:        ns.ID,
		Kind:      kind,
		Label:     label,
		Position:  geom.Point{X: ns.X, Y: ns.Y},
		Size:      geom.Size{Width: ns.Width, Height: ns.Height},
		ParentID:  ns.Parent,
		Contained: ns.Parent != "",
	}, nil
}

// Validate checks that the fields required by the event type are present
// and well formed.
func (e Event) Validate() error {
	need := func(field, v string) error {
		if v == "" {
			return errors.New(errors.ErrCodeInvalidInput, "%s event requires %s", e.Type, field)
		}
		return nil
	}
	for name, v := range map[string]float64{"x": e.X, "y": e.Y} {
		if err := errors.ValidateFinite(name, v); err != nil {
			return err
		}
	}

	switch e.Type {
	case EventDrop:
		_, err := canvas.ParseKind(e.Kind)
		return err
	case EventDrag:
		for i, p := range e.Path {
			if len(p) != 2 {
				return errors.New(errors.ErrCodeInvalidInput, "path point #%d must be [x, y]", i+1)
			}
		}
		return need("node", e.Node)
	case EventDragMove, EventDragStop:
		return need("node", e.Node)
	case EventResize:
		if err := errors.ValidateDimension("width", e.Width); err != nil {
			return err
		}
		if err := errors.ValidateDimension("height", e.Height); err != nil {
			return err
		}
		return need("group", e.Group)
	case EventDetach:
		if len(e.Nodes) == 0 && e.RemoveParent == "" {
			return errors.New(errors.ErrCodeInvalidInput, "detach event requires nodes or remove_parent")
		}
		return nil
	case EventDeleteGroup:
		return need("group", e.Group)
	case EventConnect:
		if err := need("node", e.Node); err != nil {
			return err
		}
		return need("target", e.Target)
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown event type %q", e.Type)
}

// Options converts the scenario settings into engine options. The logger is
// passed through unchanged.
func (s *Scenario) Options(logger *log.Logger) (grouping.Options, error) {
	opts := grouping.Options{Logger: logger}
	var err error
	if opts.ProbeSize, err = sizeOf("probe", s.Settings.ProbeSize); err != nil {
		return opts, err
	}
	if opts.DefaultGroupSize, err = sizeOf("default_group_size", s.Settings.DefaultGroupSize); err != nil {
		return opts, err
	}
	if opts.MinGroupSize, err = sizeOf("min_group_size", s.Settings.MinGroupSize); err != nil {
		return opts, err
	}
	if opts.TieBreak, err = grouping.ParseTieBreak(s.Settings.TieBreak); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidScenario, err, "options")
	}
	return opts, nil
}

func sizeOf(name string, v []float64) (geom.Size, error) {
	switch len(v) {
	case 0:
		return geom.Size{}, nil
	case 2:
		if v[0] > 0 && v[1] > 0 {
			return geom.Size{Width: v[0], Height: v[1]}, nil
		}
	}
	return geom.Size{}, errors.New(errors.ErrCodeInvalidScenario, "options.%s must be [width, height] with positive values", name)
}

// Session bundles the store and engine a scenario runs against.
type Session struct {
	Store  *store.Store
	Engine *grouping.Engine
}

// NewSession seeds a fresh store from the scenario and binds an engine to
// it. Overrides, when non-nil, adjust the options decoded from the file.
// Sequence ids already used by seeded nodes are skipped.
func (s *Scenario) NewSession(logger *log.Logger, override func(*grouping.Options)) (*Session, error) {
	opts, err := s.Options(logger)
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(&opts)
	}
	src, err := ids.Named(s.Settings.IDSource)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "options")
	}

	st := store.New(s.Nodes, s.Edges, s.Viewport)
	if seq, ok := src.(*ids.Sequence); ok {
		seq.Skip(func(id string) bool {
			_, taken := st.Node(id)
			return taken
		})
	}
	return &Session{Store: st, Engine: grouping.New(st, src, opts)}, nil
}
