package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/groupflow/pkg/errors"
	"github.com/matzehuels/groupflow/pkg/geom"
	"github.com/matzehuels/groupflow/pkg/grouping"
)

const stripScenario = "../../examples/scenarios/strip.toml"

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"replay", "check", "render", "step", "serve", "completion"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    geom.Size
		wantErr bool
	}{
		{"40x40", geom.Size{Width: 40, Height: 40}, false},
		{"120X30.5", geom.Size{Width: 120, Height: 30.5}, false},
		{" 10x20 ", geom.Size{Width: 10, Height: 20}, false},
		{"40", geom.Size{}, true},
		{"ax40", geom.Size{}, true},
		{"40xb", geom.Size{}, true},
		{"0x40", geom.Size{}, true},
		{"-5x40", geom.Size{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidInput)
				}
				return
			}
			if got != tt.want {
				t.Errorf("parseSize(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEngineFlagsOverride(t *testing.T) {
	f := engineFlags{probe: "10x20", tieBreak: "first"}
	override, err := f.override()
	if err != nil {
		t.Fatalf("override() error: %v", err)
	}

	opts := grouping.Options{ProbeSize: geom.Size{Width: 40, Height: 40}, TieBreak: grouping.TieBreakLargestOverlap}
	override(&opts)
	if opts.ProbeSize != (geom.Size{Width: 10, Height: 20}) {
		t.Errorf("ProbeSize = %+v, want 10x20", opts.ProbeSize)
	}
	if opts.TieBreak != grouping.TieBreakFirst {
		t.Errorf("TieBreak = %q, want %q", opts.TieBreak, grouping.TieBreakFirst)
	}

	// Unset flags keep the scenario's values.
	override, err = (&engineFlags{}).override()
	if err != nil {
		t.Fatalf("override() error: %v", err)
	}
	before := opts
	override(&opts)
	if opts != before {
		t.Errorf("empty flags changed options: %+v -> %+v", before, opts)
	}

	if _, err := (&engineFlags{tieBreak: "closest"}).override(); err == nil {
		t.Error("expected error for unknown tie-break")
	}
	if _, err := (&engineFlags{probe: "big"}).override(); err == nil {
		t.Error("expected error for malformed probe")
	}
}

func TestValidateRenderFormat(t *testing.T) {
	for _, f := range []string{"dot", "svg", "pdf", "png"} {
		if err := validateRenderFormat(f); err != nil {
			t.Errorf("validateRenderFormat(%q) = %v", f, err)
		}
	}
	err := validateRenderFormat("json")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("validateRenderFormat(json) = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestReplayCommand(t *testing.T) {
	if err := execute(t, "replay", "-q", stripScenario); err != nil {
		t.Fatalf("replay: %v", err)
	}
}

func TestCheckCommand(t *testing.T) {
	if err := execute(t, "check", stripScenario, "../../examples/scenarios/regroup.yaml"); err != nil {
		t.Fatalf("check: %v", err)
	}

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	doc := `
[[node]]
id = "g"
kind = "group"
x = 0
y = 0
width = 100
height = 100

[[expect]]
node = "g"
x = 50
`
	if err := os.WriteFile(bad, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	err := execute(t, "check", stripScenario, bad)
	if !errors.Is(err, errors.ErrCodeInvariant) {
		t.Fatalf("check with failing scenario = %v, want %s", err, errors.ErrCodeInvariant)
	}
}

func TestReplayRejectsBadFlags(t *testing.T) {
	if err := execute(t, "replay", "--probe", "wide", stripScenario); err == nil {
		t.Error("expected error for malformed --probe")
	}
	if err := execute(t, "replay", "--id-source", "ulid", stripScenario); err == nil {
		t.Error("expected error for unknown --id-source")
	}
}

func TestRenderDOT(t *testing.T) {
	out := filepath.Join(t.TempDir(), "strip.dot")
	if err := execute(t, "render", "-f", "dot", "-o", out, stripScenario); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	src := string(data)
	for _, want := range []string{
		"digraph canvas {",
		`subgraph "cluster_g2"`,
		`subgraph "cluster_dndnode_1"`,
		`"n" -> "dndnode_0"`,
	} {
		if !strings.Contains(src, want) {
			t.Errorf("DOT output missing %q", want)
		}
	}
	if strings.Contains(src, "cluster_g1") {
		t.Error("deleted group g1 still rendered")
	}
}

func TestRenderRejectsFormat(t *testing.T) {
	err := execute(t, "render", "-f", "gif", "-o", filepath.Join(t.TempDir(), "x.gif"), stripScenario)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("render -f gif = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func completeOutput(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(&buf)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return buf.String()
}

func TestCompletionScript(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			if out := completeOutput(t, "completion", shell); !strings.Contains(out, "groupflow") {
				t.Errorf("%s script does not mention groupflow", shell)
			}
		})
	}
	if err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell accepted")
	}
}

func TestCompletionValues(t *testing.T) {
	out := completeOutput(t, cobra.ShellCompRequestCmd, "replay", "--tie-break", "")
	for _, want := range []string{"largest-overlap", "first"} {
		if !strings.Contains(out, want) {
			t.Errorf("tie-break completions = %q, missing %s", out, want)
		}
	}

	out = completeOutput(t, cobra.ShellCompRequestCmd, "check", "--id-source", "")
	if !strings.Contains(out, "seq") || !strings.Contains(out, "uuid") {
		t.Errorf("id-source completions = %q", out)
	}

	out = completeOutput(t, cobra.ShellCompRequestCmd, "render", "")
	for _, ext := range scenarioExts {
		if !strings.Contains(out, ext) {
			t.Errorf("scenario completions = %q, missing %s", out, ext)
		}
	}
}
