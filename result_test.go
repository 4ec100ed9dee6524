package combo

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCollapse(t *testing.T) {
	tests := []struct {
		name string
		in   []Result
		want Result
	}{
		{"nothing", nil, Ignored},
		{"only ignored", []Result{Ignored, Ignored}, Ignored},
		{"one value", []Result{Value(1)}, Value(1)},
		{"one value among ignored", []Result{Ignored, Value("x"), Ignored}, Value("x")},
		{"many", []Result{Value(1), Ignored, Value(2)}, Value([]any{1, 2})},
		{"nil is a value", []Result{Value(nil)}, Value(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collapse(tt.in)
			if got.IsIgnored() != tt.want.IsIgnored() {
				t.Fatalf("collapse ignored = %v, want %v", got.IsIgnored(), tt.want.IsIgnored())
			}
			if diff := cmp.Diff(tt.want.Get(), got.Get()); diff != "" {
				t.Errorf("collapse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStrip(t *testing.T) {
	in := []any{1, Ignored, []any{Ignored, "a", []any{Value(2), Ignored}}, Value("b")}
	got, ok := strip(in)
	if !ok {
		t.Fatal("strip dropped a list")
	}
	want := []any{1, []any{"a", []any{2}}, "b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("strip mismatch (-want +got):\n%s", diff)
	}

	if _, ok := strip(Ignored); ok {
		t.Error("strip kept Ignored")
	}
}

func TestStatesAreSnapshots(t *testing.T) {
	base := NewState(NewText("")).Push(1)
	left := base.Push("left")
	right := base.Push("right").pushLabel("r")

	if diff := cmp.Diff([]any{1}, base.Results()); diff != "" {
		t.Errorf("base changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{1, "left"}, left.Results()); diff != "" {
		t.Errorf("left mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{1, "right"}, right.Results()); diff != "" {
		t.Errorf("right mismatch (-want +got):\n%s", diff)
	}
	if len(left.Labels()) != 0 {
		t.Errorf("left sees labels %v pushed on a sibling", left.Labels())
	}

	if diff := cmp.Diff([]Result{Value("right")}, right.pushedSince(base), cmp.AllowUnexported(Result{})); diff != "" {
		t.Errorf("pushedSince mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(base.Results(), right.resultsOf(base).Results()); diff != "" {
		t.Errorf("resultsOf mismatch (-want +got):\n%s", diff)
	}
}

func TestFailedStateIsFrozen(t *testing.T) {
	s := NewState(NewText("abc")).Fail("stop")
	for _, p := range []Parser{Pure(1), Zero(), EOF(), Fatal("later")} {
		next := p(s)
		if next.Err != s.Err || next.Pos != s.Pos || len(next.Results()) != 0 {
			t.Errorf("parser changed a failed state: %+v", next)
		}
	}
}

func TestPositionAdvanceText(t *testing.T) {
	tests := []struct {
		in   string
		want Position
	}{
		{"", Position{Line: 1, Column: 0}},
		{"abc", Position{Line: 1, Column: 3}},
		{"ab\ncd", Position{Line: 2, Column: 2}},
		{"x\r\n", Position{Line: 2, Column: 0}},
		{"héllo", Position{Line: 1, Column: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, StartPosition().AdvanceText(tt.in)); diff != "" {
				t.Errorf("position mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
