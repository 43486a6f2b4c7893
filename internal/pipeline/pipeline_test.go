package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/ctfenum/ctfenum/internal/model"
)

// namedStep is a stub step recording whether it ran.
type namedStep struct {
	name string
	err  error
	ran  bool
}

func (s *namedStep) Do(context.Context, *model.EnumReport) error {
	s.ran = true
	return s.err
}

func (s *namedStep) Name() string { return s.name }

// TestPipelineExecute tests sequential execution and error handling.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes steps in order", func(t *testing.T) {
		t.Parallel()

		first := &namedStep{name: "scan"}
		second := &namedStep{name: "analyze"}
		third := &namedStep{name: "report"}

		p := New()
		p.AddSteps(first, second, third)

		rep := model.NewEnumReport("10.10.10.5")
		if err := p.Execute(context.Background(), rep); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !first.ran || !second.ran || !third.ran {
			t.Error("expected all steps to run")
		}
		want := []string{"scan", "analyze", "report"}
		if len(rep.PerformedSteps) != len(want) {
			t.Fatalf("expected %d performed steps, got %d", len(want), len(rep.PerformedSteps))
		}
		for i, name := range want {
			if rep.PerformedSteps[i] != name {
				t.Errorf("step %d = %q, want %q", i, rep.PerformedSteps[i], name)
			}
		}
	})

	t.Run("stops at first failure", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		first := &namedStep{name: "scan", err: boom}
		second := &namedStep{name: "analyze"}

		p := New()
		p.AddSteps(first, second)

		rep := model.NewEnumReport("10.10.10.5")
		err := p.Execute(context.Background(), rep)

		if !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
		if second.ran {
			t.Error("expected later steps not to run after a failure")
		}
		if !errors.Is(rep.Error, boom) {
			t.Error("expected error to be recorded on the report")
		}
		if rep.ErrorMessage != "boom" {
			t.Errorf("unexpected error message %q", rep.ErrorMessage)
		}
		if len(rep.PerformedSteps) != 0 {
			t.Error("failed step must not be recorded as performed")
		}
	})

	t.Run("respects cancellation between steps", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &namedStep{name: "scan"}
		p := New()
		p.AddSteps(step)

		rep := model.NewEnumReport("10.10.10.5")
		err := p.Execute(ctx, rep)

		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.ran {
			t.Error("expected no step to run after cancellation")
		}
	})
}

// TestPipelineIntrospection tests StepCount and StepNames.
func TestPipelineIntrospection(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddSteps(&namedStep{name: "scan"}, &namedStep{name: "report"})

	if p.StepCount() != 2 {
		t.Errorf("expected 2 steps, got %d", p.StepCount())
	}
	names := p.StepNames()
	if len(names) != 2 || names[0] != "scan" || names[1] != "report" {
		t.Errorf("unexpected step names %v", names)
	}
}
