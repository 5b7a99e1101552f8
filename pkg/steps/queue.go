// Package steps holds the ordered list of build steps and drains it.
//
// A Queue is append-only. Steps run strictly in the order they were added;
// the first step that fails stops the build and nothing after it runs.
// Steps that already ran are not undone.
package steps

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/pybuild/pkg/errors"
	"github.com/arthur-debert/pybuild/pkg/logging"
)

// Step is a labelled action.
type Step struct {
	Group  string
	Action Action
}

// Label renders the step as "group: name:: args".
func (s Step) Label() string {
	label := fmt.Sprintf("%s:: %s", s.Action.Kind(), s.Action.Describe())
	if s.Group == "" {
		return label
	}
	return s.Group + ": " + label
}

// Executor performs a single action.
type Executor interface {
	Execute(ctx context.Context, action Action) error
}

// Printer receives each step right before it runs.
type Printer func(w io.Writer, index int, step Step)

// PlainPrinter writes the bare label.
func PlainPrinter(w io.Writer, _ int, step Step) {
	fmt.Fprintln(w, step.Label())
}

// Queue is an ordered list of steps.
type Queue struct {
	steps   []Step
	out     io.Writer
	printer Printer
}

// NewQueue creates an empty queue that prints labels to out (stdout when nil).
func NewQueue(out io.Writer) *Queue {
	if out == nil {
		out = os.Stdout
	}
	return &Queue{out: out, printer: PlainPrinter}
}

// SetPrinter replaces how labels are printed.
func (q *Queue) SetPrinter(p Printer) {
	if p == nil {
		p = PlainPrinter
	}
	q.printer = p
}

// AddSingle appends one step.
func (q *Queue) AddSingle(group string, action Action) {
	q.steps = append(q.steps, Step{Group: group, Action: action})
}

// AddMulti appends one step per item, in item order, each built by newAction.
func AddMulti[T any](q *Queue, group string, items []T, newAction func(T) Action) {
	for _, item := range items {
		q.AddSingle(group, newAction(item))
	}
}

// Len returns the number of queued steps.
func (q *Queue) Len() int {
	return len(q.steps)
}

// Steps returns a copy of the queued steps.
func (q *Queue) Steps() []Step {
	out := make([]Step, len(q.steps))
	copy(out, q.steps)
	return out
}

// Labels returns the label of every queued step.
func (q *Queue) Labels() []string {
	labels := make([]string, 0, len(q.steps))
	for _, s := range q.steps {
		labels = append(labels, s.Label())
	}
	return labels
}

// Build runs every step in order. For each step the label is printed, then
// the action executed. The first failure is returned and no further step
// runs. The queue is left intact, so Build can be called again.
func (q *Queue) Build(ctx context.Context, exec Executor) (err error) {
	logger := logging.GetLogger("steps")
	ran := 0
	done := logging.TrackBuild(logger, len(q.steps))
	defer func() { done(ran, err) }()

	for i, step := range q.steps {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, errors.ErrStepFailed, "build interrupted before step %d", i+1).
				WithDetail("step", step.Label())
		}

		q.printer(q.out, i, step)

		if err := exec.Execute(ctx, step.Action); err != nil {
			logger.Error().
				Err(err).
				Int("step", i+1).
				Str("label", step.Label()).
				Msg("Step failed")
			return errors.Wrapf(err, errors.ErrStepFailed, "step %d (%s) failed", i+1, step.Action.Kind()).
				WithDetail("step", step.Label()).
				WithDetail("index", i)
		}
		ran++
	}
	return nil
}
