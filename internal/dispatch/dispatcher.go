// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/matt-FFFFFF/emurun/internal/ctxlog"
	"github.com/matt-FFFFFF/emurun/internal/graph"
	"github.com/matt-FFFFFF/emurun/internal/shell"
	"github.com/matt-FFFFFF/emurun/internal/task"
	"github.com/matt-FFFFFF/emurun/internal/vars"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrEvaluating is returned when the task set is mutated after
	// evaluation has started.
	ErrEvaluating = errors.New("evaluation has started, task set is frozen")
	// ErrUnknownTask is returned when a named task is not registered.
	ErrUnknownTask = errors.New("unknown task")
	// ErrNoSession is returned when an enabled task is bound to a shell with
	// no configured session.
	ErrNoSession = errors.New("no session configured for shell")
)

// UnknownDependencyError reports a requires/before reference to a task that
// is not registered.
type UnknownDependencyError struct {
	// Task is the task carrying the reference.
	Task string
	// Reference is the missing task name.
	Reference string
}

// Error implements the error interface for UnknownDependencyError.
func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("task %q references unknown task %q", e.Task, e.Reference)
}

// Config is the immutable configuration for a Dispatcher.
type Config struct {
	// GlobalVars is the outermost variable layer.
	GlobalVars map[string]string
	// OverrideVars holds per-task variable overrides, keyed by task name.
	// They are layered over the task's own vars.
	OverrideVars map[string]map[string]string
	// Sessions maps shell names to their sessions. Every shell with at least
	// one enabled task must have a session before Evaluate.
	Sessions map[string]shell.Session
	// Output receives echoed session output. Nil discards it.
	Output io.Writer
}

// node is a task plus its evaluation state. done is closed exactly once,
// when the task reaches a terminal state.
type node struct {
	task *task.Task
	deps []*node
	done chan struct{}

	mu            sync.Mutex
	status        Status
	skipReason    SkipReason
	failedCommand string
	err           error
}

func (n *node) setStatus(s Status) {
	n.mu.Lock()
	n.status = s
	n.mu.Unlock()
}

// finish records a terminal state and releases dependents.
func (n *node) finish(s Status) {
	n.setStatus(s)
	close(n.done)
}

func (n *node) skip(reason SkipReason, err error) {
	n.mu.Lock()
	n.status = StatusSkipped
	n.skipReason = reason
	n.err = err
	n.mu.Unlock()
	close(n.done)
}

func (n *node) fail(cmd string, err error) {
	n.mu.Lock()
	n.status = StatusFailed
	n.failedCommand = cmd
	n.err = err
	n.mu.Unlock()
	close(n.done)
}

// satisfied reports whether a dependent of this node may run: the node
// succeeded, or was skipped because it was disabled.
func (n *node) satisfied() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.status == StatusSucceeded ||
		(n.status == StatusSkipped && n.skipReason == SkipDisabled)
}

func (n *node) result() *TaskResult {
	n.mu.Lock()
	defer n.mu.Unlock()

	return &TaskResult{
		Name:          n.task.Name,
		Shell:         n.task.Shell,
		Status:        n.status,
		SkipReason:    n.skipReason,
		FailedCommand: n.failedCommand,
		Err:           n.err,
	}
}

// Dispatcher holds the full task set and evaluates it against the configured
// shell sessions.
type Dispatcher struct {
	cfg Config

	mu       sync.Mutex
	tasks    []*task.Task
	index    map[string]int
	frozen   bool
	resolved bool
}

// New creates a Dispatcher with the given configuration.
func New(cfg Config) *Dispatcher {
	return &Dispatcher{
		cfg:   cfg,
		index: make(map[string]int),
	}
}

// Register adds a task. Registering a name that already exists replaces the
// existing task in place, preserving its registration position.
func (d *Dispatcher) Register(t *task.Task) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frozen {
		return ErrEvaluating
	}

	if i, ok := d.index[t.Name]; ok {
		d.tasks[i] = t
		return nil
	}

	d.index[t.Name] = len(d.tasks)
	d.tasks = append(d.tasks, t)

	return nil
}

// Enable toggles a task's enabled state by name.
func (d *Dispatcher) Enable(name string, enabled bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frozen {
		return ErrEvaluating
	}

	i, ok := d.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}

	d.tasks[i].Disabled = !enabled

	return nil
}

// Tasks returns the registered tasks in registration order.
func (d *Dispatcher) Tasks() []*task.Task {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]*task.Task, len(d.tasks))
	copy(out, d.tasks)

	return out
}

// Validate performs every configuration check short of execution: variable
// resolution for all commands and dependency graph construction. It returns
// the first configuration error found.
func (d *Dispatcher) Validate(ctx context.Context) error {
	if err := d.resolveVars(ctx); err != nil {
		return err
	}

	_, err := d.plan()

	return err
}

// Plan returns the task execution order that evaluation would use: the
// topological order of the dependency graph with registration-order
// tie-breaking.
func (d *Dispatcher) Plan() ([]*task.Task, error) {
	order, err := d.plan()
	if err != nil {
		return nil, err
	}

	out := make([]*task.Task, len(order))
	for i, n := range order {
		out[i] = n.task
	}

	return out, nil
}

// Evaluate runs the full task set. It returns a report enumerating every
// task's terminal state; the error is nil only when every non-disabled task
// succeeded. Configuration errors abort before any shell interaction.
func (d *Dispatcher) Evaluate(ctx context.Context) (*Report, error) {
	d.mu.Lock()
	if d.frozen {
		d.mu.Unlock()
		return nil, ErrEvaluating
	}

	d.frozen = true
	d.mu.Unlock()

	if err := d.resolveVars(ctx); err != nil {
		return nil, err
	}

	order, err := d.plan()
	if err != nil {
		return nil, err
	}

	// Partition the topological order into one sequential queue per shell.
	queues := make(map[string][]*node)
	shells := make([]string, 0)

	for _, n := range order {
		if _, ok := queues[n.task.Shell]; !ok {
			shells = append(shells, n.task.Shell)
		}

		queues[n.task.Shell] = append(queues[n.task.Shell], n)
	}

	for _, name := range shells {
		if !enabledTasks(queues[name]) {
			continue
		}

		if _, ok := d.cfg.Sessions[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoSession, name)
		}
	}

	g := new(errgroup.Group)

	for _, name := range shells {
		queue := queues[name]
		sess := d.cfg.Sessions[name]

		g.Go(func() error {
			return d.runShell(ctx, name, sess, queue)
		})
	}

	// Worker errors are transport failures; they are already recorded on the
	// affected nodes, so the report is built either way.
	werr := g.Wait()

	report := &Report{Tasks: make([]*TaskResult, 0, len(order))}
	for _, n := range order {
		report.Tasks = append(report.Tasks, n.result())
	}

	if rerr := report.Err(); rerr != nil {
		return report, rerr
	}

	return report, werr
}

// resolveVars substitutes placeholders in every command, exactly once. Any
// unresolved placeholder aborts before a single command is dispatched.
func (d *Dispatcher) resolveVars(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.resolved {
		return nil
	}

	for _, t := range d.tasks {
		scope := vars.NewScope(d.cfg.GlobalVars, t.Vars, d.cfg.OverrideVars[t.Name])

		for _, c := range t.Commands {
			line, err := scope.Resolve(c.Line)
			if err != nil {
				return err
			}

			c.Line = line
		}

		ctxlog.Debug(ctx, "resolved task variables", "task", t.Name)
	}

	d.resolved = true

	return nil
}

// plan validates dependency references, builds the graph and returns the
// wired nodes in topological order.
func (d *Dispatcher) plan() ([]*node, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	b := graph.New()

	for _, t := range d.tasks {
		if err := b.AddNode(t.Name); err != nil {
			return nil, err
		}
	}

	for _, t := range d.tasks {
		for _, ref := range t.Requires {
			if _, ok := d.index[ref]; !ok {
				return nil, &UnknownDependencyError{Task: t.Name, Reference: ref}
			}

			if err := b.AddEdge(ref, t.Name); err != nil {
				return nil, err
			}
		}

		for _, ref := range t.Before {
			if _, ok := d.index[ref]; !ok {
				return nil, &UnknownDependencyError{Task: t.Name, Reference: ref}
			}

			if err := b.AddEdge(t.Name, ref); err != nil {
				return nil, err
			}
		}

		// A task named after its shell is that shell's init task; every
		// other task on the shell implicitly requires it.
		if _, ok := d.index[t.Shell]; ok && t.Shell != t.Name {
			if err := b.AddEdge(t.Shell, t.Name); err != nil {
				return nil, err
			}
		}
	}

	sorted, err := b.TopoSort()
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*node, len(sorted))
	order := make([]*node, 0, len(sorted))

	for _, name := range sorted {
		n := &node{
			task: d.tasks[d.index[name]],
			done: make(chan struct{}),
		}
		nodes[name] = n
		order = append(order, n)
	}

	for _, n := range order {
		for _, dep := range b.Dependencies(n.task.Name) {
			n.deps = append(n.deps, nodes[dep])
		}
	}

	return order, nil
}

func enabledTasks(queue []*node) bool {
	for _, n := range queue {
		if !n.task.Disabled {
			return true
		}
	}

	return false
}
