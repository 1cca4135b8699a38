package dsl

import (
	"fmt"

	"github.com/aretw0/playgraph/pkg/domain"
)

// PlayBuilder accumulates tasks and handlers for one play.
type PlayBuilder struct {
	play domain.Play
}

// Play starts a builder for a play with the given name.
func Play(name string) *PlayBuilder {
	return &PlayBuilder{
		play: domain.Play{Name: name, Hosts: "all"},
	}
}

// Hosts sets the host pattern of the play.
func (b *PlayBuilder) Hosts(pattern string) *PlayBuilder {
	b.play.Hosts = pattern
	return b
}

// TaskOption configures a task or handler added through the builder.
type TaskOption func(*taskConfig)

type taskConfig struct {
	notify    []string
	listen    []string
	unchanged bool
	when      string
	role      string
}

// Notify declares the handler names or topics the task notifies when changed.
func Notify(targets ...string) TaskOption {
	return func(c *taskConfig) {
		c.notify = append(c.notify, targets...)
	}
}

// Listen subscribes a handler to one or more topics. Ignored on plain tasks.
func Listen(topics ...string) TaskOption {
	return func(c *taskConfig) {
		c.listen = append(c.listen, topics...)
	}
}

// Unchanged marks the task as never reporting a change, so it never notifies.
func Unchanged() TaskOption {
	return func(c *taskConfig) {
		c.unchanged = true
	}
}

// When attaches a display-only condition annotation.
func When(condition string) TaskOption {
	return func(c *taskConfig) {
		c.when = condition
	}
}

// FromRole tags the task with the role it came from.
func FromRole(role string) TaskOption {
	return func(c *taskConfig) {
		c.role = role
	}
}

func makeTask(name string, opts []TaskOption) (domain.Task, []string) {
	var cfg taskConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return domain.Task{
		Name:    name,
		Kind:    domain.TaskRegular,
		Changed: !cfg.unchanged,
		Notify:  cfg.notify,
		When:    cfg.when,
		Role:    cfg.role,
	}, cfg.listen
}

// PreTask appends a task to the pre_tasks block.
func (b *PlayBuilder) PreTask(name string, opts ...TaskOption) *PlayBuilder {
	t, _ := makeTask(name, opts)
	b.play.PreTasks = append(b.play.PreTasks, t)
	return b
}

// Task appends a task to the tasks block.
func (b *PlayBuilder) Task(name string, opts ...TaskOption) *PlayBuilder {
	t, _ := makeTask(name, opts)
	b.play.Tasks = append(b.play.Tasks, t)
	return b
}

// PostTask appends a task to the post_tasks block.
func (b *PlayBuilder) PostTask(name string, opts ...TaskOption) *PlayBuilder {
	t, _ := makeTask(name, opts)
	b.play.PostTasks = append(b.play.PostTasks, t)
	return b
}

// FlushHandlers inserts a `meta: flush_handlers` marker into the tasks block.
func (b *PlayBuilder) FlushHandlers() *PlayBuilder {
	b.play.Tasks = append(b.play.Tasks, domain.Task{Kind: domain.TaskFlushHandlers})
	return b
}

// Handler appends a handler. Handlers keep the order they are added in; that
// order decides firing order when several are triggered together.
func (b *PlayBuilder) Handler(name string, opts ...TaskOption) *PlayBuilder {
	t, listen := makeTask(name, opts)
	b.play.Handlers = append(b.play.Handlers, domain.Handler{Task: t, Listen: listen})
	return b
}

// Build validates the play and returns it with a fresh ID.
func (b *PlayBuilder) Build() (*domain.Play, error) {
	play := b.play
	play.ID = domain.GenerateID("play_")
	if err := play.Validate(); err != nil {
		return nil, fmt.Errorf("building play %q: %w", play.Name, err)
	}
	return &play, nil
}

// MustBuild is Build for tests and examples; it panics on invalid plays.
func (b *PlayBuilder) MustBuild() *domain.Play {
	play, err := b.Build()
	if err != nil {
		panic(err)
	}
	return play
}
