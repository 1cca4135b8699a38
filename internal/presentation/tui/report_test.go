package tui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/playgraph/internal/presentation/tui"
	"github.com/aretw0/playgraph/internal/runtime"
	"github.com/aretw0/playgraph/pkg/dsl"
)

func TestExecutionReport(t *testing.T) {
	play := dsl.Play("report").
		Task("copy config", dsl.Notify("restart nginx")).
		FlushHandlers().
		Handler("restart nginx").
		MustBuild()

	rec := &runtime.Recorder{}
	sched := runtime.NewScheduler(play, runtime.NewRegistry(play))
	require.NoError(t, sched.Run(rec))

	out := tui.ExecutionReport(play.Name, rec)

	assert.Contains(t, out, "## Play: report")
	assert.Contains(t, out, "1. `copy config` (tasks) → notifies `restart nginx`")
	assert.Contains(t, out, "explicit flush inside `tasks`")
	assert.Contains(t, out, "fired `restart nginx` — notified via `restart nginx` by `copy config`")
}

func TestExecutionReport_EmptyPlay(t *testing.T) {
	play := dsl.Play("empty").MustBuild()

	rec := &runtime.Recorder{}
	sched := runtime.NewScheduler(play, runtime.NewRegistry(play))
	require.NoError(t, sched.Run(rec))

	out := tui.ExecutionReport(play.Name, rec)
	assert.Contains(t, out, "_no tasks_")
	assert.Contains(t, out, "_no handlers fired_")
}
