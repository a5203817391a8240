package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgridgo/internal/workflow"
)

func TestGroupDeterministicAggregation(t *testing.T) {
	// Stagger sleeps so completion order is the reverse of declaration
	// order, then check the merged context is keyed purely by name.
	delays := []time.Duration{60 * time.Millisecond, 30 * time.Millisecond, 5 * time.Millisecond}

	for run := 0; run < 2; run++ {
		plan := workflow.NewPlan("p",
			workflow.NewGroup("g",
				&workflow.Step{Name: "a", Unit: sleepingUnit(delays[0], "va")},
				&workflow.Step{Name: "b", Unit: sleepingUnit(delays[1], "vb")},
				&workflow.Step{Name: "c", Unit: sleepingUnit(delays[2], "vc")},
			),
		)

		execCtx, report, err := New(Options{}).Run(context.Background(), plan, nil)
		require.NoError(t, err)
		require.True(t, report.OK())

		group, ok := execCtx.Get("g")
		require.True(t, ok)
		assert.Equal(t, map[string]any{"a": "va", "b": "vb", "c": "vc"}, group.Value)

		// Member results are written in declaration order, not in the
		// order the branches finished.
		assert.Equal(t, []string{"g.a", "g.b", "g.c", "g"}, execCtx.Names())

		// Reverse the stagger for the next iteration.
		delays[0], delays[2] = delays[2], delays[0]
	}
}

func TestGroupFailureIsolation(t *testing.T) {
	boom := errors.New("boom")
	plan := workflow.NewPlan("p",
		workflow.NewGroup("g",
			workflow.NewStep("ok1", staticUnit("a")),
			workflow.NewStep("bad", failingUnit(boom)),
			workflow.NewStep("ok2", staticUnit("b")),
		),
	)

	execCtx, report, err := New(Options{}).Run(context.Background(), plan, nil)
	require.NoError(t, err)

	// Siblings of the failing branch still produce their results.
	r1, ok := execCtx.Get("g.ok1")
	require.True(t, ok)
	assert.Equal(t, "a", r1.Value)

	r2, ok := execCtx.Get("g.ok2")
	require.True(t, ok)
	assert.Equal(t, "b", r2.Value)

	// The failure set contains exactly the failing member.
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "g.bad", report.Failures[0].Name)
	assert.ErrorIs(t, report.Failures[0].Err, boom)

	// The aggregate omits the failed member.
	group, ok := execCtx.Get("g")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"ok1": "a", "ok2": "b"}, group.Value)
}

func TestGroupBarrierOrdering(t *testing.T) {
	// No node after the group may start before every member is terminal.
	var inFlight atomic.Int32
	member := func() workflow.Unit {
		return workflow.UnitFunc(func(ctx context.Context, snap *workflow.Snapshot) (any, error) {
			inFlight.Add(1)
			defer inFlight.Add(-1)
			time.Sleep(20 * time.Millisecond)
			return nil, nil
		})
	}

	plan := workflow.NewPlan("p",
		workflow.NewGroup("g",
			workflow.NewStep("a", member()),
			workflow.NewStep("b", member()),
			workflow.NewStep("c", member()),
		),
		workflow.NewStep("after", workflow.UnitFunc(func(ctx context.Context, snap *workflow.Snapshot) (any, error) {
			return inFlight.Load(), nil
		})),
	)

	execCtx, report, err := New(Options{}).Run(context.Background(), plan, nil)
	require.NoError(t, err)
	require.True(t, report.OK())

	res, ok := execCtx.Get("after")
	require.True(t, ok)
	assert.Equal(t, int32(0), res.Value, "group members still in flight past the barrier")
}

func TestGroupTimingBound(t *testing.T) {
	// Three members of ~60ms each should take ~max, not ~sum.
	const d = 60 * time.Millisecond
	plan := workflow.NewPlan("p",
		workflow.NewGroup("g",
			workflow.NewStep("a", sleepingUnit(d, nil)),
			workflow.NewStep("b", sleepingUnit(d, nil)),
			workflow.NewStep("c", sleepingUnit(d, nil)),
		),
	)

	start := time.Now()
	_, report, err := New(Options{}).Run(context.Background(), plan, nil)
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.True(t, report.OK())
	assert.Less(t, elapsed, 3*d, "members did not run concurrently")
}

func TestGroupPerStepTimeoutDoesNotBlockSiblings(t *testing.T) {
	plan := workflow.NewPlan("p",
		workflow.NewGroup("g",
			&workflow.Step{
				Name:    "slow",
				Unit:    sleepingUnit(500*time.Millisecond, "never"),
				Timeout: 50 * time.Millisecond,
			},
			workflow.NewStep("fast", sleepingUnit(10*time.Millisecond, "done")),
		),
	)

	execCtx, report, err := New(Options{}).Run(context.Background(), plan, nil)
	require.NoError(t, err)

	fast, ok := execCtx.Get("g.fast")
	require.True(t, ok)
	assert.Equal(t, "done", fast.Value)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, "g.slow", report.Failures[0].Name)
	assert.ErrorIs(t, report.Failures[0].Err, workflow.ErrTimeout)
}

func TestGroupTimeoutFailsRunningBranches(t *testing.T) {
	plan := workflow.NewPlan("p",
		&workflow.Group{
			Name:    "g",
			Timeout: 50 * time.Millisecond,
			Members: []workflow.Node{
				workflow.NewStep("fast", sleepingUnit(5*time.Millisecond, "done")),
				workflow.NewStep("slow1", sleepingUnit(time.Second, nil)),
				workflow.NewStep("slow2", sleepingUnit(time.Second, nil)),
			},
		},
	)

	start := time.Now()
	execCtx, report, err := New(Options{}).Run(context.Background(), plan, nil)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "barrier must resolve at the group timeout")

	fast, ok := execCtx.Get("g.fast")
	require.True(t, ok)
	assert.Equal(t, "done", fast.Value)

	require.Len(t, report.Failures, 2)
	assert.Equal(t, "g.slow1", report.Failures[0].Name)
	assert.Equal(t, "g.slow2", report.Failures[1].Name)
	for _, f := range report.Failures {
		assert.ErrorIs(t, f.Err, workflow.ErrTimeout)
	}
}

func TestNestedGroupBarrier(t *testing.T) {
	plan := workflow.NewPlan("p",
		workflow.NewGroup("outer",
			workflow.NewStep("solo", staticUnit("s")),
			workflow.NewGroup("inner",
				workflow.NewStep("a", staticUnit("ia")),
				workflow.NewStep("b", staticUnit("ib")),
			),
		),
	)

	execCtx, report, err := New(Options{}).Run(context.Background(), plan, nil)
	require.NoError(t, err)
	require.True(t, report.OK())

	for name, want := range map[string]any{
		"outer.solo":    "s",
		"outer.inner.a": "ia",
		"outer.inner.b": "ib",
	} {
		res, ok := execCtx.Get(name)
		require.True(t, ok, "missing %s", name)
		assert.Equal(t, want, res.Value)
	}

	inner, ok := execCtx.Get("outer.inner")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"a": "ia", "b": "ib"}, inner.Value)

	// The outer aggregate nests the inner group's aggregate.
	outer, ok := execCtx.Get("outer")
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"solo":  "s",
		"inner": map[string]any{"a": "ia", "b": "ib"},
	}, outer.Value)
}

func TestNestedGroupFailureTagging(t *testing.T) {
	boom := errors.New("boom")
	plan := workflow.NewPlan("p",
		workflow.NewGroup("outer",
			workflow.NewGroup("inner",
				workflow.NewStep("bad", failingUnit(boom)),
			),
			workflow.NewStep("ok", staticUnit(1)),
		),
	)

	_, report, err := New(Options{}).Run(context.Background(), plan, nil)
	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "outer.inner.bad", report.Failures[0].Name)
}

func TestGroupSnapshotHidesSiblings(t *testing.T) {
	// A branch must only see results from nodes that finished before the
	// group started, never a sibling's output.
	plan := workflow.NewPlan("p",
		workflow.NewStep("before", staticUnit("prior")),
		workflow.NewGroup("g",
			workflow.NewStep("fast", staticUnit("early")),
			workflow.NewStep("probe", workflow.UnitFunc(func(ctx context.Context, snap *workflow.Snapshot) (any, error) {
				time.Sleep(30 * time.Millisecond)
				if _, ok := snap.Get("g.fast"); ok {
					return nil, errors.New("sibling result leaked into snapshot")
				}
				v, ok := snap.Value("before")
				if !ok {
					return nil, errors.New("predecessor result missing from snapshot")
				}
				return v, nil
			})),
		),
	)

	execCtx, report, err := New(Options{}).Run(context.Background(), plan, nil)
	require.NoError(t, err)
	require.True(t, report.OK(), "failures: %v", report.Failures)

	probe, ok := execCtx.Get("g.probe")
	require.True(t, ok)
	assert.Equal(t, "prior", probe.Value)
}
