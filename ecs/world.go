package ecs

import (
	"cmp"
	"context"
	"fmt"
	"reflect"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// World owns Storage, Resources and the Clock, and exposes the Builder API
// (AddSystem/AddSystemAtStage/SyncSystemExec) plus Once/Run, which drive the
// scheduler: build a conflict graph per stage, colour it, and dispatch each
// colour on a worker pool sized to that colour.
//
// Grounded on original_source/crates/gravitron_ecs/src/lib.rs's ECS/
// ECSBuilder<K: Ord+Hash+Clone> and .../scheduler/mod.rs's Scheduler/
// SchedulerBuilder, fused with plus3/ooftn/ecs/scheduler.go's Go
// reflection-scan idiom for per-frame Query Init/Execute/invalidate. K is
// the caller-defined stage-key type, which must be any totally-orderable,
// hashable value; Go's comparison operators already give total order for
// any cmp.Ordered K, so no separate Ord trait bound is needed.
type World[K cmp.Ordered] struct {
	Registry  *ComponentRegistry
	Storage   *Storage
	Resources *Resources
	Clock     *Clock

	syncExec bool

	stageKeys []K
	stages    map[K]*stage[K]
	built     bool
}

type stage[K any] struct {
	key     K
	systems []System
	names   []string
	metas   []*systemMeta
	queries []queryParam
	colours [][]int
}

// NewWorld returns an empty World using registry for component bookkeeping.
func NewWorld[K cmp.Ordered](registry *ComponentRegistry) *World[K] {
	clock := NewClock()
	return &World[K]{
		Registry:  registry,
		Storage:   NewStorage(registry, clock),
		Resources: newResources(),
		Clock:     clock,
		stages:    make(map[K]*stage[K]),
	}
}

func (w *World[K]) defaultStageKey() K {
	var zero K
	return zero
}

// AddSystem registers system in the default stage.
func (w *World[K]) AddSystem(system System) {
	w.AddSystemAtStage(system, w.defaultStageKey())
}

// AddSystemAtStage registers system in the stage keyed by key. Stages run in
// ascending key order; the caller defines the stage enumeration.
//
// Access conflicts wholly internal to system (e.g. Query<(&mut A,&mut A,&B)>,
// Res<T>+ResMut<T>, two Commands claims) panic immediately: an access
// conflict confined to one system is detected at registration time, not
// deferred to the first frame that runs it.
func (w *World[K]) AddSystemAtStage(system System, key K) {
	st, ok := w.stages[key]
	if !ok {
		st = &stage[K]{key: key}
		w.stages[key] = st
		w.stageKeys = append(w.stageKeys, key)
	}

	name := systemName(system)
	w.bindSystemParams(system)
	meta := buildSystemMeta(name, system)

	st.systems = append(st.systems, system)
	st.names = append(st.names, name)
	st.metas = append(st.metas, meta)
	st.queries = append(st.queries, collectQueryParams(system)...)

	w.built = false
}

// SyncSystemExec selects the deterministic one-system-per-colour mode (true)
// or the normal graph-coloured parallel mode (false, the default).
func (w *World[K]) SyncSystemExec(sync bool) {
	w.syncExec = sync
	w.built = false
}

func systemName(system System) string {
	return fmt.Sprintf("%T", system)
}

// bindSystemParams initializes every Query[T] field against Storage and
// binds every Res[T]/ResMut[T] field to Resources. Grounded on
// plus3/ooftn/ecs/scheduler.go's initializeQueries, generalised from a
// "Query[" name-prefix scan to a queryParam/resourceParam interface check.
func (w *World[K]) bindSystemParams(system System) {
	v := reflect.ValueOf(system)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanAddr() {
			continue
		}
		if qp, ok := field.Addr().Interface().(queryParam); ok {
			qp.queryInit(w.Storage)
			continue
		}
		if rp, ok := field.Addr().Interface().(resourceParam); ok {
			rp.bind(w.Resources)
			continue
		}
		if sp, ok := field.Addr().Interface().(singletonParam); ok {
			sp.singletonInit(w.Resources)
			continue
		}
	}
}

func collectQueryParams(system System) []queryParam {
	v := reflect.ValueOf(system)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	var out []queryParam
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanAddr() {
			continue
		}
		if qp, ok := field.Addr().Interface().(queryParam); ok {
			out = append(out, qp)
		}
	}
	return out
}

// ensureBuilt sorts stages by key and (re)computes each stage's colouring.
func (w *World[K]) ensureBuilt() {
	if w.built {
		return
	}
	sort.Slice(w.stageKeys, func(i, j int) bool { return w.stageKeys[i] < w.stageKeys[j] })
	for _, key := range w.stageKeys {
		st := w.stages[key]
		if w.syncExec {
			colours := make([][]int, len(st.systems))
			for i := range st.systems {
				colours[i] = []int{i}
			}
			st.colours = colours
			continue
		}
		graph := buildConflictGraph(st.metas)
		st.colours = graph.colour()
	}
	w.built = true
}

// Once runs every stage exactly once: per stage, executes its queries,
// dispatches each colour class concurrently on an errgroup-backed worker
// pool, barriers, drains every system's command buffer in registration
// order, then invalidates queries for the next stage.
func (w *World[K]) Once(dt float64) {
	w.ensureBuilt()
	tick := w.Clock.Current()

	for _, key := range w.stageKeys {
		st := w.stages[key]

		cmdBufs := make([]*Commands, len(st.systems))
		for i := range st.systems {
			cmdBufs[i] = newCommands(w.Storage)
		}

		for _, qp := range st.queries {
			qp.queryExecute()
		}

		for _, colour := range st.colours {
			w.runColour(st, colour, cmdBufs, dt, tick)
		}

		for _, c := range cmdBufs {
			c.flush(w.Storage, w.Clock.Current())
		}

		for _, qp := range st.queries {
			qp.queryInvalidate()
		}
	}
}

// runColour dispatches one colour class's systems concurrently and blocks
// until all have completed — the stage's end-of-colour barrier. Grounded on
// original_source/.../scheduler/mod.rs's Scheduler.run, with
// golang.org/x/sync/errgroup standing in for the source's hand-rolled
// thread-pool + atomic running-counter busy wait.
func (w *World[K]) runColour(st *stage[K], colour []int, cmdBufs []*Commands, dt float64, tick Tick) {
	var g errgroup.Group
	for _, idx := range colour {
		idx := idx
		g.Go(func() error {
			frame := newUpdateFrame(dt, tick, w.Storage, w.Resources, cmdBufs[idx])
			st.systems[idx].Execute(frame)
			return nil
		})
	}
	_ = g.Wait()
}

// NextTick advances the Clock. The shell MUST call this exactly once per
// completed main-frame.
func (w *World[K]) NextTick() {
	w.Clock.Advance()
}

// Run calls Once and NextTick repeatedly at interval until ctx is
// cancelled. Grounded on plus3/ooftn/ecs/scheduler.go's Run(ctx, interval).
func (w *World[K]) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			w.Once(dt)
			w.NextTick()
		}
	}
}

// WorldCell returns the aliasable view handed to systems. In this Go port
// there is no raw-pointer trick to hide: the World's safety guarantee comes
// entirely from the scheduler's colouring, so the "cell" is simply the World
// itself.
func (w *World[K]) WorldCell() *World[K] { return w }

// CreateEntity creates an entity from comps (keyed by ComponentID) at the
// current tick, outside of any system's Commands buffer.
func (w *World[K]) CreateEntity(comps map[ComponentID]any) EntityID {
	return w.Storage.CreateEntity(comps, w.Clock.Current())
}
