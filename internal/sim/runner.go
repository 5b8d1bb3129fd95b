package sim

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"modelrt/internal/manager"
	"modelrt/internal/model"
	"modelrt/pkg/types"
)

// Runner drives a Manager through scenarios.
type Runner struct {
	M *manager.Manager
	// Clock, when set, is advanced by Advance steps and by DT per tick.
	Clock *Clock
	// Out receives one line per rendered tick; nil discards.
	Out io.Writer
	Log zerolog.Logger

	tick int
	pos  map[string]types.Vec3
}

// Run replays sc once and returns the number of rendered ticks. Errors from
// individual steps are logged and reported in the output; only context
// cancellation stops the run early.
func (r *Runner) Run(ctx context.Context, sc Scenario) (int, error) {
	if err := sc.Validate(); err != nil {
		return 0, err
	}
	if r.pos == nil {
		r.pos = make(map[string]types.Vec3)
	}
	start := r.tick
	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return r.tick - start, err
		}
		name := st.Model
		if name == "" {
			name = sc.Model
		}
		if st.Switch != "" {
			r.M.Switch(st.Switch)
		}
		if st.Advance > 0 && r.Clock != nil {
			r.Clock.Advance(st.Advance)
			r.M.Tick()
		}
		if st.Play != "" {
			if err := r.M.PlayCustom(name, st.Entity.ID, st.Play); err != nil {
				r.Log.Warn().Err(err).Int("step", i).Msg("play failed")
				r.printf("%4d %-24s play %s: %v\n", r.tick, key(name, st.Entity.ID), st.Play, err)
			}
		}
		if st.Stop {
			r.M.StopCustom(name, st.Entity.ID)
		}
		if st.Entity.ID == "" {
			continue
		}
		n := st.Repeat
		if n == 0 {
			n = 1
		}
		for j := 0; j < n; j++ {
			if err := ctx.Err(); err != nil {
				return r.tick - start, err
			}
			r.render(name, st.Entity, sc.DT)
		}
	}
	return r.tick - start, nil
}

func (r *Runner) render(name string, e EntityStep, dt float32) {
	s := e.snapshot(r.pos[e.ID])
	r.pos[e.ID] = s.Pos
	r.tick++
	inst, err := r.M.Render(name, s, dt)
	if err != nil {
		r.Log.Warn().Err(err).Str("model", name).Str("entity", e.ID).Msg("render failed")
		r.printf("%4d %-24s error: %v\n", r.tick, key(name, e.ID), err)
	} else {
		r.printf("%4d %-24s %s\n", r.tick, key(name, e.ID), FormatLayers(inst))
	}
	if r.Clock != nil {
		r.Clock.Advance(time.Duration(float64(dt) * float64(time.Second)))
	}
	r.M.Tick()
}

func (r *Runner) printf(format string, args ...any) {
	if r.Out != nil {
		fmt.Fprintf(r.Out, format, args...)
	}
}

func key(name, entity string) string {
	return manager.Key{Model: name, Entity: entity}.String()
}

// FormatLayers renders layer states as "0:walk 1:idle 2:sneak", with the
// clip appended when it differs from the state name and a "*" marking an
// active custom override.
func FormatLayers(inst *model.Instance) string {
	var b strings.Builder
	for i, ls := range inst.Layers() {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d:%s", i, ls.State)
		if ls.Clip != "" && ls.Clip != ls.State.String() {
			fmt.Fprintf(&b, "(%s)", ls.Clip)
		}
	}
	if inst.Custom() {
		b.WriteString(" *")
	}
	return b.String()
}
