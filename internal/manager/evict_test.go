package manager

import (
	"testing"
	"time"

	"modelrt/internal/model"
)

func TestInvalidateReleasesEverything(t *testing.T) {
	f := newFixture(t, nil)
	inst, err := f.m.Render("Alicia", standing("e1"), 0.05)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	clip := f.engine.Transitions(inst.Handle)[0].Anim
	right, left := inst.RightHandMat, inst.LeftHandMat

	if !f.m.Invalidate("Alicia", "e1") {
		t.Fatalf("expected Invalidate to find the instance")
	}
	if !clip.Valid() || !right.Valid() || !left.Valid() {
		t.Fatalf("expected clip and hand matrices allocated")
	}
	if !f.engine.Deleted(clip) || !f.engine.Deleted(right) || !f.engine.Deleted(left) || !f.engine.Deleted(inst.Handle) {
		t.Fatalf("expected clip, matrices and model to be deleted")
	}
	if !inst.Released() {
		t.Fatalf("expected instance marked released")
	}
	if f.m.Invalidate("Alicia", "e1") {
		t.Fatalf("second Invalidate should find nothing")
	}
	if f.pub.Count("model_dispose") != 1 {
		t.Fatalf("expected exactly one model_dispose, got %d", f.pub.Count("model_dispose"))
	}
}

func TestDisposeDetachesLayersBeforeDeletingClips(t *testing.T) {
	f := newFixture(t, nil)
	inst, err := f.m.Render("Alicia", standing("e1"), 0.05)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if inst.Layer(model.LayerLocomotion).Clip == "" {
		t.Fatalf("expected a clip bound to layer 0")
	}
	f.m.Invalidate("Alicia", "e1")
	if n := f.engine.Dangling(); n != 0 {
		t.Fatalf("%d clips deleted while still bound to a layer", n)
	}
	if ls := inst.Layer(model.LayerLocomotion); ls != (model.LayerState{State: model.StateIdle}) {
		t.Fatalf("layer 0 not cleared: %+v", ls)
	}
}

func TestInvalidateModel(t *testing.T) {
	f := newFixture(t, nil)
	for _, e := range []string{"e1", "e2", "e3"} {
		if _, err := f.m.Acquire("Alicia", e); err != nil {
			t.Fatalf("Acquire: %v", err)
		}
	}
	if _, err := f.m.Acquire("Miku", "e1"); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if n := f.m.InvalidateModel("Alicia"); n != 3 {
		t.Fatalf("expected 3 invalidated, got %d", n)
	}
	st := f.m.Status()
	if len(st.Instances) != 1 || st.Instances[0].Model != "Miku" {
		t.Fatalf("unexpected survivors: %+v", st.Instances)
	}
}

func TestSwitchThenTickSweepsIdle(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := f.m.Acquire("Alicia", "old"); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	f.m.Switch("Miku")
	if !f.m.Status().CleanupPending {
		t.Fatalf("expected cleanup pending after switch")
	}

	f.clock.Advance(30 * time.Second)
	f.m.Tick()
	if got := len(f.m.Status().Instances); got != 1 {
		t.Fatalf("sweep ran before the idle window: %d left", got)
	}
	// keep "fresh" warm while "old" idles past the window
	if _, err := f.m.Acquire("Miku", "fresh"); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	f.clock.Advance(31 * time.Second)
	f.m.Tick()

	st := f.m.Status()
	if st.CleanupPending {
		t.Fatalf("expected sweep to disarm")
	}
	if len(st.Instances) != 1 || st.Instances[0].Entity != "fresh" {
		t.Fatalf("unexpected survivors: %+v", st.Instances)
	}
	if f.pub.Count("switch") != 1 || f.pub.Count("model_dispose") != 1 {
		t.Fatalf("unexpected events: %+v", f.pub.Events())
	}
}

func TestTickWithoutSwitchIsNoop(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := f.m.Acquire("Alicia", "e1"); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	f.clock.Advance(time.Hour)
	f.m.Tick()
	if got := len(f.m.Status().Instances); got != 1 {
		t.Fatalf("expected no sweep without a switch, got %d left", got)
	}
}

func TestCloseDisposesAll(t *testing.T) {
	f := newFixture(t, nil)
	for _, e := range []string{"e1", "e2"} {
		if _, err := f.m.Render("Alicia", standing(e), 0.05); err != nil {
			t.Fatalf("Render: %v", err)
		}
	}
	f.m.Close()
	if live := f.engine.Live(); live != 0 {
		t.Fatalf("expected every engine handle released, %d live", live)
	}
	if f.m.Status().DisposalsTotal != 2 {
		t.Fatalf("expected 2 disposals")
	}
	// usable again after Close
	inst, err := f.m.Acquire("Alicia", "e1")
	if err != nil || inst.Released() {
		t.Fatalf("expected a fresh instance after Close, err=%v", err)
	}
}

func TestDisposeEntryIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	inst, err := f.m.Acquire("Alicia", "e1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	k := Key{Model: "Alicia", Entity: "e1"}
	_ = f.m.disposeEntry(k, inst)
	_ = f.m.disposeEntry(k, inst)
	_ = f.m.disposeEntry(k, (*model.Instance)(nil))
	if f.m.Status().DisposalsTotal != 1 {
		t.Fatalf("expected a single disposal")
	}
}
