// Package anim drives the per-entity layered animation state machine.
//
// Each tick evaluates layer 0 (locomotion), then layer 1 (hand/item), then
// layer 2 (stance). A layer transitions only when its computed state or
// clip differs from the current one, and every transition blends over the
// configured duration. A custom animation suspends all three layers until
// one of the exit conditions in ExitsCustom holds.
package anim

import (
	"strconv"

	"github.com/rs/zerolog"

	"modelrt/internal/metrics"
	"modelrt/internal/model"
	"modelrt/internal/native"
	"modelrt/pkg/types"
)

// DefaultBlendSeconds is the transition duration when Config leaves it unset.
const DefaultBlendSeconds = 0.25

// ClipResolver maps a clip name to a loaded handle for a model; 0 means not
// found.
type ClipResolver interface {
	Resolve(inst *model.Instance, name string) native.Handle
}

type Config struct {
	BlendSeconds float32
	Logger       zerolog.Logger
}

// Controller is stateless apart from its collaborators; all per-entity
// state lives on the model.Instance.
type Controller struct {
	engine native.Engine
	clips  ClipResolver
	blend  float32
	log    zerolog.Logger
}

func New(engine native.Engine, clips ClipResolver, cfg Config) *Controller {
	if cfg.BlendSeconds <= 0 {
		cfg.BlendSeconds = DefaultBlendSeconds
	}
	return &Controller{
		engine: engine,
		clips:  clips,
		blend:  cfg.BlendSeconds,
		log:    cfg.Logger.With().Str("component", "anim").Logger(),
	}
}

// UpdateAnimationState runs one tick of the state machine for inst.
func (c *Controller) UpdateAnimationState(s types.EntitySnapshot, inst *model.Instance) {
	if inst == nil || inst.Released() {
		return
	}
	if inst.Custom() {
		if !ExitsCustom(s) {
			return
		}
		inst.SetCustom(false)
		c.log.Debug().Str("entity", s.ID).Msg("custom animation interrupted")
	}
	c.updateLocomotion(s, inst)
	c.updateHand(s, inst)
	c.updateStance(s, inst)
}

func (c *Controller) updateLocomotion(s types.EntitySnapshot, inst *model.Instance) {
	st := Locomotion(s)
	c.apply(inst, model.LayerLocomotion, st, st.ClipName())
}

func (c *Controller) updateHand(s types.EntitySnapshot, inst *model.Instance) {
	main, off := s.MainHand, s.OffHand
	if (!main.Using && !main.Swinging && !off.Using && !off.Swinging) || s.Sleeping {
		c.reset(inst, model.LayerHand)
		return
	}
	switch {
	case main.Using:
		c.itemActive(inst, main.Item, HandRight, true)
	case main.Swinging:
		c.itemActive(inst, main.Item, HandRight, false)
	case off.Using:
		c.itemActive(inst, off.Item, HandLeft, true)
	case off.Swinging:
		c.itemActive(inst, off.Item, HandLeft, false)
	}
}

// itemActive plays the item-specific clip when the model has one and falls
// back to the generic swing of that hand otherwise.
func (c *Controller) itemActive(inst *model.Instance, item, hand string, using bool) {
	st, swing := model.StateItemRight, model.StateSwingRight
	if hand == HandLeft {
		st, swing = model.StateItemLeft, model.StateSwingLeft
	}
	clip := ItemClipName(item, hand, using)
	if inst.Layer(model.LayerHand) == (model.LayerState{State: st, Clip: clip}) {
		return
	}
	if c.apply(inst, model.LayerHand, st, clip) {
		return
	}
	c.apply(inst, model.LayerHand, swing, swing.ClipName())
}

func (c *Controller) updateStance(s types.EntitySnapshot, inst *model.Instance) {
	if s.Crouching && !s.VisuallyCrawling {
		c.apply(inst, model.LayerStance, model.StateSneak, model.StateSneak.ClipName())
		return
	}
	c.reset(inst, model.LayerStance)
}

// apply transitions layer to (st, clip) unless it is already there. A clip
// that cannot be resolved leaves the layer untouched. Reports whether a
// transition was issued.
func (c *Controller) apply(inst *model.Instance, layer int, st model.State, clip string) bool {
	if inst.Layer(layer) == (model.LayerState{State: st, Clip: clip}) {
		return false
	}
	h := c.clips.Resolve(inst, clip)
	if !h.Valid() {
		return false
	}
	c.engine.TransitionLayerTo(inst.Handle, layer, h, c.blend)
	inst.SetLayer(layer, model.LayerState{State: st, Clip: clip})
	metrics.LayerTransitions.WithLabelValues(strconv.Itoa(layer), st.String()).Inc()
	return true
}

// reset blends layer out to idle unless it is idle already.
func (c *Controller) reset(inst *model.Instance, layer int) {
	if inst.Layer(layer).State == model.StateIdle {
		return
	}
	c.engine.TransitionLayerTo(inst.Handle, layer, 0, c.blend)
	inst.SetLayer(layer, model.LayerState{State: model.StateIdle})
	metrics.LayerTransitions.WithLabelValues(strconv.Itoa(layer), model.StateIdle.String()).Inc()
}

// PlayCustom suspends automatic evaluation and plays clip on layer 0,
// clearing the hand and stance layers. Reports false, leaving the instance
// unchanged, when the clip cannot be resolved.
func (c *Controller) PlayCustom(inst *model.Instance, clip string) bool {
	if inst == nil || inst.Released() {
		return false
	}
	h := c.clips.Resolve(inst, clip)
	if !h.Valid() {
		return false
	}
	c.engine.TransitionLayerTo(inst.Handle, model.LayerLocomotion, h, c.blend)
	inst.SetLayer(model.LayerLocomotion, model.LayerState{State: model.StateCustom, Clip: clip})
	c.reset(inst, model.LayerHand)
	c.reset(inst, model.LayerStance)
	inst.SetCustom(true)
	metrics.LayerTransitions.WithLabelValues("0", model.StateCustom.String()).Inc()
	return true
}

// Detach cuts every layer of inst to no clip so its animation handles can
// be deleted without a layer still pointing at them. It runs on released
// instances too, as part of disposal.
func (c *Controller) Detach(inst *model.Instance) {
	if inst == nil || !inst.Handle.Valid() {
		return
	}
	for layer, n := 0, inst.LayerCount(); layer < n; layer++ {
		c.engine.ChangeAnim(inst.Handle, 0, layer)
		inst.SetLayer(layer, model.LayerState{State: model.StateIdle})
	}
}

// StopCustom ends a custom animation; the next tick re-evaluates every
// layer.
func (c *Controller) StopCustom(inst *model.Instance) {
	if inst != nil {
		inst.SetCustom(false)
	}
}
