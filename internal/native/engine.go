// Package native defines the contract with the native model engine that
// parses PMX/PMD geometry, runs skeletal animation and physics, and skins
// meshes. Every value crossing the boundary is an opaque integer handle;
// 0 always means "no handle". Every successful Load* must be paired with
// exactly one matching Delete*.
package native

// Handle is an opaque reference into engine-owned memory.
type Handle int64

// Valid reports a non-zero handle.
func (h Handle) Valid() bool { return h != 0 }

// Capabilities is what the engine reports about the running hardware.
type Capabilities struct {
	// GPUSkinning reports compute-shader skinning support.
	GPUSkinning bool
}

// Engine is the native engine surface consumed by this module. Calls are
// synchronous and fire-and-forget; failure is signalled by a zero handle,
// never by a panic crossing the boundary.
type Engine interface {
	// Version returns the engine build version.
	Version() string
	// Capabilities probes hardware features once per call.
	Capabilities() Capabilities

	LoadModelPMX(path, dir string, layerCount int) Handle
	LoadModelPMD(path, dir string, layerCount int) Handle
	DeleteModel(model Handle)
	// UpdateModel advances animation, physics and skinning by deltaSeconds.
	UpdateModel(model Handle, deltaSeconds float32)
	ResetPhysics(model Handle)

	// LoadAnimation loads a .vmd clip or .vpd pose for the given model.
	LoadAnimation(model Handle, path string) Handle
	DeleteAnimation(anim Handle)
	// ChangeAnim cuts the layer to anim instantly; anim 0 clears the layer.
	ChangeAnim(model Handle, anim Handle, layer int)
	// TransitionLayerTo blends the layer from its current pose into anim
	// over blendSeconds; anim 0 blends the layer out.
	TransitionLayerTo(model Handle, layer int, anim Handle, blendSeconds float32)

	// CreateMat allocates a 4x4 transform buffer.
	CreateMat() Handle
	DeleteMat(mat Handle)
	// SampleHandMat writes the current right or left hand bone transform of
	// model into mat.
	SampleHandMat(model Handle, mat Handle, right bool)
	// ReadMat copies a transform buffer out in column-major order.
	ReadMat(mat Handle) [16]float32
}
