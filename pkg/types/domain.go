package types

// ModelSource is a model folder discovered under the asset root.
type ModelSource struct {
	// Logical model name; the folder name under the asset root.
	// example: Alicia
	Name string `json:"name" yaml:"name" example:"Alicia"`
	// Absolute path of the model folder.
	// example: /home/user/.modelrt/Alicia
	Dir string `json:"dir" yaml:"dir" example:"/home/user/.modelrt/Alicia"`
	// Model file name inside Dir.
	// example: model.pmx
	File string `json:"file" yaml:"file" example:"model.pmx"`
	// Model file format, "pmx" or "pmd".
	// example: pmx
	Format string `json:"format" yaml:"format" example:"pmx"`
}

// Vec3 is a world-space position or velocity.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// HandState describes what one hand of an entity is doing this tick.
type HandState struct {
	// Item identifier in "namespace:path" form; empty for an empty hand.
	Item string `json:"item,omitempty" yaml:"item"`
	// Using reports an active item use (drawing a bow, eating, blocking).
	Using bool `json:"using,omitempty" yaml:"using"`
	// Swinging reports an arm swing in progress.
	Swinging bool `json:"swinging,omitempty" yaml:"swinging"`
}

// Mount describes the vehicle an entity is riding.
type Mount struct {
	// Tamed reports a tamed, steerable animal mount (horse, donkey, ...).
	Tamed bool `json:"tamed,omitempty" yaml:"tamed"`
	// Moving reports a non-zero horizontal movement of the mount.
	Moving bool `json:"moving,omitempty" yaml:"moving"`
}

// EntitySnapshot is the primitive per-tick pose and input state that the
// entity renderer hands to the animation controller.
type EntitySnapshot struct {
	// Stable identity of the entity (UUID string for players).
	ID string `json:"id" yaml:"id"`

	Health    float64 `json:"health" yaml:"health"`
	Gliding   bool    `json:"gliding,omitempty" yaml:"gliding"`
	Sleeping  bool    `json:"sleeping,omitempty" yaml:"sleeping"`
	Swimming  bool    `json:"swimming,omitempty" yaml:"swimming"`
	Sprinting bool    `json:"sprinting,omitempty" yaml:"sprinting"`
	Crouching bool    `json:"crouching,omitempty" yaml:"crouching"`
	// VisuallyCrawling reports the prone pose (one-block gaps, swimming on land).
	VisuallyCrawling bool `json:"visually_crawling,omitempty" yaml:"visually_crawling"`
	OnClimbable      bool `json:"on_climbable,omitempty" yaml:"on_climbable"`

	// Mount is non-nil while the entity is a passenger.
	Mount *Mount `json:"mount,omitempty" yaml:"mount"`

	Pos      Vec3 `json:"pos" yaml:"pos"`
	PrevPos  Vec3 `json:"prev_pos" yaml:"prev_pos"`
	Velocity Vec3 `json:"velocity" yaml:"velocity"`

	MainHand HandState `json:"main_hand" yaml:"main_hand"`
	OffHand  HandState `json:"off_hand" yaml:"off_hand"`
}

// Dead reports zero or negative health.
func (s EntitySnapshot) Dead() bool { return s.Health <= 0 }

// Riding reports whether the entity is a passenger.
func (s EntitySnapshot) Riding() bool { return s.Mount != nil }

// HorizontallyMoving reports a non-zero X/Z delta since the previous tick.
func (s EntitySnapshot) HorizontallyMoving() bool {
	return s.Pos.X != s.PrevPos.X || s.Pos.Z != s.PrevPos.Z
}
