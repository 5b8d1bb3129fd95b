package types

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// Models discovered under the asset root.
	Models []ModelSource `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: model not found
	Error string `json:"error" example:"model not found"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}

// LayerStatus is the current state of one animation layer.
type LayerStatus struct {
	// example: 0
	Layer int `json:"layer" example:"0"`
	// example: walk
	State string `json:"state" example:"walk"`
	// Clip currently playing on the layer; empty when reset.
	// example: walk
	Clip string `json:"clip,omitempty" example:"walk"`
}

// InstanceStatus summarizes a cached model instance for /status.
type InstanceStatus struct {
	// Cache key: "<model>#<entity>".
	// example: Alicia#3f2b
	Key string `json:"key" example:"Alicia#3f2b"`
	// example: Alicia
	Model string `json:"model" example:"Alicia"`
	// example: 3f2b
	Entity string `json:"entity" example:"3f2b"`
	// Backend that constructed the instance.
	// example: gpu
	Backend string `json:"backend" example:"gpu"`
	// Last cache access (unix milliseconds).
	// example: 1700000000000
	LastAccessMillis int64 `json:"last_access_ms" example:"1700000000000"`
	// Custom animation override active.
	Custom bool `json:"custom"`
	// Number of animation clips currently loaded for this instance.
	// example: 4
	Clips  int           `json:"clips" example:"4"`
	Layers []LayerStatus `json:"layers"`
}

// HandsResponse is returned by GET /models/{name}/entities/{entity}/hands.
type HandsResponse struct {
	// example: Alicia#3f2b
	Key string `json:"key" example:"Alicia#3f2b"`
	// Right hand bone transform, 4x4 column-major.
	Right [16]float32 `json:"right"`
	// Left hand bone transform, 4x4 column-major.
	Left [16]float32 `json:"left"`
}

// BackendStatus describes a registered construction backend.
type BackendStatus struct {
	// example: gpu
	Name string `json:"name" example:"gpu"`
	// example: 20
	Priority  int  `json:"priority" example:"20"`
	Available bool `json:"available"`
	Enabled   bool `json:"enabled"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	Instances []InstanceStatus `json:"instances"`
	Backends  []BackendStatus  `json:"backends"`
	// Maximum number of cached instances before LRU eviction.
	// example: 100
	MaxModels int `json:"max_models" example:"100"`
	// Whether an idle sweep is armed by a recent switch.
	CleanupPending bool `json:"cleanup_pending"`
	// Native engine version string.
	// example: v1.0.0
	EngineVersion string `json:"engine_version" example:"v1.0.0"`
	// Uptime of the process in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Total number of instances constructed.
	// example: 12
	LoadsTotal uint64 `json:"loads_total" example:"12"`
	// Total number of instances disposed.
	// example: 5
	DisposalsTotal uint64 `json:"disposals_total" example:"5"`
}
