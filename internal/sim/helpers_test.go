package sim

import (
	"gopkg.in/yaml.v3"

	"modelrt/pkg/types"
)

func yamlUnmarshal(b []byte, v any) error { return yaml.Unmarshal(b, v) }

func snap(id string) types.EntitySnapshot { return types.EntitySnapshot{ID: id} }
