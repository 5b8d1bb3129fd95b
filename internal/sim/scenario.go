// Package sim replays scripted entity snapshots through a Manager. It backs
// the simulate command and the demo loop of the serve command.
package sim

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of render ticks.
type Scenario struct {
	// Model is the default logical model for steps that omit one.
	Model string `yaml:"model"`
	// DT is the seconds advanced per render tick; default 0.05.
	DT    float32 `yaml:"dt"`
	Steps []Step  `yaml:"steps"`
}

// Step is one scripted action. Fields combine: a step may switch, advance
// the clock, start a custom clip and render in one go, in that order.
type Step struct {
	Model   string        `yaml:"model"`
	Switch  string        `yaml:"switch"`
	Advance time.Duration `yaml:"advance"`
	Play    string        `yaml:"play"`
	Stop    bool          `yaml:"stop"`
	// Entity is rendered Repeat times (default once) when its ID is set.
	Entity EntityStep `yaml:"entity"`
	Repeat int        `yaml:"repeat"`
}

const defaultDT = 0.05

// Load reads a YAML scenario file.
func Load(path string) (Scenario, error) {
	var sc Scenario
	b, err := os.ReadFile(path)
	if err != nil {
		return sc, err
	}
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return sc, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return sc, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

// Validate checks that every rendering step can name a model.
func (sc *Scenario) Validate() error {
	if sc.DT <= 0 {
		sc.DT = defaultDT
	}
	for i, st := range sc.Steps {
		if (st.Entity.ID != "" || st.Play != "" || st.Stop) && st.Model == "" && sc.Model == "" {
			return fmt.Errorf("step %d: no model", i)
		}
		if (st.Play != "" || st.Stop) && st.Entity.ID == "" {
			return fmt.Errorf("step %d: play/stop needs an entity id", i)
		}
		if st.Repeat < 0 {
			return fmt.Errorf("step %d: negative repeat", i)
		}
	}
	return nil
}
