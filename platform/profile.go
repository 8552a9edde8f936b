/*
 * Copyright 2025 Comcast Cable Communications Management, LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package platform

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// IDPlaceholder is replaced by the tray or PSU number in sensor templates
const IDPlaceholder = "{id}"

//go:embed s5232f.yaml
var s5232f []byte

var ErrInvalidProfile = errors.New("invalid platform profile")

// Profile describes where a chassis keeps its sensors
type Profile struct {
	Name         string        `yaml:"name"`
	Description  string        `yaml:"description"`
	Temperatures []SensorEntry `yaml:"temperatures"`
	FanTrays     FanTrays      `yaml:"fanTrays"`
	PSUs         PSUs          `yaml:"psus"`
	TotalPower   SensorEntry   `yaml:"totalPower"`
}

// SensorEntry maps a report label to an SDR sensor name (or template)
type SensorEntry struct {
	Label  string `yaml:"label"`
	Sensor string `yaml:"sensor"`
}

// FanTrays describes the fan tray bays
type FanTrays struct {
	Count          int      `yaml:"count"`
	PresenceSensor string   `yaml:"presenceSensor"`
	PresenceLine   int      `yaml:"presenceLine"`
	PresenceToken  string   `yaml:"presenceToken"`
	Fans           []FanDef `yaml:"fans"`
	// FRUIDBase is added to the tray number to get its FRU device id
	FRUIDBase     int `yaml:"fruIdBase"`
	AirflowOffset int `yaml:"airflowOffset"`
	FRUReadLength int `yaml:"fruReadLength"`
}

// FanDef is one fan inside a tray
type FanDef struct {
	Name   string `yaml:"name"`
	Speed  string `yaml:"speed"`
	Status string `yaml:"status"`
}

// PSUs describes the power supply bays
type PSUs struct {
	Count int `yaml:"count"`
	// StatusSensorBase is added to the PSU number to get its sensor number
	StatusSensorBase    int           `yaml:"statusSensorBase"`
	FRUDevice           string        `yaml:"fruDevice"`
	ProductField        string        `yaml:"productField"`
	ReverseAirflowToken string        `yaml:"reverseAirflowToken"`
	Readings            []SensorEntry `yaml:"readings"`
}

// Default returns the built-in S5232F profile.
func Default() *Profile {
	p, err := Parse(bytes.NewReader(s5232f))
	if err != nil {
		panic(fmt.Errorf("embedded s5232f profile - %v", err))
	}
	return p
}

// Load reads and validates a profile file.
func Load(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening platform profile - %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a YAML profile. Unknown keys are rejected.
func Parse(r io.Reader) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("error unmarshalling platform profile - %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Profile) Validate() error {
	var problems []string

	for i, t := range p.Temperatures {
		if t.Label == "" || t.Sensor == "" {
			problems = append(problems, fmt.Sprintf("temperatures[%d] needs label and sensor", i))
		}
	}

	if p.FanTrays.Count < 0 {
		problems = append(problems, "fanTrays.count must not be negative")
	}
	if p.FanTrays.Count > 0 {
		if !strings.Contains(p.FanTrays.PresenceSensor, IDPlaceholder) {
			problems = append(problems, "fanTrays.presenceSensor must contain "+IDPlaceholder)
		}
		if p.FanTrays.PresenceToken == "" {
			problems = append(problems, "fanTrays.presenceToken is empty")
		}
		if len(p.FanTrays.Fans) == 0 {
			problems = append(problems, "fanTrays.fans is empty")
		}
		for i, f := range p.FanTrays.Fans {
			if f.Name == "" || f.Speed == "" || f.Status == "" {
				problems = append(problems, fmt.Sprintf("fanTrays.fans[%d] needs name, speed and status", i))
			}
		}
		for _, f := range []struct {
			name  string
			value int
		}{
			{"presenceLine", p.FanTrays.PresenceLine},
			{"fruIdBase", p.FanTrays.FRUIDBase},
			{"airflowOffset", p.FanTrays.AirflowOffset},
			{"fruReadLength", p.FanTrays.FRUReadLength},
		} {
			if f.value < 0 {
				problems = append(problems, "fanTrays."+f.name+" must not be negative")
			}
		}
		// the response starts with a count byte, so offsets run 0..fruReadLength
		if p.FanTrays.AirflowOffset > p.FanTrays.FRUReadLength {
			problems = append(problems, "fanTrays.fruReadLength must cover airflowOffset")
		}
		if p.FanTrays.FRUReadLength > 0xff || p.FanTrays.FRUIDBase+p.FanTrays.Count > 0xff {
			problems = append(problems, "fanTrays fru id and read length must fit in a byte")
		}
	}

	if p.PSUs.Count < 0 {
		problems = append(problems, "psus.count must not be negative")
	}
	if p.PSUs.Count > 0 {
		if p.PSUs.StatusSensorBase < 0 {
			problems = append(problems, "psus.statusSensorBase must not be negative")
		}
		if p.PSUs.StatusSensorBase+p.PSUs.Count > 0xff {
			problems = append(problems, "psus.statusSensorBase must fit in a byte")
		}
		if !strings.Contains(p.PSUs.FRUDevice, IDPlaceholder) {
			problems = append(problems, "psus.fruDevice must contain "+IDPlaceholder)
		}
		if p.PSUs.ProductField == "" {
			problems = append(problems, "psus.productField is empty")
		}
		for i, r := range p.PSUs.Readings {
			if r.Label == "" || r.Sensor == "" {
				problems = append(problems, fmt.Sprintf("psus.readings[%d] needs label and sensor", i))
			}
		}
	}

	if p.TotalPower.Sensor == "" {
		problems = append(problems, "totalPower.sensor is empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w %q: %s", ErrInvalidProfile, p.Name, strings.Join(problems, "; "))
	}
	return nil
}

// Expand substitutes id into a sensor template.
func Expand(template string, id int) string {
	return strings.ReplaceAll(template, IDPlaceholder, strconv.Itoa(id))
}
