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

package exporter

import (
	"fmt"
	"strconv"

	"github.com/comcast/platform-sensors/chassis"
	"github.com/comcast/platform-sensors/report"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	// OK is a string representation of the float 1.0 for device status
	OK = 1.0
	// BAD is a string representation of the float 0.0 for device status
	BAD = 0.0
)

var (
	log *zap.Logger
)

// Textfile is a report.Sink that records the report as gauges and writes
// them in the node_exporter textfile collector format. An empty path keeps
// the gauges in memory only.
type Textfile struct {
	path          string
	registry      *prometheus.Registry
	DeviceMetrics *map[string]*metrics
}

var _ report.Sink = (*Textfile)(nil)

func NewTextfile(path, platform string) *Textfile {
	t := &Textfile{
		path:          path,
		registry:      prometheus.NewRegistry(),
		DeviceMetrics: NewDeviceMetrics(platform),
	}

	for _, group := range *t.DeviceMetrics {
		for _, m := range *group {
			t.registry.MustRegister(m)
		}
	}

	return t
}

// Registry exposes the gatherer the textfile is rendered from.
func (t *Textfile) Registry() *prometheus.Registry {
	return t.registry
}

func (t *Textfile) Begin(report.Section) error { return nil }

func (t *Textfile) Temperature(r chassis.Reading) error {
	var therm = (*t.DeviceMetrics)["thermalMetrics"]
	if v, ok := number(r); ok {
		(*therm)["sensorTemperature"].WithLabelValues(r.Label, r.Sensor).Set(v)
	}
	return nil
}

func (t *Textfile) FanTray(tray chassis.FanTray) error {
	var fan = (*t.DeviceMetrics)["fanMetrics"]
	id := strconv.Itoa(tray.ID)

	if !tray.Present {
		(*fan)["fanTrayPresent"].WithLabelValues(id).Set(BAD)
		return nil
	}
	(*fan)["fanTrayPresent"].WithLabelValues(id).Set(OK)

	for _, f := range tray.Fans {
		if v, ok := number(f.Speed); ok {
			(*fan)["fanSpeed"].WithLabelValues(id, f.Name, f.Speed.Sensor).Set(v)
		}
		state := BAD
		if f.Status == chassis.FanNormal {
			state = OK
		}
		(*fan)["fanStatus"].WithLabelValues(id, f.Name).Set(state)
	}
	(*fan)["fanAirflow"].WithLabelValues(id, tray.Airflow.Short()).Set(1)

	return nil
}

func (t *Textfile) PSU(p chassis.PSU) error {
	var pow = (*t.DeviceMetrics)["powerMetrics"]
	id := strconv.Itoa(p.ID)

	present, status := BAD, BAD
	if p.Present {
		present = OK
	}
	if p.OK {
		status = OK
	}
	(*pow)["supplyPresent"].WithLabelValues(id).Set(present)
	(*pow)["supplyStatus"].WithLabelValues(id).Set(status)

	if !p.OK {
		return nil
	}
	for _, r := range p.Readings {
		if v, ok := number(r); ok {
			(*pow)["supplyReading"].WithLabelValues(id, r.Label, r.Sensor).Set(v)
		}
	}
	(*pow)["supplyAirflow"].WithLabelValues(id, p.Airflow.Short()).Set(1)

	return nil
}

func (t *Textfile) TotalPower(r chassis.Reading) error {
	var pow = (*t.DeviceMetrics)["powerMetrics"]
	if v, ok := number(r); ok {
		(*pow)["supplyTotal"].WithLabelValues(r.Sensor).Set(v)
	}
	return nil
}

// Abort publishes whatever was gathered with up=0.
func (t *Textfile) Abort(error) error {
	return t.write(BAD)
}

func (t *Textfile) Flush() error {
	return t.write(OK)
}

func (t *Textfile) write(up float64) error {
	log = zap.L()
	(*(*t.DeviceMetrics)["up"])["up"].WithLabelValues().Set(up)

	if t.path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(t.path, t.registry); err != nil {
		return fmt.Errorf("error writing metrics textfile %s - %w", t.path, err)
	}
	log.Debug("wrote metrics textfile", zap.String("path", t.path), zap.Float64("up", up))
	return nil
}

func number(r chassis.Reading) (float64, bool) {
	v, ok := r.Number()
	if !ok {
		zap.L().Debug("skipping non numeric reading", zap.String("sensor", r.Sensor), zap.String("value", r.Value))
	}
	return v, ok
}
