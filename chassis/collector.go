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

package chassis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/comcast/platform-sensors/ipmi"
	"github.com/comcast/platform-sensors/platform"
	"go.uber.org/zap"
)

const (
	// psuStateByte is the Get Sensor Reading response byte whose low nibble
	// carries the PSU presence / fault state
	psuStateByte = 2
)

var (
	log *zap.Logger

	ErrSDRNotLoaded     = errors.New("sensor data repository not loaded")
	ErrUnknownFanStatus = errors.New("unknown fan status")
	ErrUnknownAirflow   = errors.New("unknown airflow direction")
)

// BMC is the subset of ipmi.Tool the collector needs.
type BMC interface {
	SDRList(ctx context.Context) (*ipmi.SDR, error)
	SensorGet(ctx context.Context, name string) (*ipmi.SensorReport, error)
	Raw(ctx context.Context, netFn, cmd byte, data ...byte) (ipmi.RawResponse, error)
	FRU(ctx context.Context) (ipmi.FRU, error)
}

// Collector reads one chassis. The SDR dump is fetched once by LoadSDR and
// every register lookup is served from it.
type Collector struct {
	bmc     BMC
	profile *platform.Profile
	exact   bool
	sdr     *ipmi.SDR
}

type Option func(*Collector)

// WithExactMatch makes register lookups compare the whole sensor name column
// instead of matching substrings.
func WithExactMatch(exact bool) Option {
	return func(c *Collector) {
		c.exact = exact
	}
}

func NewCollector(bmc BMC, p *platform.Profile, opts ...Option) *Collector {
	if p == nil {
		p = platform.Default()
	}
	c := &Collector{bmc: bmc, profile: p}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Collector) Profile() *platform.Profile {
	return c.profile
}

// LoadSDR fetches and caches the sensor table.
func (c *Collector) LoadSDR(ctx context.Context) error {
	log = zap.L()

	sdr, err := c.bmc.SDRList(ctx)
	if err != nil {
		return err
	}
	c.sdr = sdr
	log.Debug("loaded sensor data repository", zap.Int("lines", sdr.Len()))
	return nil
}

// Lookup returns the value of one SDR register.
func (c *Collector) Lookup(sensor string) (string, error) {
	if c.sdr == nil {
		return "", ErrSDRNotLoaded
	}
	if c.exact {
		return c.sdr.LookupExact(sensor)
	}
	return c.sdr.Lookup(sensor)
}

// Reading resolves entry for device id (0 for chassis-wide sensors).
func (c *Collector) Reading(entry platform.SensorEntry, id int) (Reading, error) {
	sensor := platform.Expand(entry.Sensor, id)
	v, err := c.Lookup(sensor)
	if err != nil {
		return Reading{}, err
	}
	return Reading{Label: entry.Label, Sensor: sensor, Value: v}, nil
}

func (c *Collector) Temperature(entry platform.SensorEntry) (Reading, error) {
	return c.Reading(entry, 0)
}

func (c *Collector) TotalPower() (Reading, error) {
	return c.Reading(c.profile.TotalPower, 0)
}

// FanTray checks tray presence and, for an occupied bay, reads its fans and
// airflow. An empty bay issues no further queries.
func (c *Collector) FanTray(ctx context.Context, id int) (FanTray, error) {
	log = zap.L()
	tray := FanTray{ID: id}
	def := c.profile.FanTrays

	present, err := c.fanPresent(ctx, id)
	if err != nil {
		return tray, err
	}
	if !present {
		log.Debug("fan tray not present", zap.Int("tray", id))
		return tray, nil
	}
	tray.Present = true

	fans := make([]Fan, len(def.Fans))
	for i, f := range def.Fans {
		sensor := platform.Expand(f.Status, id)
		raw, err := c.Lookup(sensor)
		if err != nil {
			return tray, err
		}
		status, err := parseFanStatus(raw)
		if err != nil {
			return tray, fmt.Errorf("error decoding %s - %w", sensor, err)
		}
		fans[i] = Fan{Name: f.Name, Status: status}
	}

	for i, f := range def.Fans {
		speed, err := c.Reading(platform.SensorEntry{Label: f.Name + " Speed", Sensor: f.Speed}, id)
		if err != nil {
			return tray, err
		}
		fans[i].Speed = speed
	}
	tray.Fans = fans

	tray.Airflow, err = c.fanAirflow(ctx, id)
	if err != nil {
		return tray, err
	}

	return tray, nil
}

func (c *Collector) fanPresent(ctx context.Context, id int) (bool, error) {
	def := c.profile.FanTrays
	report, err := c.bmc.SensorGet(ctx, platform.Expand(def.PresenceSensor, id))
	if err != nil {
		return false, err
	}
	token, err := report.Token(def.PresenceLine)
	if err != nil {
		return false, fmt.Errorf("error reading fan tray %d presence - %w", id, err)
	}
	return token == def.PresenceToken, nil
}

// fanAirflow reads the tray FRU and maps the direction byte.
func (c *Collector) fanAirflow(ctx context.Context, id int) (Airflow, error) {
	def := c.profile.FanTrays
	fruID := byte(def.FRUIDBase + id)

	resp, err := c.bmc.Raw(ctx, ipmi.NetFnStorage, ipmi.CmdReadFRUData, fruID, 0, 0, byte(def.FRUReadLength))
	if err != nil {
		return AirflowUnknown, err
	}
	b, err := resp.Byte(def.AirflowOffset)
	if err != nil {
		return AirflowUnknown, fmt.Errorf("error reading fan tray %d airflow - %w", id, err)
	}
	if int(b) >= len(fanAirflow) {
		return AirflowUnknown, fmt.Errorf("%w: fan tray %d fru byte 0x%02x", ErrUnknownAirflow, id, b)
	}
	return fanAirflow[b], nil
}

// PSU reads presence and state from the PSU status sensor. A supply that is
// absent or faulted carries no readings.
func (c *Collector) PSU(ctx context.Context, id int) (PSU, error) {
	log = zap.L()
	psu := PSU{ID: id}
	def := c.profile.PSUs

	state, err := c.psuState(ctx, id)
	if err != nil {
		return psu, err
	}
	psu.Present = state&1 == 1
	psu.OK = psu.Present && state <= 1
	if !psu.OK {
		log.Debug("psu not usable", zap.Int("psu", id), zap.Bool("present", psu.Present), zap.Uint8("state", state))
		return psu, nil
	}

	readings := make([]Reading, 0, len(def.Readings))
	for _, entry := range def.Readings {
		r, err := c.Reading(entry, id)
		if err != nil {
			return psu, err
		}
		readings = append(readings, r)
	}
	psu.Readings = readings

	psu.Airflow, err = c.psuAirflow(ctx, id)
	if err != nil {
		return psu, err
	}

	return psu, nil
}

func (c *Collector) psuState(ctx context.Context, id int) (uint8, error) {
	sensor := byte(c.profile.PSUs.StatusSensorBase + id)
	resp, err := c.bmc.Raw(ctx, ipmi.NetFnSensor, ipmi.CmdGetSensorReading, sensor)
	if err != nil {
		return 0, err
	}
	b, err := resp.Byte(psuStateByte)
	if err != nil {
		return 0, fmt.Errorf("error reading psu %d state - %w", id, err)
	}
	return b & 0x0f, nil
}

// psuAirflow classifies the supply from its FRU product description. A
// missing record or field yields AirflowUnknown.
func (c *Collector) psuAirflow(ctx context.Context, id int) (Airflow, error) {
	def := c.profile.PSUs
	fru, err := c.bmc.FRU(ctx)
	if err != nil {
		return AirflowUnknown, err
	}

	device := platform.Expand(def.FRUDevice, id)
	rec, ok := fru.Find(device)
	if !ok {
		log.Debug("psu fru record not found", zap.String("device", device))
		return AirflowUnknown, nil
	}
	product, ok := rec.Field(def.ProductField)
	if !ok {
		return AirflowUnknown, nil
	}
	if def.ReverseAirflowToken != "" && strings.Contains(product, def.ReverseAirflowToken) {
		return AirflowBackToFront, nil
	}
	return AirflowFrontToBack, nil
}

// parseFanStatus decodes a hex status register such as "0x00".
func parseFanStatus(v string) (FanStatus, error) {
	s := strings.ToLower(strings.TrimSpace(v))
	s = strings.TrimPrefix(s, "0x")
	n, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrUnknownFanStatus, v)
	}
	if int(n) >= len(fanStatusNames) {
		return 0, fmt.Errorf("%w %q", ErrUnknownFanStatus, v)
	}
	return FanStatus(n), nil
}
