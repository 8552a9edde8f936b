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

package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/comcast/platform-sensors/chassis"
	"go.uber.org/zap"
)

// Section identifies a block of the report
type Section int

const (
	SectionTemperatures Section = iota
	SectionFanTrays
	SectionPSUs
)

func (s Section) String() string {
	switch s {
	case SectionTemperatures:
		return "temperatures"
	case SectionFanTrays:
		return "fan_trays"
	case SectionPSUs:
		return "psus"
	}
	return fmt.Sprintf("section(%d)", int(s))
}

var (
	log *zap.Logger
)

// Sink receives report events in chassis order. After Abort no other method
// is called; Flush is only called for a complete report.
type Sink interface {
	Begin(s Section) error
	Temperature(r chassis.Reading) error
	FanTray(t chassis.FanTray) error
	PSU(p chassis.PSU) error
	TotalPower(r chassis.Reading) error
	Abort(err error) error
	Flush() error
}

// Run dumps the SDR and walks temperatures, fan trays, PSUs and total power.
// The first failure stops the walk, is handed to sink.Abort and returned.
func Run(ctx context.Context, c *chassis.Collector, sink Sink) error {
	log = zap.L()

	if err := run(ctx, c, sink); err != nil {
		log.Error("sensor report aborted", zap.Error(err))
		if aerr := sink.Abort(err); aerr != nil {
			log.Error("error writing report abort", zap.Error(aerr))
		}
		return err
	}
	return sink.Flush()
}

func run(ctx context.Context, c *chassis.Collector, sink Sink) error {
	p := c.Profile()

	if err := c.LoadSDR(ctx); err != nil {
		return err
	}

	if err := sink.Begin(SectionTemperatures); err != nil {
		return err
	}
	for _, entry := range p.Temperatures {
		r, err := c.Temperature(entry)
		if err != nil {
			return err
		}
		if err := sink.Temperature(r); err != nil {
			return err
		}
	}

	if err := sink.Begin(SectionFanTrays); err != nil {
		return err
	}
	for id := 1; id <= p.FanTrays.Count; id++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		tray, err := c.FanTray(ctx, id)
		if err != nil {
			return err
		}
		if err := sink.FanTray(tray); err != nil {
			return err
		}
	}

	if err := sink.Begin(SectionPSUs); err != nil {
		return err
	}
	for id := 1; id <= p.PSUs.Count; id++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		psu, err := c.PSU(ctx, id)
		if err != nil {
			return err
		}
		if err := sink.PSU(psu); err != nil {
			return err
		}
	}

	total, err := c.TotalPower()
	if err != nil {
		return err
	}
	return sink.TotalPower(total)
}

// Tee forwards every event to each sink in turn.
type Tee []Sink

func (t Tee) Begin(s Section) error {
	return t.each(func(k Sink) error { return k.Begin(s) })
}

func (t Tee) Temperature(r chassis.Reading) error {
	return t.each(func(k Sink) error { return k.Temperature(r) })
}

func (t Tee) FanTray(tray chassis.FanTray) error {
	return t.each(func(k Sink) error { return k.FanTray(tray) })
}

func (t Tee) PSU(p chassis.PSU) error {
	return t.each(func(k Sink) error { return k.PSU(p) })
}

func (t Tee) TotalPower(r chassis.Reading) error {
	return t.each(func(k Sink) error { return k.TotalPower(r) })
}

// Abort reaches every sink even when one of them fails.
func (t Tee) Abort(cause error) error {
	var errs []error
	for _, k := range t {
		if err := k.Abort(cause); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t Tee) Flush() error {
	var errs []error
	for _, k := range t {
		if err := k.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t Tee) each(f func(Sink) error) error {
	for _, k := range t {
		if err := f(k); err != nil {
			return err
		}
	}
	return nil
}
