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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/comcast/platform-sensors/chassis"
	"github.com/comcast/platform-sensors/ipmi"
)

// column padding of the platform_sensors layout operators already parse
const (
	tempFormat   = "  %-32s %s\n"
	fanFormat    = "    %-30s %s\n"
	psuFormat    = "       %-30s %s\n"
	totalFormat  = "\n    %-33s %s\n"
	statusPad    = "                      "
	notPresent   = "NOT PRESENT"
	notOK        = "NOT OK"
	airflowLabel = "Airflow:"
)

// Text writes the human readable report as events arrive, so an aborted run
// leaves everything printed up to the failure.
type Text struct {
	w   io.Writer
	err error
}

func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

func (t *Text) Begin(s Section) error {
	switch s {
	case SectionTemperatures:
		t.printf("\nOnboard Temperature Sensors:\n")
	case SectionFanTrays:
		t.printf("\nFan Trays:\n")
	case SectionPSUs:
		t.printf("\nPSUs:\n")
	}
	return t.err
}

func (t *Text) Temperature(r chassis.Reading) error {
	t.printf(tempFormat, r.Label+":", r.Value)
	return t.err
}

func (t *Text) FanTray(tray chassis.FanTray) error {
	if !tray.Present {
		t.printf("    Fan Tray %d:%s%s\n", tray.ID, statusPad, notPresent)
		return t.err
	}

	t.printf("  Fan Tray %d:\n", tray.ID)
	for _, f := range tray.Fans {
		t.printf(fanFormat, f.Name+" Speed:", f.Speed.Value)
	}
	for _, f := range tray.Fans {
		t.printf(fanFormat, f.Name+" State:", f.Status)
	}
	t.printf(fanFormat, airflowLabel, tray.Airflow)
	return t.err
}

func (t *Text) PSU(p chassis.PSU) error {
	switch {
	case !p.Present:
		t.printf("    PSU%d:%s%s\n", p.ID, statusPad, notPresent)
		return t.err
	case !p.OK:
		t.printf("    PSU%d:%s%s\n", p.ID, statusPad, notOK)
		return t.err
	}

	t.printf("    PSU%d:\n", p.ID)
	for _, r := range p.Readings {
		t.printf(psuFormat, r.Label+":", r.Value)
	}
	t.printf(psuFormat, airflowLabel, p.Airflow)
	return t.err
}

func (t *Text) TotalPower(r chassis.Reading) error {
	t.printf(totalFormat, r.Label+":", r.Value)
	return t.err
}

// Abort prints a one line diagnostic naming the missing sensor or the failed
// command.
func (t *Text) Abort(cause error) error {
	t.err = nil
	t.printf("\n%s\n", Diagnostic(cause))
	return t.err
}

func (t *Text) Flush() error {
	return t.err
}

func (t *Text) printf(format string, a ...interface{}) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, a...)
}

// Diagnostic renders cause the way the report prints it.
func Diagnostic(cause error) string {
	var notFound *ipmi.SensorNotFoundError
	var cmdErr *ipmi.CommandError

	switch {
	case errors.As(cause, &notFound):
		return "Failed to fetch: " + notFound.Name + " sensor"
	case errors.As(cause, &cmdErr):
		return "Failed to execute: " + cmdErr.Command
	}
	return "Failed: " + strings.TrimSpace(cause.Error())
}
