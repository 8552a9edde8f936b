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
	"encoding/json"
	"io"

	"github.com/comcast/platform-sensors/chassis"
)

// Document is the JSON form of a report. Error is set when the run aborted
// and the other fields hold what was collected before it.
type Document struct {
	Platform     string            `json:"platform"`
	Temperatures []chassis.Reading `json:"temperatures"`
	FanTrays     []chassis.FanTray `json:"fan_trays"`
	PSUs         []chassis.PSU     `json:"psus"`
	TotalPower   *chassis.Reading  `json:"total_power,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// JSON buffers the report and encodes it once on Flush or Abort.
type JSON struct {
	w   io.Writer
	doc Document
}

func NewJSON(w io.Writer, platform string) *JSON {
	return &JSON{w: w, doc: Document{
		Platform:     platform,
		Temperatures: []chassis.Reading{},
		FanTrays:     []chassis.FanTray{},
		PSUs:         []chassis.PSU{},
	}}
}

func (j *JSON) Begin(Section) error { return nil }

func (j *JSON) Temperature(r chassis.Reading) error {
	j.doc.Temperatures = append(j.doc.Temperatures, r)
	return nil
}

func (j *JSON) FanTray(t chassis.FanTray) error {
	j.doc.FanTrays = append(j.doc.FanTrays, t)
	return nil
}

func (j *JSON) PSU(p chassis.PSU) error {
	j.doc.PSUs = append(j.doc.PSUs, p)
	return nil
}

func (j *JSON) TotalPower(r chassis.Reading) error {
	j.doc.TotalPower = &r
	return nil
}

func (j *JSON) Abort(cause error) error {
	j.doc.Error = Diagnostic(cause)
	return j.Flush()
}

func (j *JSON) Flush() error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(j.doc)
}

// Document returns the collected report.
func (j *JSON) Document() Document {
	return j.doc
}
