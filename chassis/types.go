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
	"encoding/json"
	"strconv"
	"strings"
)

// Reading is one looked-up SDR value, e.g. "45 degrees C"
type Reading struct {
	Label  string `json:"label"`
	Sensor string `json:"sensor"`
	Value  string `json:"value"`
}

// Number parses the leading number of Value. Readings such as "no reading"
// or "na" report false.
func (r Reading) Number() (float64, bool) {
	fields := strings.Fields(r.Value)
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FanStatus is the decoded FANn_*_stat register
type FanStatus uint8

const (
	FanNormal FanStatus = iota
	FanAbnormal
)

var fanStatusNames = [...]string{"Normal", "Abnormal"}

func (s FanStatus) String() string {
	if int(s) < len(fanStatusNames) {
		return fanStatusNames[s]
	}
	return "Unknown"
}

func (s FanStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Airflow is the cooling direction of a fan tray or PSU
type Airflow uint8

const (
	AirflowUnknown Airflow = iota
	AirflowFrontToBack
	AirflowBackToFront
)

// fanAirflow maps the raw FRU byte to a direction
var fanAirflow = [...]Airflow{AirflowFrontToBack, AirflowBackToFront}

func (a Airflow) String() string {
	switch a {
	case AirflowFrontToBack:
		return "Front-to-Back"
	case AirflowBackToFront:
		return "Back-to-Front"
	}
	return ""
}

// Short returns the F2B/B2F abbreviation used on module labels.
func (a Airflow) Short() string {
	switch a {
	case AirflowFrontToBack:
		return "F2B"
	case AirflowBackToFront:
		return "B2F"
	}
	return "unknown"
}

func (a Airflow) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// Fan is one rotor inside a tray
type Fan struct {
	Name   string    `json:"name"`
	Speed  Reading   `json:"speed"`
	Status FanStatus `json:"status"`
}

// FanTray is a hot-swappable fan module. Only ID and Present are set for an
// empty bay.
type FanTray struct {
	ID      int     `json:"id"`
	Present bool    `json:"present"`
	Fans    []Fan   `json:"fans,omitempty"`
	Airflow Airflow `json:"airflow"`
}

// PSU is a power supply bay. Readings and Airflow are only set when the
// supply is present and OK.
type PSU struct {
	ID       int       `json:"id"`
	Present  bool      `json:"present"`
	OK       bool      `json:"ok"`
	Readings []Reading `json:"readings,omitempty"`
	Airflow  Airflow   `json:"airflow"`
}
