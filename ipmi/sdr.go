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

package ipmi

import (
	"errors"
	"fmt"
	"strings"
)

// `ipmitool sdr list` prints one sensor per line:
//
//	PT_Left_temp     | 45 degrees C      | ok

var ErrMalformedRecord = errors.New("malformed sensor record")

// SensorNotFoundError is returned when no SDR line matches a sensor name.
type SensorNotFoundError struct {
	Name string
}

func (e *SensorNotFoundError) Error() string {
	return fmt.Sprintf("failed to fetch: %s sensor", e.Name)
}

// SDR is the text of one `sdr list` run.
type SDR struct {
	lines []string
}

func ParseSDR(out []byte) *SDR {
	raw := strings.Split(string(out), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return &SDR{lines: lines}
}

// Len returns the number of non-empty lines.
func (s *SDR) Len() int {
	return len(s.lines)
}

// Lookup returns the value field of the last line containing name anywhere
// in its text. Names that are substrings of other sensor names will match
// those lines too.
func (s *SDR) Lookup(name string) (string, error) {
	var match string
	found := false
	for _, l := range s.lines {
		if strings.Contains(l, name) {
			match = l
			found = true
		}
	}
	if !found {
		return "", &SensorNotFoundError{Name: name}
	}
	return valueField(name, match)
}

// LookupExact returns the value field of the first line whose name column
// equals name.
func (s *SDR) LookupExact(name string) (string, error) {
	for _, l := range s.lines {
		fields := strings.Split(l, "|")
		if strings.TrimSpace(fields[0]) == name {
			return valueField(name, l)
		}
	}
	return "", &SensorNotFoundError{Name: name}
}

func valueField(name, line string) (string, error) {
	fields := strings.Split(strings.TrimSpace(line), "|")
	if len(fields) < 2 {
		return "", fmt.Errorf("%w: %s - %q", ErrMalformedRecord, name, line)
	}
	return strings.TrimSpace(fields[1]), nil
}
