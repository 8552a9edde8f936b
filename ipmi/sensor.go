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
	"fmt"
	"strings"
)

// SensorReport is the multi-line output of `ipmitool sensor get`, kept line
// for line (blank lines included) so fixed line indexes stay meaningful.
type SensorReport struct {
	lines []string
}

func ParseSensorReport(out []byte) *SensorReport {
	text := strings.TrimSuffix(strings.ReplaceAll(string(out), "\r\n", "\n"), "\n")
	if text == "" {
		return &SensorReport{}
	}
	return &SensorReport{lines: strings.Split(text, "\n")}
}

// Lines returns the number of lines.
func (s *SensorReport) Lines() int {
	return len(s.lines)
}

// Token returns line i with surrounding spaces and then brackets removed,
// so "                         [Present]" yields "Present".
func (s *SensorReport) Token(i int) (string, error) {
	if i < 0 || i >= len(s.lines) {
		return "", fmt.Errorf("%w: line %d of %d", ErrOutOfRange, i, len(s.lines))
	}
	return strings.Trim(strings.Trim(s.lines[i], " "), "[]"), nil
}
