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
	"strings"
)

const fruHeader = "FRU Device Description"

// FRUField is one indented "Key : Value" line of a FRU record
type FRUField struct {
	Name  string
	Value string
}

// FRURecord is one device block of `ipmitool fru` output
type FRURecord struct {
	Description string
	Fields      []FRUField
}

// FRU is every device record in print order
type FRU []FRURecord

// ParseFRU splits `ipmitool fru` output into records. Lines before the first
// device header are ignored.
func ParseFRU(out []byte) FRU {
	var fru FRU
	var cur *FRURecord

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, fruHeader) {
			_, desc, _ := strings.Cut(line, ":")
			fru = append(fru, FRURecord{Description: strings.TrimSpace(desc)})
			cur = &fru[len(fru)-1]
			continue
		}
		if cur == nil || !strings.HasPrefix(line, " ") {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		cur.Fields = append(cur.Fields, FRUField{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}

	return fru
}

// Find returns the first record whose description contains device.
func (f FRU) Find(device string) (*FRURecord, bool) {
	for i := range f {
		if strings.Contains(f[i].Description, device) {
			return &f[i], true
		}
	}
	return nil, false
}

// Field returns the first field called name.
func (r *FRURecord) Field(name string) (string, bool) {
	for _, fld := range r.Fields {
		if fld.Name == name {
			return fld.Value, true
		}
	}
	return "", false
}
