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
	"strconv"
	"strings"
)

var ErrOutOfRange = errors.New("offset out of range")

// RawResponse holds the bytes printed by `ipmitool raw`, which wraps its
// output every 16 bytes. Offsets index the flattened sequence.
type RawResponse []byte

// ParseRaw reads whitespace separated hex bytes, e.g. " 00 c0 01 80".
func ParseRaw(out []byte) (RawResponse, error) {
	fields := strings.Fields(string(out))
	resp := make(RawResponse, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hex byte %q - %w", f, err)
		}
		resp = append(resp, byte(v))
	}
	return resp, nil
}

// Byte returns the byte at offset.
func (r RawResponse) Byte(offset int) (byte, error) {
	if offset < 0 || offset >= len(r) {
		return 0, fmt.Errorf("%w: %d of %d bytes", ErrOutOfRange, offset, len(r))
	}
	return r[offset], nil
}

func (r RawResponse) String() string {
	var sb strings.Builder
	for i, b := range r {
		if i > 0 && i%16 == 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, " %02x", b)
	}
	return sb.String()
}
