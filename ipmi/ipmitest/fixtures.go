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

package ipmitest

import (
	"fmt"
	"strings"
)

const (
	SDRKey = "sdr list"
	FRUKey = "fru"

	// AirflowOffset matches the s5232f profile
	AirflowOffset = 0x46
)

// SDRList is a healthy s5232f `sdr list`.
const SDRList = `PT_Left_temp     | 45 degrees C      | ok
PT_Mid_temp      | 41 degrees C      | ok
PT_Right_temp    | 39 degrees C      | ok
NPU_Near_temp    | 52 degrees C      | ok
ILET_AF_temp     | 27 degrees C      | ok
CPU_temp         | 48 degrees C      | ok
FAN1_Front_rpm   | 11040 RPM         | ok
FAN1_Rear_rpm    | 9960 RPM          | ok
FAN2_Front_rpm   | 11160 RPM         | ok
FAN2_Rear_rpm    | 10080 RPM         | ok
FAN3_Front_rpm   | 11040 RPM         | ok
FAN3_Rear_rpm    | 9840 RPM          | ok
FAN4_Front_rpm   | 11280 RPM         | ok
FAN4_Rear_rpm    | 9960 RPM          | ok
FAN1_Front_stat  | 0x00              | ok
FAN1_Rear_stat   | 0x00              | ok
FAN2_Front_stat  | 0x00              | ok
FAN2_Rear_stat   | 0x00              | ok
FAN3_Front_stat  | 0x00              | ok
FAN3_Rear_stat   | 0x00              | ok
FAN4_Front_stat  | 0x00              | ok
FAN4_Rear_stat   | 0x00              | ok
PSU1_temp        | 31 degrees C      | ok
PSU1_AF_temp     | 29 degrees C      | ok
PSU1_rpm         | 6720 RPM          | ok
PSU1_In_volt     | 206 Volts         | ok
PSU1_Out_volt    | 12.10 Volts       | ok
PSU1_In_watt     | 152 Watts         | ok
PSU1_Out_watt    | 136 Watts         | ok
PSU1_In_amp      | 0.74 Amps         | ok
PSU1_Out_amp     | 11.25 Amps        | ok
PSU2_temp        | 33 degrees C      | ok
PSU2_AF_temp     | 30 degrees C      | ok
PSU2_rpm         | 6840 RPM          | ok
PSU2_In_volt     | 207 Volts         | ok
PSU2_Out_volt    | 12.05 Volts       | ok
PSU2_In_watt     | 146 Watts         | ok
PSU2_Out_watt    | 130 Watts         | ok
PSU2_In_amp      | 0.71 Amps         | ok
PSU2_Out_amp     | 10.75 Amps        | ok
PSU_Total_watt   | 298 Watts         | ok
`

// FRUList has PSU1 as a PS/IO (back to front) supply and PSU2 front to back.
const FRUList = `FRU Device Description : Builtin FRU Device (ID 0)
 Board Mfg Date        : Mon Jan  7 08:00:00 2019
 Board Mfg             : DELL
 Board Product         : S5232F-ON
 Board Serial          : CN0000000000000

FRU Device Description : PSU1_fru (ID 3)
 Board Mfg             : DELTA
 Board Product         : PWR SPLY,750W,RA,PS/IO
 Board Serial          : CN0PSU1

FRU Device Description : PSU2_fru (ID 4)
 Board Mfg             : DELTA
 Board Product         : PWR SPLY,750W,RA,IO/PS
 Board Serial          : CN0PSU2
`

// SensorGet renders `sensor get` output with token on line 5.
func SensorGet(name, token string) string {
	return fmt.Sprintf(`Locating sensor record...
Sensor ID              : %s (0x5a)
 Entity ID             : 29.1
 Sensor Type (Discrete): Fan
 States Asserted       : Availability State
                         [%s]
`, name, token)
}

// RawDump prints bytes the way `ipmitool raw` does, 16 per line.
func RawDump(b []byte) string {
	var sb strings.Builder
	for i, v := range b {
		if i > 0 && i%16 == 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, " %02x", v)
	}
	sb.WriteString("\n")
	return sb.String()
}

// FanFRU is a 0xa0 byte Read FRU Data response with dir at AirflowOffset.
func FanFRU(dir byte) string {
	b := make([]byte, 0xa1)
	b[0] = 0xa0
	b[AirflowOffset] = dir
	return RawDump(b)
}

// PSUState is a Get Sensor Reading response carrying state in the low nibble
// of the third byte.
func PSUState(state byte) string {
	return RawDump([]byte{0x00, 0xc0, state & 0x0f, 0x80})
}

func PresenceKey(tray int) string {
	return fmt.Sprintf("sensor get FAN%d_prsnt", tray)
}

func FanFRUKey(tray int) string {
	return fmt.Sprintf("raw 0x0a 0x11 0x%02x 0x00 0x00 0xa0", tray+2)
}

func PSUKey(psu int) string {
	return fmt.Sprintf("raw 0x04 0x2d 0x%02x", 0x30+psu)
}

// Healthy scripts a fully populated chassis: four trays present with trays
// 1-3 front to back and tray 4 back to front, both PSUs present and OK.
func Healthy() *Runner {
	r := NewRunner()
	r.Set(SDRKey, SDRList)
	r.Set(FRUKey, FRUList)
	for tray := 1; tray <= 4; tray++ {
		r.Set(PresenceKey(tray), SensorGet(fmt.Sprintf("FAN%d_prsnt", tray), "Present"))
		dir := byte(0)
		if tray == 4 {
			dir = 1
		}
		r.Set(FanFRUKey(tray), FanFRU(dir))
	}
	for psu := 1; psu <= 2; psu++ {
		r.Set(PSUKey(psu), PSUState(0x01))
	}
	return r
}
