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

package platform

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Default_Profile(t *testing.T) {
	assert := assert.New(t)
	p := Default()

	assert.Equal("s5232f", p.Name)
	assert.Len(p.Temperatures, 6)
	assert.Equal(SensorEntry{Label: "Broadcom Temp", Sensor: "NPU_Near_temp"}, p.Temperatures[3])

	assert.Equal(4, p.FanTrays.Count)
	assert.Equal(5, p.FanTrays.PresenceLine)
	assert.Equal("Present", p.FanTrays.PresenceToken)
	assert.Len(p.FanTrays.Fans, 2)
	assert.Equal(2, p.FanTrays.FRUIDBase)
	assert.Equal(0x46, p.FanTrays.AirflowOffset)
	assert.Equal(0xa0, p.FanTrays.FRUReadLength)

	assert.Equal(2, p.PSUs.Count)
	assert.Equal(0x30, p.PSUs.StatusSensorBase)
	assert.Len(p.PSUs.Readings, 9)
	assert.Equal("PS/IO", p.PSUs.ReverseAirflowToken)

	assert.Equal(SensorEntry{Label: "Total Power", Sensor: "PSU_Total_watt"}, p.TotalPower)
}

func Test_Parse_UnknownKey(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse(strings.NewReader("name: x\ntotalPower:\n  sensor: T\nfanTray:\n  count: 1\n"))
	assert.NotNil(err)
	assert.Contains(err.Error(), "fanTray")
}

func Test_Parse_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		profile  string
		expected string
	}{
		{
			name:     "Missing total power",
			profile:  "name: x\n",
			expected: "totalPower.sensor is empty",
		},
		{
			name:     "Presence sensor without placeholder",
			profile:  "name: x\ntotalPower: {sensor: T}\nfanTrays:\n  count: 1\n  presenceSensor: FAN_prsnt\n  presenceToken: Present\n  fans:\n    - name: Fan1\n      speed: S{id}\n      status: T{id}\n  airflowOffset: 1\n  fruReadLength: 2\n",
			expected: "fanTrays.presenceSensor must contain {id}",
		},
		{
			name:     "Airflow offset past read length",
			profile:  "name: x\ntotalPower: {sensor: T}\nfanTrays:\n  count: 1\n  presenceSensor: FAN{id}_prsnt\n  presenceToken: Present\n  fans:\n    - name: Fan1\n      speed: S{id}\n      status: T{id}\n  airflowOffset: 0x46\n  fruReadLength: 0x10\n",
			expected: "fanTrays.fruReadLength must cover airflowOffset",
		},
		{
			name:     "Negative presence line",
			profile:  "name: x\ntotalPower: {sensor: T}\nfanTrays:\n  count: 1\n  presenceSensor: FAN{id}_prsnt\n  presenceLine: -1\n  presenceToken: Present\n  fans:\n    - name: Fan1\n      speed: S{id}\n      status: T{id}\n  airflowOffset: 1\n  fruReadLength: 2\n",
			expected: "fanTrays.presenceLine must not be negative",
		},
		{
			name:     "Negative fru id base",
			profile:  "name: x\ntotalPower: {sensor: T}\nfanTrays:\n  count: 1\n  presenceSensor: FAN{id}_prsnt\n  presenceToken: Present\n  fans:\n    - name: Fan1\n      speed: S{id}\n      status: T{id}\n  fruIdBase: -5\n  airflowOffset: 1\n  fruReadLength: 2\n",
			expected: "fanTrays.fruIdBase must not be negative",
		},
		{
			name:     "Negative airflow offset",
			profile:  "name: x\ntotalPower: {sensor: T}\nfanTrays:\n  count: 1\n  presenceSensor: FAN{id}_prsnt\n  presenceToken: Present\n  fans:\n    - name: Fan1\n      speed: S{id}\n      status: T{id}\n  airflowOffset: -1\n  fruReadLength: 2\n",
			expected: "fanTrays.airflowOffset must not be negative",
		},
		{
			name:     "Negative read length",
			profile:  "name: x\ntotalPower: {sensor: T}\nfanTrays:\n  count: 1\n  presenceSensor: FAN{id}_prsnt\n  presenceToken: Present\n  fans:\n    - name: Fan1\n      speed: S{id}\n      status: T{id}\n  airflowOffset: -2\n  fruReadLength: -1\n",
			expected: "fanTrays.fruReadLength must not be negative",
		},
		{
			name:     "Negative PSU status sensor base",
			profile:  "name: x\ntotalPower: {sensor: T}\npsus:\n  count: 2\n  statusSensorBase: -48\n  fruDevice: PSU{id}_fru\n  productField: Board Product\n",
			expected: "psus.statusSensorBase must not be negative",
		},
		{
			name:     "PSU reading without sensor",
			profile:  "name: x\ntotalPower: {sensor: T}\npsus:\n  count: 1\n  fruDevice: PSU{id}_fru\n  productField: Board Product\n  readings: [{label: FAN RPM}]\n",
			expected: "psus.readings[0] needs label and sensor",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert := assert.New(t)
			_, err := Parse(strings.NewReader(test.profile))
			assert.True(errors.Is(err, ErrInvalidProfile))
			assert.Contains(err.Error(), test.expected)
		})
	}
}

func Test_Parse_AirflowOffset_Last_Byte(t *testing.T) {
	assert := assert.New(t)

	// byte 0 is the count, so offset == fruReadLength is the last data byte
	profile := "name: x\ntotalPower: {sensor: T}\nfanTrays:\n  count: 1\n  presenceSensor: FAN{id}_prsnt\n  presenceToken: Present\n  fans:\n    - name: Fan1\n      speed: S{id}\n      status: T{id}\n  airflowOffset: 0x10\n  fruReadLength: 0x10\n"
	p, err := Parse(strings.NewReader(profile))
	assert.Nil(err)
	assert.Equal(0x10, p.FanTrays.AirflowOffset)

	_, err = Parse(strings.NewReader(strings.Replace(profile, "airflowOffset: 0x10", "airflowOffset: 0x11", 1)))
	assert.True(errors.Is(err, ErrInvalidProfile))
	assert.Contains(err.Error(), "fanTrays.fruReadLength must cover airflowOffset")
}

func Test_Load(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "s5232f.yaml")
	assert.Nil(os.WriteFile(path, s5232f, 0o644))

	p, err := Load(path)
	assert.Nil(err)
	assert.Equal(Default(), p)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(err)
}

func Test_Parse_ChassisOnly(t *testing.T) {
	assert := assert.New(t)

	p, err := Parse(strings.NewReader("name: bare\ntemperatures:\n  - {label: CPU Temp, sensor: CPU_temp}\ntotalPower: {label: Total Power, sensor: PSU_Total_watt}\n"))
	assert.Nil(err)
	assert.Equal(0, p.FanTrays.Count)
	assert.Equal(0, p.PSUs.Count)
}

func Test_Expand(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("FAN3_Front_rpm", Expand("FAN{id}_Front_rpm", 3))
	assert.Equal("PSU_Total_watt", Expand("PSU_Total_watt", 0))
}
