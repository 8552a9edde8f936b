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
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Reading_Number(t *testing.T) {
	assert := assert.New(t)

	v, ok := Reading{Value: "12.10 Volts"}.Number()
	assert.True(ok)
	assert.Equal(12.10, v)

	_, ok = Reading{Value: "no reading"}.Number()
	assert.False(ok)

	_, ok = Reading{}.Number()
	assert.False(ok)
}

func Test_Airflow_Names(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Front-to-Back", AirflowFrontToBack.String())
	assert.Equal("Back-to-Front", AirflowBackToFront.String())
	assert.Equal("", AirflowUnknown.String())
	assert.Equal("F2B", AirflowFrontToBack.Short())
	assert.Equal("B2F", AirflowBackToFront.Short())
	assert.Equal("unknown", AirflowUnknown.Short())
	assert.Equal("Abnormal", FanAbnormal.String())
	assert.Equal("Unknown", FanStatus(7).String())
}

func Test_FanTray_JSON(t *testing.T) {
	assert := assert.New(t)

	out, err := json.Marshal(FanTray{
		ID:      1,
		Present: true,
		Fans:    []Fan{{Name: "Fan1", Speed: Reading{Label: "Fan1 Speed", Sensor: "FAN1_Front_rpm", Value: "11040 RPM"}, Status: FanNormal}},
		Airflow: AirflowBackToFront,
	})
	assert.Nil(err)
	assert.JSONEq(`{"id":1,"present":true,"fans":[{"name":"Fan1","speed":{"label":"Fan1 Speed","sensor":"FAN1_Front_rpm","value":"11040 RPM"},"status":"Normal"}],"airflow":"Back-to-Front"}`, string(out))

	out, err = json.Marshal(FanTray{ID: 2})
	assert.Nil(err)
	assert.JSONEq(`{"id":2,"present":false,"airflow":""}`, string(out))
}
