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
	"testing"

	"github.com/comcast/platform-sensors/ipmi/ipmitest"
	"github.com/stretchr/testify/assert"
)

func Test_ParseRaw(t *testing.T) {
	assert := assert.New(t)

	resp, err := ParseRaw([]byte(" 00 c0 01 80\n"))
	assert.Nil(err)
	assert.Equal(RawResponse{0x00, 0xc0, 0x01, 0x80}, resp)

	b, err := resp.Byte(2)
	assert.Nil(err)
	assert.Equal(byte(0x01), b)
	assert.Equal(" 00 c0 01 80", resp.String())
}

func Test_ParseRaw_Wrapped(t *testing.T) {
	assert := assert.New(t)

	resp, err := ParseRaw([]byte(ipmitest.FanFRU(1)))
	assert.Nil(err)
	assert.Len(resp, 0xa1)

	b, err := resp.Byte(0)
	assert.Nil(err)
	assert.Equal(byte(0xa0), b)

	b, err = resp.Byte(ipmitest.AirflowOffset)
	assert.Nil(err)
	assert.Equal(byte(1), b)
}

func Test_ParseRaw_Errors(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseRaw([]byte(" 00 zz"))
	assert.NotNil(err)

	_, err = ParseRaw([]byte(" 100"))
	assert.NotNil(err)

	resp, err := ParseRaw([]byte(""))
	assert.Nil(err)
	assert.Len(resp, 0)

	_, err = resp.Byte(0)
	assert.True(errors.Is(err, ErrOutOfRange))

	_, err = RawResponse{0x01}.Byte(-1)
	assert.True(errors.Is(err, ErrOutOfRange))
}
