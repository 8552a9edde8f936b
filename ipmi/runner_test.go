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
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func Test_ExecRunner(t *testing.T) {
	requireShell(t)
	assert := assert.New(t)

	out, err := ExecRunner{}.Run(context.Background(), nil, "sh", "-c", "echo hello")
	assert.Nil(err)
	assert.Equal("hello\n", string(out))
}

func Test_ExecRunner_Failure(t *testing.T) {
	requireShell(t)
	assert := assert.New(t)

	_, err := ExecRunner{}.Run(context.Background(), nil, "sh", "-c", "echo oops >&2; exit 3")

	var cmdErr *CommandError
	assert.True(errors.As(err, &cmdErr))
	assert.Equal("oops", cmdErr.Stderr)
	assert.Equal("sh -c echo oops >&2; exit 3", cmdErr.Command)

	var exitErr *exec.ExitError
	assert.True(errors.As(err, &exitErr))
	assert.Equal(3, exitErr.ExitCode())
}

func Test_ExecRunner_Timeout(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	assert := assert.New(t)

	start := time.Now()
	_, err := ExecRunner{Timeout: 50 * time.Millisecond}.Run(context.Background(), nil, "sleep", "5")
	assert.True(errors.Is(err, ErrTimeout))
	assert.Less(time.Since(start), 4*time.Second)
}

func Test_ExecRunner_Timeout_Held_Pipes(t *testing.T) {
	requireShell(t)
	assert := assert.New(t)

	// the shell is killed at the deadline but its sleep child keeps stdout open
	start := time.Now()
	_, err := ExecRunner{Timeout: 100 * time.Millisecond, WaitDelay: 100 * time.Millisecond}.
		Run(context.Background(), nil, "sh", "-c", "sleep 3; echo x")
	assert.True(errors.Is(err, ErrTimeout))
	assert.Less(time.Since(start), 2*time.Second)
}

func Test_ExecRunner_Env(t *testing.T) {
	requireShell(t)
	assert := assert.New(t)

	out, err := ExecRunner{}.Run(context.Background(), []string{"IPMI_PASSWORD=calvin"}, "sh", "-c", "echo $IPMI_PASSWORD")
	assert.Nil(err)
	assert.Equal("calvin\n", string(out))

	// extra variables are added to the inherited environment
	out, err = ExecRunner{}.Run(context.Background(), []string{"IPMI_PASSWORD=calvin"}, "sh", "-c", "echo ${PATH:+set}")
	assert.Nil(err)
	assert.Equal("set\n", string(out))
}

func Test_ExecRunner_MissingBinary(t *testing.T) {
	assert := assert.New(t)

	_, err := ExecRunner{}.Run(context.Background(), nil, "/nonexistent/ipmitool", "sdr", "list")
	var cmdErr *CommandError
	assert.True(errors.As(err, &cmdErr))
	assert.Equal("/nonexistent/ipmitool sdr list", cmdErr.Command)
}

func Test_CommandLine_Redacts_Password(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("ipmitool -I lanplus -H h -U u -P **** fru",
		commandLine("ipmitool", []string{"-I", "lanplus", "-H", "h", "-U", "u", "-P", "pw", "fru"}))
	assert.Equal("ipmitool -P", commandLine("ipmitool", []string{"-P"}))
}
