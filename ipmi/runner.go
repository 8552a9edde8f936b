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
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Runner executes an external command and returns its standard output. env
// holds extra KEY=value pairs added to the inherited environment.
type Runner interface {
	Run(ctx context.Context, env []string, name string, args ...string) ([]byte, error)
}

// DefaultWaitDelay bounds how long output pipes may stay open once the
// command is killed or exits, e.g. when a forked child still holds them.
const DefaultWaitDelay = time.Second

// ExecRunner runs commands with os/exec. A zero Timeout means the command is
// only bounded by ctx. A zero WaitDelay uses DefaultWaitDelay.
type ExecRunner struct {
	Timeout   time.Duration
	WaitDelay time.Duration
}

// CommandError reports a command that could not be started, exited non-zero
// or ran past its deadline.
type CommandError struct {
	// Command is the command line with secrets redacted.
	Command string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("failed to execute: %s - %v", e.Command, e.Err)
	if e.Stderr != "" {
		msg += " - " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ErrTimeout is wrapped by CommandError when the deadline expires.
var ErrTimeout = errors.New("command timed out")

func (r ExecRunner) Run(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	err := cmd.Run()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, exec.ErrWaitDelay) {
			err = ErrTimeout
		}
		return stdout.Bytes(), &CommandError{
			Command: commandLine(name, args),
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}

	return stdout.Bytes(), nil
}

// commandLine joins argv for logs and diagnostics, masking the value that
// follows -P.
func commandLine(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for i, a := range args {
		if i > 0 && args[i-1] == "-P" {
			parts = append(parts, "****")
			continue
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
