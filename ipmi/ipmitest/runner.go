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

// Package ipmitest provides a scripted ipmitool stand-in and S5232F fixtures.
package ipmitest

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Response is what the fake returns for one command line.
type Response struct {
	Out string
	Err error
}

// Runner answers commands keyed by their arguments joined with spaces,
// e.g. "sdr list" or "raw 0x04 0x2d 0x31". Unknown commands fail.
type Runner struct {
	mu        sync.Mutex
	Responses map[string]Response
	calls     []string
	env       map[string][]string
}

func NewRunner() *Runner {
	return &Runner{Responses: map[string]Response{}, env: map[string][]string{}}
}

func (r *Runner) Set(key, out string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Responses[key] = Response{Out: out}
}

func (r *Runner) Fail(key string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Responses[key] = Response{Err: err}
}

func (r *Runner) Run(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	key := strings.Join(args, " ")

	r.mu.Lock()
	r.calls = append(r.calls, key)
	r.env[key] = append([]string(nil), env...)
	resp, ok := r.Responses[key]
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("exit status 1: no scripted response for %q", key)
	}
	return []byte(resp.Out), resp.Err
}

// Calls returns every command line run so far.
func (r *Runner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Env returns the extra environment of the last run of key.
func (r *Runner) Env(key string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.env[key]...)
}

// Called reports how many times key was run.
func (r *Runner) Called(key string) int {
	n := 0
	for _, c := range r.Calls() {
		if c == key {
			n++
		}
	}
	return n
}
