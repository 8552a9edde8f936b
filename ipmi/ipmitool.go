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
	"fmt"
	"time"

	"github.com/comcast/platform-sensors/config"
	"go.uber.org/zap"
)

const (
	// DefaultPath is the ipmitool binary looked up in $PATH
	DefaultPath = "ipmitool"

	// NetFnSensor is the Sensor/Event network function
	NetFnSensor = 0x04
	// NetFnStorage is the Storage network function
	NetFnStorage = 0x0a

	// CmdGetSensorReading is the Get Sensor Reading command of NetFnSensor
	CmdGetSensorReading = 0x2d
	// CmdReadFRUData is the Read FRU Data command of NetFnStorage
	CmdReadFRUData = 0x11

	// PasswordEnv is read by ipmitool when invoked with -E
	PasswordEnv = "IPMI_PASSWORD"
)

var (
	log *zap.Logger
)

// Tool wraps the ipmitool command line. With an empty Host it talks to the
// local BMC through the default in-band interface.
type Tool struct {
	Path      string
	Interface string
	Host      string
	User      string
	Pass      string

	runner Runner
}

// NewTool builds a Tool from the process configuration. A nil runner uses
// ExecRunner bounded by the configured command timeout.
func NewTool(c *config.Config, r Runner) *Tool {
	if c == nil {
		c = config.GetConfig()
	}
	if r == nil {
		r = ExecRunner{Timeout: c.CommandTimeout}
	}

	path := c.IPMIToolPath
	if path == "" {
		path = DefaultPath
	}

	return &Tool{
		Path:      path,
		Interface: c.Interface,
		Host:      c.Host,
		User:      c.User,
		Pass:      c.Pass,
		runner:    r,
	}
}

// SDRList runs `sdr list` and parses the sensor table.
func (t *Tool) SDRList(ctx context.Context) (*SDR, error) {
	out, err := t.run(ctx, "sdr", "list")
	if err != nil {
		return nil, err
	}
	return ParseSDR(out), nil
}

// SensorGet runs `sensor get <name>`.
func (t *Tool) SensorGet(ctx context.Context, name string) (*SensorReport, error) {
	out, err := t.run(ctx, "sensor", "get", name)
	if err != nil {
		return nil, err
	}
	return ParseSensorReport(out), nil
}

// Raw sends a raw request and parses the printed response bytes.
func (t *Tool) Raw(ctx context.Context, netFn, cmd byte, data ...byte) (RawResponse, error) {
	args := make([]string, 0, len(data)+3)
	args = append(args, "raw", hexArg(netFn), hexArg(cmd))
	for _, b := range data {
		args = append(args, hexArg(b))
	}

	out, err := t.run(ctx, args...)
	if err != nil {
		return nil, err
	}

	resp, err := ParseRaw(out)
	if err != nil {
		return nil, fmt.Errorf("error parsing raw response of %s - %w", commandLine(t.Path, t.args(args)), err)
	}
	return resp, nil
}

// FRU runs `fru` (fru print of every device).
func (t *Tool) FRU(ctx context.Context) (FRU, error) {
	out, err := t.run(ctx, "fru")
	if err != nil {
		return nil, err
	}
	return ParseFRU(out), nil
}

func (t *Tool) args(sub []string) []string {
	var args []string
	if t.Host != "" {
		iface := t.Interface
		if iface == "" {
			iface = "lanplus"
		}
		args = append(args, "-I", iface, "-H", t.Host)
		if t.User != "" {
			args = append(args, "-U", t.User)
		}
		if t.Pass != "" {
			args = append(args, "-E")
		}
	} else if t.Interface != "" {
		args = append(args, "-I", t.Interface)
	}
	return append(args, sub...)
}

// env carries the password for -E so it never shows up in argv.
func (t *Tool) env() []string {
	if t.Host == "" || t.Pass == "" {
		return nil
	}
	return []string{PasswordEnv + "=" + t.Pass}
}

func (t *Tool) run(ctx context.Context, sub ...string) ([]byte, error) {
	log = zap.L()

	args := t.args(sub)
	cmdline := commandLine(t.Path, args)

	start := time.Now()
	out, err := t.runner.Run(ctx, t.env(), t.Path, args...)
	log.Debug("ran ipmitool", zap.String("command", cmdline),
		zap.Int("output_bytes", len(out)),
		zap.Float64("elapsed_time_sec", time.Since(start).Seconds()),
		zap.Error(err))

	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			return nil, cmdErr
		}
		return nil, &CommandError{Command: cmdline, Err: err}
	}

	return out, nil
}

func hexArg(b byte) string {
	return fmt.Sprintf("0x%02x", b)
}
