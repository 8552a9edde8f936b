/*
 * Copyright 2023 Comcast Cable Communications Management, LLC
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

package logger

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	MethodFile   = "file"
	MethodVector = "vector"
)

var (
	logger      *zap.Logger
	atomicLevel = zap.NewAtomicLevel()

	// stderr is swapped in tests
	stderr io.Writer = os.Stderr
)

// LoggerConfig selects the level and an optional second destination next to
// stderr. Stdout is never used, it carries the report.
type LoggerConfig struct {
	LogLevel       string
	LogMethod      string
	LogFile        LogFile
	VectorEndpoint string
}

// LogFile holds lumberjack rotation settings
type LogFile struct {
	Path       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
}

func Initialize(svc, hostname string, cfg LoggerConfig) error {
	atomicLevel.SetLevel(parseLevel(cfg.LogLevel))

	encoder := zapcore.NewJSONEncoder(ProdEncoderConf())
	core := zapcore.NewCore(encoder, zapcore.AddSync(stderr), atomicLevel)

	switch cfg.LogMethod {
	case "":
	case MethodFile:
		ljWriteSyncer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(cfg.LogFile.Path, svc+".log"),
			MaxSize:    cfg.LogFile.MaxSize, // megabytes
			MaxBackups: cfg.LogFile.MaxBackups,
			MaxAge:     cfg.LogFile.MaxAge, // days
		})
		core = zapcore.NewTee(core, zapcore.NewCore(encoder.Clone(), ljWriteSyncer, atomicLevel))
	case MethodVector:
		u, err := url.Parse(cfg.VectorEndpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid vector endpoint %q", cfg.VectorEndpoint)
		}
		core = zapcore.NewTee(core, zapcore.NewCore(encoder.Clone(), newVectorSink(u), atomicLevel))
	default:
		return fmt.Errorf("unknown log method %q", cfg.LogMethod)
	}

	logger = zap.New(core, zap.AddCaller(),
		zap.Fields(
			zap.String("app", svc),
			zap.String("host", hostname),
		))

	zap.ReplaceGlobals(logger)
	return nil
}

// With adds fields to the global logger, e.g. a per-run trace id.
func With(fields ...zap.Field) {
	if logger == nil {
		return
	}
	logger = logger.With(fields...)
	zap.ReplaceGlobals(logger)
}

func Flush() {
	if logger != nil {
		logger.Sync()
	}
}

func parseLevel(l string) zapcore.Level {
	switch l {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func ProdEncoderConf() zapcore.EncoderConfig {
	encConf := zap.NewProductionEncoderConfig()
	encConf.EncodeTime = zapcore.RFC3339TimeEncoder

	return encConf
}
