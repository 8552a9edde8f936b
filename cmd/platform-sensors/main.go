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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/comcast/platform-sensors/buildinfo"
	"github.com/comcast/platform-sensors/chassis"
	"github.com/comcast/platform-sensors/common"
	"github.com/comcast/platform-sensors/config"
	"github.com/comcast/platform-sensors/exporter"
	"github.com/comcast/platform-sensors/ipmi"
	"github.com/comcast/platform-sensors/logger"
	"github.com/comcast/platform-sensors/platform"
	"github.com/comcast/platform-sensors/report"
	ps_vault "github.com/comcast/platform-sensors/vault"
	"github.com/nrednav/cuid2"
	"go.uber.org/zap"

	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	app = "platform-sensors"
)

var (
	a                  = kingpin.New(app, "onboard temperature, fan tray and PSU report read from the BMC with ipmitool")
	ipmiPath           = a.Flag("ipmi.path", "ipmitool binary").Default(ipmi.DefaultPath).Envar("IPMITOOL_PATH").String()
	ipmiTimeout        = a.Flag("ipmi.timeout", "timeout of each ipmitool invocation, 0 disables it").Default("30s").Envar("IPMI_TIMEOUT").Duration()
	bmcHost            = a.Flag("bmc.host", "remote BMC address, empty reads the local BMC").Default("").Envar("BMC_HOST").String()
	bmcInterface       = a.Flag("bmc.interface", "ipmitool interface (-I), lanplus when --bmc.host is set").Default("").Envar("BMC_INTERFACE").String()
	username           = a.Flag("user", "BMC static username").Default("").Envar("BMC_USERNAME").String()
	password           = a.Flag("password", "BMC static password").Default("").Envar("BMC_PASSWORD").String()
	insecureSkipVerify = a.Flag("insecure-skip-verify", "Skip TLS verification of the vector endpoint").Default("false").Envar("INSECURE_SKIP_VERIFY").Bool()
	exactMatch         = a.Flag("sdr.exact-match", "match SDR sensor names exactly instead of by substring").Default("false").Envar("SDR_EXACT_MATCH").Bool()
	profilePath        = a.Flag("platform.profile", "YAML platform profile, empty uses the built-in s5232f profile").Default("").Envar("PLATFORM_PROFILE").String()
	output             = a.Flag("output", "report format").PlaceHolder("[text|json]").Default("text").Envar("OUTPUT").Enum("text", "json")
	metricsTextfile    = a.Flag("metrics.textfile", "also write prometheus metrics to this node_exporter textfile").Default("").Envar("METRICS_TEXTFILE").String()
	exitZero           = a.Flag("compat.exit-zero", "exit 0 even when the report aborts").Default("false").Envar("COMPAT_EXIT_ZERO").Bool()
	logLevel           = a.Flag("log.level", "log level verbosity").PlaceHolder("[debug|info|warn|error]").Default("warn").Envar("LOG_LEVEL").String()
	logMethod          = a.Flag("log.method", "alternative method for logging in addition to stderr").PlaceHolder("[file|vector]").Default("").Envar("LOG_METHOD").String()
	logFilePath        = a.Flag("log.file-path", "directory path where log files are written if log-method is file").Default("/var/log/platform-sensors").Envar("LOG_FILE_PATH").String()
	logFileMaxSize     = a.Flag("log.file-max-size", "max file size in megabytes if log-method is file").Default("16").Envar("LOG_FILE_MAX_SIZE").Int()
	logFileMaxBackups  = a.Flag("log.file-max-backups", "max file backups before they are rotated if log-method is file").Default("1").Envar("LOG_FILE_MAX_BACKUPS").Int()
	logFileMaxAge      = a.Flag("log.file-max-age", "max file age in days before they are rotated if log-method is file").Default("7").Envar("LOG_FILE_MAX_AGE").Int()
	vectorEndpoint     = a.Flag("vector.endpoint", "vector endpoint to send structured json logs to").Default("http://0.0.0.0:4444").Envar("VECTOR_ENDPOINT").String()
	vaultAddr          = a.Flag("vault.addr", "Vault instance address to get BMC credentials from").Default("https://vault.com").Envar("VAULT_ADDRESS").String()
	vaultRoleId        = a.Flag("vault.role-id", "Vault Role ID for AppRole").Default("").Envar("VAULT_ROLE_ID").String()
	vaultSecretId      = a.Flag("vault.secret-id", "Vault Secret ID for AppRole").Default("").Envar("VAULT_SECRET_ID").String()
	vaultCACert        = a.Flag("vault.ca-cert", "PEM file of the CA that signed the Vault server certificate").Default("").Envar("VAULT_CA_CERT").String()
	credProfile        = a.Flag("credentials.profile", "name of the credential profile used for --bmc.host").Default("").Envar("CREDENTIALS_PROFILE").String()
	credProfiles       = common.CredentialProf(a.Flag("credentials.profiles",
		`profile(s) with all necessary parameters to obtain BMC credential from vault, i.e.
  --credentials.profiles="
    profiles:
      - name: profile1
        mountPath: "kv2"
        path: "path/to/secret"
        userField: "user"
        passwordField: "password"
      ...
  "
--credentials.profiles='{"profiles":[{"name":"profile1","mountPath":"kv2","path":"path/to/secret","userField":"user","passwordField":"password"},...]}'`).Envar("CREDENTIALS_PROFILES"))
	showVersion = a.Flag("version", "print build information and exit").Default("false").Bool()

	log *zap.Logger
)

func main() {
	os.Exit(run())
}

func run() int {
	a.HelpFlag.Short('h')

	_, err := a.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing argument flags - %s\n", err.Error())
		return 2
	}

	if *showVersion {
		if *output == "json" {
			buildinfo.JSON(os.Stdout)
		} else {
			buildinfo.Print(app, os.Stdout)
		}
		return 0
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = ""
	}

	// validate logFilePath exists and is a directory
	if *logMethod == logger.MethodFile {
		if err := common.EnsureDir(*logFilePath); err != nil {
			fmt.Fprintf(os.Stderr, "invalid --log.file-path - %s\n", err.Error())
			return 2
		}
	}

	c := &config.Config{
		IPMIToolPath:       *ipmiPath,
		Interface:          *bmcInterface,
		Host:               *bmcHost,
		User:               *username,
		Pass:               *password,
		CommandTimeout:     *ipmiTimeout,
		InsecureSkipVerify: *insecureSkipVerify,
	}

	config.NewConfig(c)

	// init logger config
	logConfig := logger.LoggerConfig{
		LogLevel:  *logLevel,
		LogMethod: *logMethod,
		LogFile: logger.LogFile{
			Path:       *logFilePath,
			MaxSize:    *logFileMaxSize,
			MaxBackups: *logFileMaxBackups,
			MaxAge:     *logFileMaxAge,
		},
		VectorEndpoint: *vectorEndpoint,
	}

	err = logger.Initialize(app, hostname, logConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error initializing logger - log_method=%s vector_endpoint=%s log_file_path=%s - err=%s\n",
			*logMethod, *vectorEndpoint, *logFilePath, err.Error())
		return 2
	}
	defer logger.Flush()

	generate, err := cuid2.Init(cuid2.WithLength(32))
	if err == nil {
		logger.With(zap.String("trace_id", generate()))
	}
	log = zap.L()
	log.Info("starting "+app, zap.String("version", buildinfo.Short()), zap.String("bmc_host", c.Host))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.Remote() && (c.User == "" || c.Pass == "") && *vaultRoleId != "" && *vaultSecretId != "" {
		if err := loadVaultCredentials(ctx, c); err != nil {
			log.Error("failed retrieving BMC credentials from vault", zap.Error(err),
				zap.String("vault_address", *vaultAddr),
				zap.String("bmc_host", c.Host))
			return 1
		}
	}

	profile := platform.Default()
	if *profilePath != "" {
		profile, err = platform.Load(*profilePath)
		if err != nil {
			log.Error("failed loading platform profile", zap.Error(err), zap.String("path", *profilePath))
			return 2
		}
	}

	var sinks report.Tee
	if *output == "json" {
		sinks = append(sinks, report.NewJSON(os.Stdout, profile.Name))
	} else {
		sinks = append(sinks, report.NewText(os.Stdout))
	}

	if *metricsTextfile != "" {
		if err := common.EnsureDir(filepath.Dir(*metricsTextfile)); err != nil {
			log.Error("invalid --metrics.textfile", zap.Error(err), zap.String("path", *metricsTextfile))
			return 2
		}
		sinks = append(sinks, exporter.NewTextfile(*metricsTextfile, profile.Name))
	}

	collector := chassis.NewCollector(ipmi.NewTool(c, nil), profile, chassis.WithExactMatch(*exactMatch))

	if err := report.Run(ctx, collector, sinks); err != nil {
		if *exitZero {
			return 0
		}
		return 1
	}

	log.Info("sensor report complete", zap.String("platform", profile.Name))
	return 0
}

func loadVaultCredentials(ctx context.Context, c *config.Config) error {
	profile, err := credProfiles.Get(*credProfile)
	if err != nil {
		return err
	}

	params := ps_vault.Parameters{
		Address:         *vaultAddr,
		ApproleRoleID:   *vaultRoleId,
		ApproleSecretID: *vaultSecretId,
	}
	if *vaultCACert != "" {
		params.CACertBytes, err = os.ReadFile(*vaultCACert)
		if err != nil {
			return fmt.Errorf("error reading vault CA certificate - %w", err)
		}
	}

	v, err := ps_vault.NewVaultAppRoleClient(ctx, params)
	if err != nil {
		return err
	}
	if err := v.Login(ctx); err != nil {
		return err
	}

	cred, err := common.GetCredentials(ctx, v, profile, c.Host)
	if err != nil {
		return err
	}
	if c.User == "" {
		c.User = cred.User
	}
	if c.Pass == "" {
		c.Pass = cred.Pass
	}
	return nil
}
