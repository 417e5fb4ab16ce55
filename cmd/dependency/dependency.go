/*
 *     Copyright 2023 The Dragonfly Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package dependency

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	_ "net/http/pprof" // nolint: gosec
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	logger "github.com/solarcast/solarcast/internal/sclog"
	"github.com/solarcast/solarcast/pkg/scpath"
	"github.com/solarcast/solarcast/pkg/types"
	"github.com/solarcast/solarcast/version"
)

// InitCommandAndConfig initializes flags binding and common sub cmds.
// config is a pointer to configuration struct.
func InitCommandAndConfig(cmd *cobra.Command, useConfigFile bool, config any) {
	rootName := cmd.Root().Name()
	cobra.OnInitialize(func() { initConfig(useConfigFile, rootName, config) })

	if !cmd.HasParent() {
		// Add common flags
		flags := cmd.PersistentFlags()
		flags.Bool("console", false, "whether logger output records to the stdout")
		flags.Bool("verbose", false, "whether logger use debug level")
		flags.Int("pprof-port", 0, "listen port for pprof, 0 represents disabling pprof, -1 picks a random port")

		if useConfigFile {
			flags.String("config", "", fmt.Sprintf("the path of configuration file with yaml extension name, default is %s, it can also be set by env var: %s", defaultConfigFile(rootName), strings.ToUpper(envPrefix(rootName)+"_config")))
		}

		// Bind common flags
		if err := viper.BindPFlags(flags); err != nil {
			panic(fmt.Errorf("bind common flags to viper: %w", err))
		}

		// Add common cmds only on root cmd
		cmd.AddCommand(VersionCmd)
	}
}

// InitMonitor serves pprof when pprofPort is non-zero and returns the function to stop it.
func InitMonitor(pprofPort int) func() {
	if pprofPort == 0 {
		return func() {}
	}

	if pprofPort < 0 {
		pprofPort = 0
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", pprofPort))
	if err != nil {
		logger.Errorf("listen pprof port failed: %s", err.Error())
		return func() {}
	}

	server := &http.Server{Handler: http.DefaultServeMux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("enable pprof at http://%s/debug/pprof", listener.Addr().String())
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warnf("serve pprof error: %s", err.Error())
		}
	}()

	return func() {
		if err := server.Close(); err != nil {
			logger.Errorf("close pprof server failed: %s", err.Error())
		}
	}
}

// SetupQuitSignalHandler calls handler once on the first quit signal.
func SetupQuitSignalHandler(handler func()) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		var done bool
		for sig := range signals {
			logger.Warnf("receive %s signal", sig)
			if !done {
				handler()
				logger.Info("quit handler done")
				done = true
			}
		}
	}()
}

// initConfig reads in config file and ENV variables if set.
func initConfig(useConfigFile bool, name string, config any) {
	// Use config file and read once.
	if useConfigFile {
		cfgFile := viper.GetString("config")
		if cfgFile != "" {
			// Use config file from the flag.
			viper.SetConfigFile(cfgFile)
		} else {
			viper.SetConfigFile(defaultConfigFile(name))
		}
	}

	viper.SetEnvPrefix(envPrefix(name))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if useConfigFile {
		// If a config file is found, read it in.
		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				panic(fmt.Errorf("read config file %s: %w", viper.ConfigFileUsed(), err))
			}
		} else {
			logger.Infof("using config file: %s", viper.ConfigFileUsed())
		}
	}

	if err := viper.Unmarshal(config, initDecoderConfig); err != nil {
		panic(fmt.Errorf("unmarshal config to struct: %w", err))
	}
}

func defaultConfigFile(name string) string {
	return filepath.Join(scpath.DefaultConfigDir, fmt.Sprintf("%s.yaml", name))
}

func envPrefix(name string) string {
	switch name {
	case types.TrainerName:
		return types.TrainerEnvPrefix
	case types.PredictorName:
		return types.PredictorEnvPrefix
	default:
		return strings.ToUpper(fmt.Sprintf("%s_%s", types.MetricsNamespace, name))
	}
}

func initDecoderConfig(dc *mapstructure.DecoderConfig) {
	dc.TagName = "mapstructure"
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// PrintVersion logs the version of the binary.
func PrintVersion() {
	logger.Infof("version:\n%s", version.Version())
}
