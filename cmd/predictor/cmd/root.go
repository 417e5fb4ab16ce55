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

package cmd

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/spf13/cobra"

	"github.com/solarcast/solarcast/cmd/dependency"
	logger "github.com/solarcast/solarcast/internal/sclog"
	"github.com/solarcast/solarcast/pkg/scpath"
	"github.com/solarcast/solarcast/pkg/types"
	"github.com/solarcast/solarcast/predictor"
	"github.com/solarcast/solarcast/predictor/config"
)

var (
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "predictor",
	Short: "the predictor of solarcast",
	Long: `Predictor is a long-running process that loads the current model artifact and serves
solar power, energy and financial estimates over a REST API.`,
	Args:              cobra.NoArgs,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := initPredictor()
		if err != nil {
			return err
		}
		logger.RedirectStdoutAndStderr(cfg.Console, path.Join(d.LogDir(), types.PredictorName))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		return runPredictor(ctx, d)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func init() {
	// Initialize default predictor config.
	cfg = config.New()
	// Initialize command and config.
	dependency.InitCommandAndConfig(rootCmd, true, cfg)

	rootCmd.AddCommand(predictCmd)
}

// initPredictor converts and validates config, then initializes scpath and logger.
func initPredictor() (scpath.Scpath, error) {
	// Convert config.
	if err := cfg.Convert(); err != nil {
		return nil, err
	}

	// Validate config.
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Initialize scpath.
	d, err := initScpath(&cfg.Server)
	if err != nil {
		return nil, err
	}
	rotateConfig := logger.LogRotateConfig{
		MaxSize:    cfg.Server.LogMaxSize,
		MaxAge:     cfg.Server.LogMaxAge,
		MaxBackups: cfg.Server.LogMaxBackups}

	// Initialize logger.
	if err := logger.InitPredictor(cfg.Verbose, cfg.Console, d.LogDir(), rotateConfig); err != nil {
		return nil, fmt.Errorf("init predictor logger: %w", err)
	}

	return d, nil
}

func initScpath(cfg *config.ServerConfig) (scpath.Scpath, error) {
	var options []scpath.Option
	if cfg.LogDir != "" {
		options = append(options, scpath.WithLogDir(cfg.LogDir))
	}

	if cfg.ArtifactDir != "" {
		options = append(options, scpath.WithArtifactDir(cfg.ArtifactDir))
	}

	return scpath.New(options...)
}

func runPredictor(ctx context.Context, d scpath.Scpath) error {
	dependency.PrintVersion()

	ff := dependency.InitMonitor(cfg.PProfPort)
	defer ff()

	svr, err := predictor.New(ctx, cfg, d)
	if err != nil {
		return err
	}

	dependency.SetupQuitSignalHandler(func() { svr.Stop() })
	return svr.Serve()
}
