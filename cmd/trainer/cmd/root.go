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
	"io"
	"os"
	"path"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/solarcast/solarcast/cmd/dependency"
	logger "github.com/solarcast/solarcast/internal/sclog"
	"github.com/solarcast/solarcast/pkg/scpath"
	"github.com/solarcast/solarcast/pkg/types"
	"github.com/solarcast/solarcast/trainer"
	"github.com/solarcast/solarcast/trainer/config"
)

var (
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "trainer",
	Short: "the trainer of solarcast",
	Long: `Trainer loads a historical solar generation dataset, engineers features, trains the
candidate regression models and persists the best one as a model artifact.`,
	Args:              cobra.NoArgs,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Convert config.
		if err := cfg.Convert(); err != nil {
			return err
		}

		// Validate config.
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Initialize scpath.
		d, err := initScpath(&cfg.Server)
		if err != nil {
			return err
		}
		rotateConfig := logger.LogRotateConfig{
			MaxSize:    cfg.Server.LogMaxSize,
			MaxAge:     cfg.Server.LogMaxAge,
			MaxBackups: cfg.Server.LogMaxBackups}

		// Initialize logger.
		if err := logger.InitTrainer(cfg.Verbose, cfg.Console, d.LogDir(), rotateConfig); err != nil {
			return fmt.Errorf("init trainer logger: %w", err)
		}
		stdout := logger.RedirectStdoutAndStderr(cfg.Console, path.Join(d.LogDir(), types.TrainerName))

		return runTrainer(ctx, d, stdout)
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
	// Initialize default trainer config.
	cfg = config.New()
	// Initialize command and config.
	dependency.InitCommandAndConfig(rootCmd, true, cfg)

	flags := rootCmd.Flags()
	flags.String("dataset", "", "path of the csv dataset to train on")
	flags.String("artifact-dir", "", "directory the model artifact is written to")
	flags.String("report", "", "path of the json evaluation report, printed to stdout when empty")

	for key, flag := range map[string]string{
		"training.dataset":   "dataset",
		"server.artifactDir": "artifact-dir",
		"training.report":    "report",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Errorf("bind flag %s to viper: %w", flag, err))
		}
	}
}

func initScpath(cfg *config.ServerConfig) (scpath.Scpath, error) {
	var options []scpath.Option
	if cfg.LogDir != "" {
		options = append(options, scpath.WithLogDir(cfg.LogDir))
	}

	if cfg.DataDir != "" {
		options = append(options, scpath.WithDataDir(cfg.DataDir))
	}

	if cfg.ArtifactDir != "" {
		options = append(options, scpath.WithArtifactDir(cfg.ArtifactDir))
	}

	return scpath.New(options...)
}

func runTrainer(ctx context.Context, d scpath.Scpath, stdout io.Writer) error {
	dependency.PrintVersion()

	ff := dependency.InitMonitor(cfg.PProfPort)
	defer ff()

	svr, err := trainer.New(ctx, cfg, d, trainer.WithStdout(stdout))
	if err != nil {
		return err
	}
	defer svr.Stop()

	dependency.SetupQuitSignalHandler(func() { svr.Stop() })
	return svr.Serve()
}
