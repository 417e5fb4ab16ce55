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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/solarcast/solarcast/internal/scerrors"
	"github.com/solarcast/solarcast/predictor"
	"github.com/solarcast/solarcast/predictor/service"
	"github.com/solarcast/solarcast/predictor/types"
)

// errPredictionFailed marks a failed response that has already been written.
var errPredictionFailed = errors.New("prediction failed")

var predictCmd = &cobra.Command{
	Use:               "predict",
	Short:             "predict from one json request read on stdin",
	Long:              `predict reads one json prediction request from stdin and writes one json response to stdout.`,
	Args:              cobra.NoArgs,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	SilenceErrors:     true,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := initPredictor()
		if err != nil {
			return err
		}

		svc, err := predictor.NewService(cfg, d)
		if err != nil {
			return err
		}

		if err := runPredict(cmd.Context(), svc, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
			if !errors.Is(err, errPredictionFailed) {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
			os.Exit(1)
		}

		return nil
	},
}

// runPredict decodes one request from r and encodes the response to w.
func runPredict(ctx context.Context, svc service.Service, r io.Reader, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var resp *types.PredictResponse
	req := &types.PredictRequest{}
	if err := json.NewDecoder(r).Decode(req); err != nil {
		resp = types.NewErrorResponse(scerrors.Newf(scerrors.InvalidArgument, "decode request: %s", err.Error()))
	} else {
		resp = svc.Predict(ctx, req)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(resp); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	if !resp.Success {
		return errPredictionFailed
	}

	return nil
}
