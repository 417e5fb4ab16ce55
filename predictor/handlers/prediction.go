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

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solarcast/solarcast/internal/scerrors"
	"github.com/solarcast/solarcast/predictor/middlewares"
	"github.com/solarcast/solarcast/predictor/types"
)

// @Summary Create Prediction
// @Description Predict the output of a solar installation
// @Tags Prediction
// @Accept json
// @Produce json
// @Param Prediction body types.PredictRequest true "Prediction"
// @Success 200 {object} types.PredictResponse
// @Failure 400 {object} types.PredictResponse
// @Failure 404 {object} types.PredictResponse
// @Failure 422 {object} types.PredictResponse
// @Failure 500 {object} types.PredictResponse
// @Router /predictions [post]
func (h *Handlers) CreatePrediction(ctx *gin.Context) {
	var json types.PredictRequest
	if err := ctx.ShouldBindJSON(&json); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, types.NewErrorResponse(scerrors.New(scerrors.InvalidArgument, err.Error())))
		return
	}

	resp := h.service.Predict(ctx.Request.Context(), &json)
	if !resp.Success {
		ctx.JSON(middlewares.StatusCode(resp.Code), resp)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
