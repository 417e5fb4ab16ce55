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

package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solarcast/solarcast/internal/scerrors"
)

type ErrorResponse struct {
	Message string        `json:"message,omitempty"`
	Error   string        `json:"errors,omitempty"`
	Code    scerrors.Code `json:"code,omitempty"`
}

// StatusCode maps an error code to its http status.
func StatusCode(code scerrors.Code) int {
	switch code {
	case scerrors.InvalidArgument, scerrors.DataInsufficiency:
		return http.StatusBadRequest
	case scerrors.ArtifactNotFound:
		return http.StatusNotFound
	case scerrors.SchemaMismatch:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func Error() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		err := c.Errors.Last()
		if err == nil {
			return
		}

		// Gin error handler
		if err.IsType(gin.ErrorTypeBind) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Message: http.StatusText(http.StatusUnprocessableEntity),
				Error:   err.Error(),
			})
			return
		}

		// Solarcast error handler
		var e *scerrors.Error
		if errors.As(err.Err, &e) {
			status := StatusCode(e.Code)
			c.JSON(status, ErrorResponse{
				Message: http.StatusText(status),
				Error:   e.Message,
				Code:    e.Code,
			})
			return
		}

		// Unknown error
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: http.StatusText(http.StatusInternalServerError),
		})
	}
}
