// Copyright 2023 Cleancity AS
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"

	"github.com/cleancity/binwatch/app"
	"github.com/cleancity/binwatch/model"
)

// DeviceController contains the device-facing end-points
type DeviceController struct {
	app app.App
}

// NewDeviceController returns a new DeviceController
func NewDeviceController(app app.App) *DeviceController {
	return &DeviceController{app: app}
}

// SubmitTelemetry responds to POST /telemetry. The channel schema is
// open: any channel name is accepted, only non-numeric values and empty
// channel sets are rejected. Readings from devices that are not (yet)
// registered are stored all the same.
func (h DeviceController) SubmitTelemetry(c *gin.Context) {
	ctx := c.Request.Context()

	rawData, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "bad request",
		})
		return
	}

	req := &model.NewReadingRequest{}
	if err = json.Unmarshal(rawData, req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": errors.Wrap(err, "invalid payload").Error(),
		})
		return
	}

	reading, err := h.app.SubmitReading(ctx, req)
	if _, ok := errors.Cause(err).(validation.Errors); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": errors.Wrap(err, "error storing the reading").Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, reading)
}
