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
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mendersoftware/go-lib-micro/identity"
	"github.com/mendersoftware/go-lib-micro/log"
	"github.com/pkg/errors"

	"github.com/cleancity/binwatch/app"
	"github.com/cleancity/binwatch/client/nats"
	"github.com/cleancity/binwatch/model"
)

// HTTP errors
var (
	ErrMissingUserAuthentication = errors.New(
		"missing or non-user identity in the authorization headers",
	)
)

// ManagementController container for end-points
type ManagementController struct {
	app  app.App
	nats nats.Client
}

// NewManagementController returns a new ManagementController
func NewManagementController(
	app app.App,
	nc nats.Client,
) *ManagementController {
	return &ManagementController{
		app:  app,
		nats: nc,
	}
}

func callerIDFromContext(c *gin.Context) string {
	idata := identity.FromContext(c.Request.Context())
	if idata == nil {
		return ""
	}
	return idata.Subject
}

// GetStatuses responds to GET /statuses with the fill status of every
// device inside the caller's location scope. A caller with no authorized
// locations receives an empty list, not an error.
func (h ManagementController) GetStatuses(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.FromContext(ctx)

	callerID := callerIDFromContext(c)
	if callerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": ErrMissingUserAuthentication.Error(),
		})
		return
	}

	statuses, err := h.app.GetDeviceStatuses(ctx, callerID)
	if err == app.ErrCallerNotFound {
		c.JSON(http.StatusForbidden, gin.H{
			"error": err.Error(),
		})
		return
	} else if err != nil {
		l.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, statuses)
}

// GetHistory responds to GET /devices/:deviceId/history. The device must
// be inside the caller's location scope, exactly like the status listing.
func (h ManagementController) GetHistory(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.FromContext(ctx)

	callerID := callerIDFromContext(c)
	if callerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": ErrMissingUserAuthentication.Error(),
		})
		return
	}
	deviceID := c.Param("deviceId")

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "invalid limit parameter",
			})
			return
		}
	}

	readings, err := h.app.GetSensorHistory(ctx, callerID, deviceID, limit)
	switch errors.Cause(err) {
	case nil:
	case app.ErrDeviceNotFound:
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	case app.ErrCallerNotFound, app.ErrNotAuthorized:
		c.JSON(http.StatusForbidden, gin.H{
			"error": err.Error(),
		})
		return
	default:
		l.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, readings)
}

// RegisterDevice responds to POST /devices; elevated callers only
func (h ManagementController) RegisterDevice(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.FromContext(ctx)

	callerID := callerIDFromContext(c)
	if callerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": ErrMissingUserAuthentication.Error(),
		})
		return
	}

	rawData, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "bad request",
		})
		return
	}
	req := &model.RegisterDeviceRequest{}
	if err = json.Unmarshal(rawData, req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": errors.Wrap(err, "invalid payload").Error(),
		})
		return
	}

	device, err := h.app.RegisterDevice(ctx, callerID, req)
	if _, ok := errors.Cause(err).(validation.Errors); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}
	switch errors.Cause(err) {
	case nil:
	case app.ErrDeviceAlreadyRegistered:
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
		return
	case app.ErrCallerNotFound, app.ErrNotAuthorized:
		c.JSON(http.StatusForbidden, gin.H{
			"error": err.Error(),
		})
		return
	default:
		l.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, device)
}

// DeleteDevice responds to DELETE /devices/:deviceId; elevated callers only
func (h ManagementController) DeleteDevice(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.FromContext(ctx)

	callerID := callerIDFromContext(c)
	if callerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": ErrMissingUserAuthentication.Error(),
		})
		return
	}
	deviceID := c.Param("deviceId")

	err := h.app.DeleteDevice(ctx, callerID, deviceID)
	switch errors.Cause(err) {
	case nil:
	case app.ErrDeviceNotFound:
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	case app.ErrCallerNotFound, app.ErrNotAuthorized:
		c.JSON(http.StatusForbidden, gin.H{
			"error": err.Error(),
		})
		return
	default:
		l.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.Writer.WriteHeader(http.StatusNoContent)
}

// RegisterCaller responds to POST /callers; elevated callers only.
// Upserting an existing caller replaces its role and allow-set, so the
// same operation grants and revokes locations.
func (h ManagementController) RegisterCaller(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.FromContext(ctx)

	callerID := callerIDFromContext(c)
	if callerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": ErrMissingUserAuthentication.Error(),
		})
		return
	}

	rawData, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "bad request",
		})
		return
	}
	caller := &model.Caller{}
	if err = json.Unmarshal(rawData, caller); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": errors.Wrap(err, "invalid payload").Error(),
		})
		return
	}

	err = h.app.RegisterCaller(ctx, callerID, caller)
	if _, ok := errors.Cause(err).(validation.Errors); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}
	switch errors.Cause(err) {
	case nil:
	case app.ErrCallerNotFound, app.ErrNotAuthorized:
		c.JSON(http.StatusForbidden, gin.H{
			"error": err.Error(),
		})
		return
	default:
		l.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, caller)
}

// GetOwnCaller responds to GET /callers/me with the caller record backing
// the authenticated identity
func (h ManagementController) GetOwnCaller(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.FromContext(ctx)

	callerID := callerIDFromContext(c)
	if callerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": ErrMissingUserAuthentication.Error(),
		})
		return
	}

	caller, err := h.app.GetCaller(ctx, callerID)
	if err == app.ErrCallerNotFound {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	} else if err != nil {
		l.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, caller)
}
