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
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mendersoftware/go-lib-micro/accesslog"
	"github.com/mendersoftware/go-lib-micro/identity"
	"github.com/mendersoftware/go-lib-micro/requestid"

	"github.com/cleancity/binwatch/app"
	"github.com/cleancity/binwatch/client/nats"
)

// API URL used by the HTTP router
const (
	APIURLDevices    = "/api/devices/v1/binwatch"
	APIURLInternal   = "/api/internal/v1/binwatch"
	APIURLManagement = "/api/management/v1/binwatch"

	APIURLDevicesTelemetry = APIURLDevices + "/telemetry"

	APIURLInternalAlive   = APIURLInternal + "/alive"
	APIURLInternalHealth  = APIURLInternal + "/health"
	APIURLInternalMetrics = APIURLInternal + "/metrics"

	APIURLManagementStatuses        = APIURLManagement + "/statuses"
	APIURLManagementStatusesConnect = APIURLManagement + "/statuses/connect"
	APIURLManagementDevices         = APIURLManagement + "/devices"
	APIURLManagementDevice          = APIURLManagement + "/devices/:deviceId"
	APIURLManagementDeviceHistory   = APIURLManagement + "/devices/:deviceId/history"
	APIURLManagementCallers         = APIURLManagement + "/callers"
	APIURLManagementCallersMe       = APIURLManagement + "/callers/me"
)

// NewRouter returns the gin router
func NewRouter(
	app app.App,
	natsClient nats.Client,
) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	gin.DisableConsoleColor()

	router := gin.New()
	router.Use(accesslog.Middleware())
	router.Use(gin.Recovery())
	// The telemetry ingest path stays outside the identity-enforced
	// prefix: sensors authenticate at the network layer, not with JWTs.
	router.Use(identity.Middleware(
		identity.NewMiddlewareOptions().
			SetPathRegex(`^/api/management/v[0-9]/`),
	))
	router.Use(requestid.Middleware())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowCredentials: true,
		AllowHeaders: []string{
			"Accept",
			"Allow",
			"Content-Type",
			"Origin",
			"Authorization",
			"Accept-Encoding",
			"Access-Control-Request-Headers",
			"Header-Access-Control-Request",
		},
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowWebSockets: true,
		ExposeHeaders: []string{
			"Location",
			"Link",
		},
		MaxAge: time.Hour * 12,
	}))

	status := NewStatusController(app)
	router.GET(APIURLInternalAlive, status.Alive)
	router.GET(APIURLInternalHealth, status.Health)
	router.GET(APIURLInternalMetrics, gin.WrapH(promhttp.Handler()))

	device := NewDeviceController(app)
	router.POST(APIURLDevicesTelemetry, device.SubmitTelemetry)

	management := NewManagementController(app, natsClient)
	router.GET(APIURLManagementStatuses, management.GetStatuses)
	router.GET(APIURLManagementStatusesConnect, management.WatchStatuses)
	router.GET(APIURLManagementDeviceHistory, management.GetHistory)
	router.POST(APIURLManagementDevices, management.RegisterDevice)
	router.DELETE(APIURLManagementDevice, management.DeleteDevice)
	router.POST(APIURLManagementCallers, management.RegisterCaller)
	router.GET(APIURLManagementCallersMe, management.GetOwnCaller)

	return router, nil
}
