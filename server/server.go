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

package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sys/unix"

	"github.com/mendersoftware/go-lib-micro/config"
	"github.com/mendersoftware/go-lib-micro/log"

	api "github.com/cleancity/binwatch/api/http"
	"github.com/cleancity/binwatch/app"
	"github.com/cleancity/binwatch/client/nats"
	dconfig "github.com/cleancity/binwatch/config"
	"github.com/cleancity/binwatch/store"
	"github.com/cleancity/binwatch/telemetry"
)

// InitAndRun initializes the server and runs it
func InitAndRun(conf config.Reader, dataStore store.DataStore) error {
	ctx := context.Background()

	log.Setup(conf.GetBool(dconfig.SettingDebugLog))
	l := log.FromContext(ctx)

	natsClient, err := nats.NewClientWithDefaults(
		conf.GetString(dconfig.SettingNatsURI),
	)
	if err != nil {
		return err
	}
	defer natsClient.Close()

	collector, err := telemetry.NewPrometheusCollector(
		prometheus.DefaultRegisterer,
	)
	if err != nil {
		return err
	}

	binwatchApp := app.New(dataStore, natsClient, collector, app.Config{
		StatusFanout: conf.GetInt(dconfig.SettingStatusFanout),
		HistoryLimit: conf.GetInt(dconfig.SettingHistoryLimit),
	})

	var listen = conf.GetString(dconfig.SettingListen)
	router, err := api.NewRouter(binwatchApp, natsClient)
	if err != nil {
		l.Fatal(err)
	}
	srv := &http.Server{
		Addr:    listen,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, unix.SIGINT, unix.SIGTERM)
	<-quit

	l.Info("Shutdown Server ...")

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxWithTimeout); err != nil {
		l.Fatal("Server Shutdown: ", err)
	}

	return nil
}
