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

package app

import (
	"context"
	"sync"
	"time"

	"github.com/mendersoftware/go-lib-micro/log"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/cleancity/binwatch/client/nats"
	"github.com/cleancity/binwatch/model"
	"github.com/cleancity/binwatch/store"
	"github.com/cleancity/binwatch/telemetry"
	"github.com/cleancity/binwatch/utils"
)

// App errors
var (
	ErrCallerNotFound          = errors.New("caller not provisioned")
	ErrDeviceNotFound          = errors.New("device not found")
	ErrDeviceAlreadyRegistered = errors.New("device already registered")
	ErrNotAuthorized           = errors.New("not authorized")
)

const (
	defaultStatusFanout = 8
	defaultHistoryLimit = 5
)

// App interface describes app objects
//
//nolint:lll
//go:generate ../utils/mockgen.sh
type App interface {
	HealthCheck(ctx context.Context) error
	SubmitReading(ctx context.Context, req *model.NewReadingRequest) (*model.Reading, error)
	RegisterDevice(ctx context.Context, callerID string, req *model.RegisterDeviceRequest) (*model.Device, error)
	DeleteDevice(ctx context.Context, callerID, deviceID string) error
	RegisterCaller(ctx context.Context, callerID string, caller *model.Caller) error
	GetCaller(ctx context.Context, callerID string) (*model.Caller, error)
	GetDeviceStatuses(ctx context.Context, callerID string) ([]model.DeviceStatus, error)
	GetSensorHistory(ctx context.Context, callerID, deviceID string, limit int) ([]model.Reading, error)
}

// Config are the tunables of the app object
type Config struct {
	// StatusFanout caps concurrent latest-reading lookups per
	// aggregation call.
	StatusFanout int
	// HistoryLimit is the number of readings returned by the history
	// call when the caller does not ask for a specific limit.
	HistoryLimit int
	// Clock assigns reading timestamps; swapped out in tests.
	Clock utils.Clock
}

// app is an app object
type app struct {
	store     store.DataStore
	nats      nats.Client
	collector telemetry.Collector
	Config
}

// New initializes a new binwatch App
func New(
	ds store.DataStore,
	nc nats.Client,
	collector telemetry.Collector,
	config ...Config,
) App {
	conf := Config{}
	if len(config) > 0 {
		conf = config[0]
	}
	if conf.StatusFanout <= 0 {
		conf.StatusFanout = defaultStatusFanout
	}
	if conf.HistoryLimit <= 0 {
		conf.HistoryLimit = defaultHistoryLimit
	}
	if conf.Clock == nil {
		conf.Clock = utils.RealClock{}
	}
	if collector == nil {
		collector = telemetry.Noop()
	}
	return &app{
		store:     ds,
		nats:      nc,
		collector: collector,
		Config:    conf,
	}
}

// HealthCheck performs a health check and returns an error if it fails
func (a *app) HealthCheck(ctx context.Context) error {
	return a.store.Ping(ctx)
}

// SubmitReading appends a telemetry sample to the device's log. The
// timestamp is assigned here; the device does not need to be registered.
// A status event is published for live watchers on a best-effort basis.
func (a *app) SubmitReading(
	ctx context.Context,
	req *model.NewReadingRequest,
) (*model.Reading, error) {
	if req == nil {
		return nil, errors.New("nil reading request")
	}
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, "app: invalid reading")
	}

	reading := &model.Reading{
		DeviceID:  req.DeviceID,
		Timestamp: a.Clock.Now().UTC(),
		Channels:  req.ChannelList(),
	}
	if err := a.store.InsertReading(ctx, reading); err != nil {
		return nil, err
	}
	a.collector.IncReadingIngested()

	a.publishStatusEvent(ctx, reading)

	return reading, nil
}

func (a *app) publishStatusEvent(ctx context.Context, reading *model.Reading) {
	l := log.FromContext(ctx)

	level, err := model.Classify(reading.Values())
	if err != nil {
		return
	}
	event := model.StatusEvent{
		DeviceID:  reading.DeviceID,
		FillLevel: level,
		Channels:  reading.Channels,
		Timestamp: reading.Timestamp,
	}
	// Telemetry can precede registration; the event then carries no
	// placement and watchers ignore it.
	device, err := a.store.GetDevice(ctx, reading.DeviceID)
	if err != nil {
		l.Warnf("failed to resolve device %s for status event: %s",
			reading.DeviceID, err.Error())
	} else if device != nil {
		event.LocationID = device.LocationID
		event.Lat = device.Lat
		event.Lng = device.Lng
	}

	data, _ := msgpack.Marshal(event)
	if err := a.nats.Publish(model.ReadingsSubject, data); err != nil {
		l.Warnf("failed to publish status event: %s", err.Error())
	}
}

// RegisterDevice adds a device to the registry; elevated callers only.
func (a *app) RegisterDevice(
	ctx context.Context,
	callerID string,
	req *model.RegisterDeviceRequest,
) (*model.Device, error) {
	if err := a.requireElevated(ctx, callerID); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errors.New("nil device request")
	}
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, "app: invalid device")
	}

	device := req.Device()
	device.CreatedTs = a.Clock.Now().UTC()
	err := a.store.InsertDevice(ctx, device)
	if err == store.ErrDuplicateDevice {
		return nil, ErrDeviceAlreadyRegistered
	} else if err != nil {
		return nil, err
	}
	return device, nil
}

// DeleteDevice removes a device from the registry; elevated callers only.
// Its readings are kept: the telemetry log is append-only.
func (a *app) DeleteDevice(ctx context.Context, callerID, deviceID string) error {
	if err := a.requireElevated(ctx, callerID); err != nil {
		return err
	}
	err := a.store.DeleteDevice(ctx, deviceID)
	if err == store.ErrDeviceNotFound {
		return ErrDeviceNotFound
	}
	return err
}

// RegisterCaller creates or updates a caller record; elevated callers only.
func (a *app) RegisterCaller(
	ctx context.Context,
	callerID string,
	caller *model.Caller,
) error {
	if err := a.requireElevated(ctx, callerID); err != nil {
		return err
	}
	if caller == nil {
		return errors.New("nil caller")
	}
	if err := caller.Validate(); err != nil {
		return errors.Wrap(err, "app: invalid caller")
	}
	return a.store.UpsertCaller(ctx, caller)
}

// GetCaller returns the caller record backing an identity
func (a *app) GetCaller(ctx context.Context, callerID string) (*model.Caller, error) {
	caller, err := a.store.GetCaller(ctx, callerID)
	if err != nil {
		return nil, err
	} else if caller == nil {
		return nil, ErrCallerNotFound
	}
	return caller, nil
}

// GetDeviceStatuses assembles the current fill status of every device the
// caller is authorized to see. Latest-reading lookups are dispatched
// concurrently with a bounded fan-out and joined before returning; a
// failed lookup degrades that device's entry instead of failing the call.
func (a *app) GetDeviceStatuses(
	ctx context.Context,
	callerID string,
) ([]model.DeviceStatus, error) {
	caller, err := a.GetCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	scope := caller.Scope()

	devices, err := a.store.ListDevicesByLocations(ctx, scope)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	statuses := make([]model.DeviceStatus, len(devices))
	sem := make(chan struct{}, a.StatusFanout)
	var wg sync.WaitGroup
	for i := range devices {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			statuses[i] = a.deviceStatus(ctx, &devices[i])
		}(i)
	}
	wg.Wait()
	// Cancelled calls never produce a partial response.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.collector.ObserveAggregation(time.Since(start), len(devices))

	return statuses, nil
}

func (a *app) deviceStatus(ctx context.Context, device *model.Device) model.DeviceStatus {
	status := model.DeviceStatus{
		DeviceID:   device.ID,
		LocationID: device.LocationID,
		Lat:        device.Lat,
		Lng:        device.Lng,
	}

	reading, err := a.store.GetLatestReading(ctx, device.ID)
	if err != nil {
		log.FromContext(ctx).Warnf("latest reading lookup failed for device %s: %s",
			device.ID, err.Error())
		a.collector.IncLookupFailure()
		status.FillLevel = model.FillLevelUnknown
		status.Unavailable = true
		return status
	}
	if reading == nil {
		// No telemetry yet: the canonical default, on every path.
		status.FillLevel = model.FillLevelEmpty
		return status
	}

	level, err := model.Classify(reading.Values())
	if err != nil {
		// A stored reading without channels should not exist; degrade
		// like a failed lookup rather than abort the batch.
		a.collector.IncLookupFailure()
		status.FillLevel = model.FillLevelUnknown
		status.Unavailable = true
		return status
	}
	status.FillLevel = level
	status.LastChannels = reading.Channels
	return status
}

// GetSensorHistory returns up to limit readings for one device, newest
// first. The device must be inside the caller's location scope.
func (a *app) GetSensorHistory(
	ctx context.Context,
	callerID, deviceID string,
	limit int,
) ([]model.Reading, error) {
	caller, err := a.GetCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}

	device, err := a.store.GetDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	} else if device == nil {
		return nil, ErrDeviceNotFound
	}
	if !caller.Scope().Contains(device.LocationID) {
		return nil, ErrNotAuthorized
	}

	if limit <= 0 {
		limit = a.HistoryLimit
	}
	return a.store.GetRecentReadings(ctx, deviceID, limit)
}

func (a *app) requireElevated(ctx context.Context, callerID string) error {
	caller, err := a.GetCaller(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.Role != model.RoleElevated {
		return ErrNotAuthorized
	}
	return nil
}
