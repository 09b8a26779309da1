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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vmihailenco/msgpack/v5"

	natsmocks "github.com/cleancity/binwatch/client/nats/mocks"
	"github.com/cleancity/binwatch/model"
	"github.com/cleancity/binwatch/store"
	storemocks "github.com/cleancity/binwatch/store/mocks"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

var testTime = time.Date(2023, 5, 4, 12, 30, 0, 0, time.UTC)

func elevatedCaller(id string) *model.Caller {
	return &model.Caller{ID: id, Role: model.RoleElevated}
}

func standardCaller(id string, locations ...string) *model.Caller {
	return &model.Caller{
		ID:          id,
		Role:        model.RoleStandard,
		LocationIDs: locations,
	}
}

func TestHealthCheck(t *testing.T) {
	testCases := []struct {
		Name string
		Err  error
	}{
		{
			Name: "ok",
		},
		{
			Name: "ko, store unreachable",
			Err:  errors.New("connection refused"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			ctx := context.Background()
			ds := &storemocks.DataStore{}
			defer ds.AssertExpectations(t)
			ds.On("Ping", ctx).Return(tc.Err)

			app := New(ds, nil, nil)
			err := app.HealthCheck(ctx)
			if tc.Err != nil {
				assert.EqualError(t, err, tc.Err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubmitReading(t *testing.T) {
	testCases := []struct {
		Name    string
		Request *model.NewReadingRequest

		Device    *model.Device
		DeviceErr error
		InsertErr error
		// PublishErr is swallowed: live events are best effort.
		PublishErr error

		Error error
	}{
		{
			Name: "ok, registered device",
			Request: &model.NewReadingRequest{
				DeviceID: "device-1",
				Channels: map[string]float64{"s2": 17, "s1": 4},
			},
			Device: &model.Device{
				ID:         "device-1",
				LocationID: "L1",
				Lat:        59.9,
				Lng:        10.7,
			},
		},
		{
			Name: "ok, device not registered yet",
			Request: &model.NewReadingRequest{
				DeviceID: "device-unseen",
				Channels: map[string]float64{"s1": 2},
			},
		},
		{
			Name: "ok, publish failure does not fail the call",
			Request: &model.NewReadingRequest{
				DeviceID: "device-1",
				Channels: map[string]float64{"s1": 2},
			},
			PublishErr: errors.New("nats: connection closed"),
		},
		{
			Name: "ko, invalid request",
			Request: &model.NewReadingRequest{
				DeviceID: "device-1",
			},
			Error: errors.New("app: invalid reading: channels: cannot be blank."),
		},
		{
			Name: "ko, insert failure",
			Request: &model.NewReadingRequest{
				DeviceID: "device-1",
				Channels: map[string]float64{"s1": 2},
			},
			InsertErr: errors.New("internal error"),
			Error:     errors.New("internal error"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			ctx := context.Background()
			ds := &storemocks.DataStore{}
			defer ds.AssertExpectations(t)
			nc := &natsmocks.Client{}
			defer nc.AssertExpectations(t)

			if tc.Request.Validate() == nil {
				ds.On("InsertReading", ctx,
					mock.MatchedBy(func(r *model.Reading) bool {
						return r.DeviceID == tc.Request.DeviceID &&
							r.Timestamp.Equal(testTime)
					}),
				).Return(tc.InsertErr)
			}
			if tc.Error == nil {
				ds.On("GetDevice", ctx, tc.Request.DeviceID).
					Return(tc.Device, tc.DeviceErr)
				nc.On("Publish", model.ReadingsSubject,
					mock.AnythingOfType("[]uint8"),
				).Return(tc.PublishErr)
			}

			app := New(ds, nc, nil, Config{Clock: fixedClock{testTime}})
			reading, err := app.SubmitReading(ctx, tc.Request)
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.Request.DeviceID, reading.DeviceID)
			assert.Equal(t, testTime, reading.Timestamp)
			assert.Equal(t, tc.Request.ChannelList(), reading.Channels)
		})
	}
}

func TestSubmitReadingPublishesStatusEvent(t *testing.T) {
	ctx := context.Background()
	ds := &storemocks.DataStore{}
	defer ds.AssertExpectations(t)
	nc := &natsmocks.Client{}
	defer nc.AssertExpectations(t)

	device := &model.Device{
		ID:         "device-1",
		LocationID: "L1",
		Lat:        59.9,
		Lng:        10.7,
	}
	ds.On("InsertReading", ctx, mock.AnythingOfType("*model.Reading")).
		Return(nil)
	ds.On("GetDevice", ctx, "device-1").Return(device, nil)

	var published []byte
	nc.On("Publish", model.ReadingsSubject, mock.AnythingOfType("[]uint8")).
		Run(func(args mock.Arguments) {
			published = args.Get(1).([]byte)
		}).
		Return(nil)

	app := New(ds, nc, nil, Config{Clock: fixedClock{testTime}})
	_, err := app.SubmitReading(ctx, &model.NewReadingRequest{
		DeviceID: "device-1",
		Channels: map[string]float64{"s1": 4, "s2": 17},
	})
	assert.NoError(t, err)

	var event model.StatusEvent
	err = msgpack.Unmarshal(published, &event)
	assert.NoError(t, err)
	assert.Equal(t, "device-1", event.DeviceID)
	assert.Equal(t, "L1", event.LocationID)
	assert.Equal(t, model.FillLevelHigh, event.FillLevel)
	assert.Equal(t, 59.9, event.Lat)
	assert.Equal(t, 10.7, event.Lng)
}

func TestGetDeviceStatuses(t *testing.T) {
	const callerID = "alice"

	testCases := []struct {
		Name   string
		Caller *model.Caller

		CallerErr error
		Scope     model.LocationScope
		Devices   []model.Device
		ListErr   error
		Readings  map[string]*model.Reading
		ReadErrs  map[string]error

		Statuses []model.DeviceStatus
		Error    error
	}{
		{
			Name:   "ok, mixed fleet",
			Caller: standardCaller(callerID, "L1", "L2"),
			Scope:  model.LocationScope{LocationIDs: []string{"L1", "L2"}},
			Devices: []model.Device{
				{ID: "bin-1", LocationID: "L1", Lat: 1, Lng: 2},
				{ID: "bin-2", LocationID: "L1", Lat: 3, Lng: 4},
				{ID: "bin-3", LocationID: "L2", Lat: 5, Lng: 6},
			},
			Readings: map[string]*model.Reading{
				"bin-1": {
					DeviceID: "bin-1",
					Channels: []model.Channel{{Name: "s1", Value: 22}},
				},
				// bin-2 has no telemetry yet
				"bin-2": nil,
			},
			ReadErrs: map[string]error{
				"bin-3": errors.New("internal error"),
			},
			Statuses: []model.DeviceStatus{
				{
					DeviceID:   "bin-1",
					LocationID: "L1",
					Lat:        1, Lng: 2,
					FillLevel: model.FillLevelFull,
					LastChannels: []model.Channel{
						{Name: "s1", Value: 22},
					},
				},
				{
					DeviceID:   "bin-2",
					LocationID: "L1",
					Lat:        3, Lng: 4,
					FillLevel: model.FillLevelEmpty,
				},
				{
					DeviceID:   "bin-3",
					LocationID: "L2",
					Lat:        5, Lng: 6,
					FillLevel:   model.FillLevelUnknown,
					Unavailable: true,
				},
			},
		},
		{
			Name:     "ok, elevated caller sees all locations",
			Caller:   elevatedCaller(callerID),
			Scope:    model.LocationScope{Unrestricted: true},
			Devices:  []model.Device{},
			Statuses: []model.DeviceStatus{},
		},
		{
			Name:     "ok, empty scope yields empty fleet",
			Caller:   standardCaller(callerID),
			Scope:    model.LocationScope{},
			Devices:  []model.Device{},
			Statuses: []model.DeviceStatus{},
		},
		{
			Name:  "ko, caller not provisioned",
			Error: ErrCallerNotFound,
		},
		{
			Name:      "ko, caller lookup error",
			CallerErr: errors.New("internal error"),
			Error:     errors.New("internal error"),
		},
		{
			Name:    "ko, device listing error",
			Caller:  standardCaller(callerID, "L1"),
			Scope:   model.LocationScope{LocationIDs: []string{"L1"}},
			ListErr: errors.New("internal error"),
			Error:   errors.New("internal error"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			ctx := context.Background()
			ds := &storemocks.DataStore{}
			defer ds.AssertExpectations(t)

			ds.On("GetCaller", ctx, callerID).
				Return(tc.Caller, tc.CallerErr)
			if tc.Caller != nil && tc.CallerErr == nil {
				ds.On("ListDevicesByLocations", ctx, tc.Scope).
					Return(tc.Devices, tc.ListErr)
			}
			for id, reading := range tc.Readings {
				ds.On("GetLatestReading", ctx, id).Return(reading, nil)
			}
			for id, err := range tc.ReadErrs {
				ds.On("GetLatestReading", ctx, id).
					Return(nil, err)
			}

			app := New(ds, nil, nil, Config{StatusFanout: 2})
			statuses, err := app.GetDeviceStatuses(ctx, callerID)
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.Statuses, statuses)
		})
	}
}

func TestGetDeviceStatusesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ds := &storemocks.DataStore{}
	ds.On("GetCaller", mock.Anything, "alice").
		Return(standardCaller("alice", "L1"), nil)
	ds.On("ListDevicesByLocations", mock.Anything, mock.Anything).
		Return([]model.Device{
			{ID: "bin-1", LocationID: "L1"},
			{ID: "bin-2", LocationID: "L1"},
		}, nil)
	ds.On("GetLatestReading", mock.Anything, mock.Anything).
		Return(nil, nil).Maybe()

	app := New(ds, nil, nil, Config{StatusFanout: 1})
	statuses, err := app.GetDeviceStatuses(ctx, "alice")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, statuses)
}

// Two callers with disjoint scopes aggregating at the same time must
// each get exactly their own fleet back.
func TestGetDeviceStatusesNoCrossContamination(t *testing.T) {
	ctx := context.Background()
	ds := &storemocks.DataStore{}
	defer ds.AssertExpectations(t)

	ds.On("GetCaller", ctx, "alice").
		Return(standardCaller("alice", "L1"), nil)
	ds.On("GetCaller", ctx, "bob").
		Return(standardCaller("bob", "L2"), nil)
	ds.On("ListDevicesByLocations", ctx,
		model.LocationScope{LocationIDs: []string{"L1"}}).
		Return([]model.Device{{ID: "bin-a", LocationID: "L1"}}, nil)
	ds.On("ListDevicesByLocations", ctx,
		model.LocationScope{LocationIDs: []string{"L2"}}).
		Return([]model.Device{{ID: "bin-b", LocationID: "L2"}}, nil)
	ds.On("GetLatestReading", ctx, "bin-a").Return(nil, nil)
	ds.On("GetLatestReading", ctx, "bin-b").Return(nil, nil)

	app := New(ds, nil, nil)

	var wg sync.WaitGroup
	results := make([][]model.DeviceStatus, 2)
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		results[0], errs[0] = app.GetDeviceStatuses(ctx, "alice")
	}()
	go func() {
		defer wg.Done()
		results[1], errs[1] = app.GetDeviceStatuses(ctx, "bob")
	}()
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	if assert.Len(t, results[0], 1) {
		assert.Equal(t, "bin-a", results[0][0].DeviceID)
	}
	if assert.Len(t, results[1], 1) {
		assert.Equal(t, "bin-b", results[1][0].DeviceID)
	}
}

func TestGetSensorHistory(t *testing.T) {
	const callerID = "alice"

	testCases := []struct {
		Name     string
		Caller   *model.Caller
		DeviceID string
		Limit    int

		Device     *model.Device
		DeviceErr  error
		QueryLimit int
		Readings   []model.Reading

		Error error
	}{
		{
			Name:     "ok, explicit limit",
			Caller:   standardCaller(callerID, "L1"),
			DeviceID: "bin-1",
			Limit:    3,
			Device: &model.Device{
				ID: "bin-1", LocationID: "L1",
			},
			QueryLimit: 3,
			Readings: []model.Reading{
				{DeviceID: "bin-1", Timestamp: testTime},
			},
		},
		{
			Name:     "ok, default limit",
			Caller:   elevatedCaller(callerID),
			DeviceID: "bin-1",
			Device: &model.Device{
				ID: "bin-1", LocationID: "L1",
			},
			QueryLimit: 5,
			Readings:   []model.Reading{},
		},
		{
			Name:     "ko, device outside scope",
			Caller:   standardCaller(callerID, "L2"),
			DeviceID: "bin-1",
			Device: &model.Device{
				ID: "bin-1", LocationID: "L1",
			},
			Error: ErrNotAuthorized,
		},
		{
			Name:     "ko, device not found",
			Caller:   standardCaller(callerID, "L1"),
			DeviceID: "bin-unknown",
			Error:    ErrDeviceNotFound,
		},
		{
			Name:     "ko, caller not provisioned",
			DeviceID: "bin-1",
			Error:    ErrCallerNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			ctx := context.Background()
			ds := &storemocks.DataStore{}
			defer ds.AssertExpectations(t)

			ds.On("GetCaller", ctx, callerID).Return(tc.Caller, nil)
			if tc.Caller != nil {
				ds.On("GetDevice", ctx, tc.DeviceID).
					Return(tc.Device, tc.DeviceErr)
			}
			if tc.Error == nil {
				ds.On("GetRecentReadings", ctx, tc.DeviceID, tc.QueryLimit).
					Return(tc.Readings, nil)
			}

			app := New(ds, nil, nil)
			readings, err := app.GetSensorHistory(
				ctx, callerID, tc.DeviceID, tc.Limit,
			)
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.Readings, readings)
		})
	}
}

func TestRegisterDevice(t *testing.T) {
	const callerID = "admin"

	testCases := []struct {
		Name    string
		Caller  *model.Caller
		Request *model.RegisterDeviceRequest

		InsertErr error

		Error error
	}{
		{
			Name:   "ok",
			Caller: elevatedCaller(callerID),
			Request: &model.RegisterDeviceRequest{
				DeviceID:   "bin-1",
				LocationID: "L1",
				Lat:        floatPtr(59.9),
				Lng:        floatPtr(10.7),
			},
		},
		{
			Name:   "ko, duplicate device",
			Caller: elevatedCaller(callerID),
			Request: &model.RegisterDeviceRequest{
				DeviceID:   "bin-1",
				LocationID: "L1",
				Lat:        floatPtr(59.9),
				Lng:        floatPtr(10.7),
			},
			InsertErr: store.ErrDuplicateDevice,
			Error:     ErrDeviceAlreadyRegistered,
		},
		{
			Name:   "ko, standard caller",
			Caller: standardCaller(callerID, "L1"),
			Request: &model.RegisterDeviceRequest{
				DeviceID:   "bin-1",
				LocationID: "L1",
				Lat:        floatPtr(59.9),
				Lng:        floatPtr(10.7),
			},
			Error: ErrNotAuthorized,
		},
		{
			Name:   "ko, invalid request",
			Caller: elevatedCaller(callerID),
			Request: &model.RegisterDeviceRequest{
				DeviceID: "bin-1",
			},
			Error: errors.New("app: invalid device: lat: is required; " +
				"lng: is required; location_id: cannot be blank."),
		},
		{
			Name:    "ko, caller not provisioned",
			Request: &model.RegisterDeviceRequest{},
			Error:   ErrCallerNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			ctx := context.Background()
			ds := &storemocks.DataStore{}
			defer ds.AssertExpectations(t)

			ds.On("GetCaller", ctx, callerID).Return(tc.Caller, nil)
			if tc.Error == nil || tc.InsertErr != nil {
				ds.On("InsertDevice", ctx,
					mock.MatchedBy(func(d *model.Device) bool {
						return d.ID == tc.Request.DeviceID &&
							d.CreatedTs.Equal(testTime)
					}),
				).Return(tc.InsertErr)
			}

			app := New(ds, nil, nil, Config{Clock: fixedClock{testTime}})
			device, err := app.RegisterDevice(ctx, callerID, tc.Request)
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.Request.DeviceID, device.ID)
			assert.Equal(t, tc.Request.LocationID, device.LocationID)
			assert.Equal(t, testTime, device.CreatedTs)
		})
	}
}

func TestDeleteDevice(t *testing.T) {
	const callerID = "admin"

	testCases := []struct {
		Name   string
		Caller *model.Caller

		DeleteErr error

		Error error
	}{
		{
			Name:   "ok",
			Caller: elevatedCaller(callerID),
		},
		{
			Name:      "ko, device not found",
			Caller:    elevatedCaller(callerID),
			DeleteErr: store.ErrDeviceNotFound,
			Error:     ErrDeviceNotFound,
		},
		{
			Name:   "ko, standard caller",
			Caller: standardCaller(callerID, "L1"),
			Error:  ErrNotAuthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			ctx := context.Background()
			ds := &storemocks.DataStore{}
			defer ds.AssertExpectations(t)

			ds.On("GetCaller", ctx, callerID).Return(tc.Caller, nil)
			if tc.Caller.Role == model.RoleElevated {
				ds.On("DeleteDevice", ctx, "bin-1").Return(tc.DeleteErr)
			}

			app := New(ds, nil, nil)
			err := app.DeleteDevice(ctx, callerID, "bin-1")
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegisterCaller(t *testing.T) {
	const callerID = "admin"

	testCases := []struct {
		Name    string
		Caller  *model.Caller
		NewUser *model.Caller

		Error error
	}{
		{
			Name:   "ok",
			Caller: elevatedCaller(callerID),
			NewUser: &model.Caller{
				ID:          "alice",
				Role:        model.RoleStandard,
				LocationIDs: []string{"L1"},
			},
		},
		{
			Name:   "ko, invalid record",
			Caller: elevatedCaller(callerID),
			NewUser: &model.Caller{
				ID:   "alice",
				Role: "superuser",
			},
			Error: errors.New("app: invalid caller: " +
				"role: must be a valid value."),
		},
		{
			Name:   "ko, standard caller",
			Caller: standardCaller(callerID, "L1"),
			NewUser: &model.Caller{
				ID:   "alice",
				Role: model.RoleStandard,
			},
			Error: ErrNotAuthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			ctx := context.Background()
			ds := &storemocks.DataStore{}
			defer ds.AssertExpectations(t)

			ds.On("GetCaller", ctx, callerID).Return(tc.Caller, nil)
			if tc.Error == nil {
				ds.On("UpsertCaller", ctx, tc.NewUser).Return(nil)
			}

			app := New(ds, nil, nil)
			err := app.RegisterCaller(ctx, callerID, tc.NewUser)
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetCaller(t *testing.T) {
	testCases := []struct {
		Name     string
		Caller   *model.Caller
		StoreErr error

		Error error
	}{
		{
			Name:   "ok",
			Caller: standardCaller("alice", "L1"),
		},
		{
			Name:  "ko, not provisioned",
			Error: ErrCallerNotFound,
		},
		{
			Name:     "ko, store error",
			StoreErr: errors.New("internal error"),
			Error:    errors.New("internal error"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			ctx := context.Background()
			ds := &storemocks.DataStore{}
			defer ds.AssertExpectations(t)
			ds.On("GetCaller", ctx, "alice").Return(tc.Caller, tc.StoreErr)

			app := New(ds, nil, nil)
			caller, err := app.GetCaller(ctx, "alice")
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.Caller, caller)
		})
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
