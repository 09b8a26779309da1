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

package store

import (
	"context"
	"errors"

	"github.com/cleancity/binwatch/model"
)

// DataStore interface for DataStore services
//
//nolint:lll - skip line length check for interface declaration.
//go:generate ../utils/mockgen.sh
type DataStore interface {
	Ping(ctx context.Context) error

	InsertDevice(ctx context.Context, device *model.Device) error
	GetDevice(ctx context.Context, deviceID string) (*model.Device, error)
	ListDevicesByLocations(ctx context.Context, scope model.LocationScope) ([]model.Device, error)
	DeleteDevice(ctx context.Context, deviceID string) error

	InsertReading(ctx context.Context, reading *model.Reading) error
	GetLatestReading(ctx context.Context, deviceID string) (*model.Reading, error)
	GetRecentReadings(ctx context.Context, deviceID string, limit int) ([]model.Reading, error)

	UpsertCaller(ctx context.Context, caller *model.Caller) error
	GetCaller(ctx context.Context, callerID string) (*model.Caller, error)

	Close() error
}

var (
	// ErrDeviceNotFound is returned when removing an unknown device.
	ErrDeviceNotFound = errors.New("store: device not found")
	// ErrDuplicateDevice is returned when registering an already
	// registered device identifier.
	ErrDuplicateDevice = errors.New("store: device already exists")
)
