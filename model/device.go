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

package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Device represents a registered waste-bin sensor and its placement.
// Devices are immutable after registration except for removal.
type Device struct {
	ID         string    `json:"device_id" bson:"_id"`
	LocationID string    `json:"location_id" bson:"location_id"`
	Lat        float64   `json:"lat" bson:"lat"`
	Lng        float64   `json:"lng" bson:"lng"`
	CreatedTs  time.Time `json:"created_ts,omitempty" bson:"created_ts,omitempty"`
}

// Validate validates the device attributes
func (d Device) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ID, validation.Required),
		validation.Field(&d.LocationID, validation.Required),
		validation.Field(&d.Lat, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&d.Lng, validation.Min(-180.0), validation.Max(180.0)),
	)
}

// RegisterDeviceRequest stores the request to register a device
type RegisterDeviceRequest struct {
	DeviceID   string   `json:"device_id"`
	LocationID string   `json:"location_id"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
}

// Validate validates the request
func (r RegisterDeviceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DeviceID, validation.Required),
		validation.Field(&r.LocationID, validation.Required),
		validation.Field(&r.Lat, validation.NotNil,
			validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&r.Lng, validation.NotNil,
			validation.Min(-180.0), validation.Max(180.0)),
	)
}

// Device builds the Device described by the request.
func (r RegisterDeviceRequest) Device() *Device {
	return &Device{
		ID:         r.DeviceID,
		LocationID: r.LocationID,
		Lat:        *r.Lat,
		Lng:        *r.Lng,
	}
}
