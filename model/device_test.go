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
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestRegisterDeviceRequestValidate(t *testing.T) {
	testCases := []struct {
		Name    string
		Request RegisterDeviceRequest

		IsValid bool
	}{
		{
			Name: "ok",
			Request: RegisterDeviceRequest{
				DeviceID:   "device-1",
				LocationID: "L1",
				Lat:        floatPtr(59.9139),
				Lng:        floatPtr(10.7522),
			},
			IsValid: true,
		},
		{
			Name: "ok, zero coordinates are valid",
			Request: RegisterDeviceRequest{
				DeviceID:   "device-1",
				LocationID: "L1",
				Lat:        floatPtr(0),
				Lng:        floatPtr(0),
			},
			IsValid: true,
		},
		{
			Name: "ko, empty device id",
			Request: RegisterDeviceRequest{
				LocationID: "L1",
				Lat:        floatPtr(59.9139),
				Lng:        floatPtr(10.7522),
			},
		},
		{
			Name: "ko, empty location id",
			Request: RegisterDeviceRequest{
				DeviceID: "device-1",
				Lat:      floatPtr(59.9139),
				Lng:      floatPtr(10.7522),
			},
		},
		{
			Name: "ko, missing coordinates",
			Request: RegisterDeviceRequest{
				DeviceID:   "device-1",
				LocationID: "L1",
			},
		},
		{
			Name: "ko, latitude out of range",
			Request: RegisterDeviceRequest{
				DeviceID:   "device-1",
				LocationID: "L1",
				Lat:        floatPtr(91),
				Lng:        floatPtr(10.7522),
			},
		},
		{
			Name: "ko, longitude out of range",
			Request: RegisterDeviceRequest{
				DeviceID:   "device-1",
				LocationID: "L1",
				Lat:        floatPtr(59.9139),
				Lng:        floatPtr(-181),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			err := tc.Request.Validate()
			if tc.IsValid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestRegisterDeviceRequestDevice(t *testing.T) {
	req := RegisterDeviceRequest{
		DeviceID:   "device-1",
		LocationID: "L1",
		Lat:        floatPtr(59.9139),
		Lng:        floatPtr(10.7522),
	}
	device := req.Device()
	assert.Equal(t, "device-1", device.ID)
	assert.Equal(t, "L1", device.LocationID)
	assert.Equal(t, 59.9139, device.Lat)
	assert.Equal(t, 10.7522, device.Lng)
}
