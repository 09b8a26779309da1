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

// DeviceStatus is the best knowledge about one bin at query time:
// placement plus the classification of its latest reading. Transient,
// assembled per request, never persisted.
type DeviceStatus struct {
	DeviceID     string    `json:"device_id"`
	LocationID   string    `json:"location_id"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	FillLevel    FillLevel `json:"fill_level"`
	LastChannels []Channel `json:"last_channels,omitempty"`
	// Unavailable marks a device whose latest-reading lookup failed;
	// the rest of the fleet's statuses are still returned.
	Unavailable bool `json:"unavailable,omitempty"`
}
