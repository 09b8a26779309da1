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

import "time"

// ReadingsSubject is the NATS subject on which a StatusEvent is published
// for every accepted reading.
const ReadingsSubject = "readings"

// StatusEvent is the msgpack-encoded message published on ingestion and
// consumed by live status watchers. LocationID is empty when telemetry
// arrived before the device was registered; such events carry no fleet
// placement and watchers skip them.
type StatusEvent struct {
	DeviceID   string    `msgpack:"device_id"`
	LocationID string    `msgpack:"location_id"`
	Lat        float64   `msgpack:"lat"`
	Lng        float64   `msgpack:"lng"`
	FillLevel  FillLevel `msgpack:"fill_level"`
	Channels   []Channel `msgpack:"channels"`
	Timestamp  time.Time `msgpack:"timestamp"`
}

// Status converts the event to the DeviceStatus shape sent to watchers.
func (e StatusEvent) Status() DeviceStatus {
	return DeviceStatus{
		DeviceID:     e.DeviceID,
		LocationID:   e.LocationID,
		Lat:          e.Lat,
		Lng:          e.Lng,
		FillLevel:    e.FillLevel,
		LastChannels: e.Channels,
	}
}
