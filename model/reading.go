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
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Channel is a single named measurement within a reading. The channel set
// is not a fixed schema: deployments have shipped sensors with two and with
// five channels, and new names may appear at any time.
type Channel struct {
	Name  string  `json:"name" bson:"name"`
	Value float64 `json:"value" bson:"value"`
}

// Reading is one telemetry sample reported by a device. Readings are
// append-only and immutable; the timestamp is assigned by the server at
// ingestion and out-of-order arrival is tolerated.
type Reading struct {
	ID        primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	DeviceID  string             `json:"device_id" bson:"device_id"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
	Channels  []Channel          `json:"channels" bson:"channels"`
}

// Values returns the numeric channel values in stored order.
func (r Reading) Values() []float64 {
	values := make([]float64, len(r.Channels))
	for i, ch := range r.Channels {
		values[i] = ch.Value
	}
	return values
}

// NewReadingRequest stores a telemetry sample submitted by a device. Any
// channel name is accepted; non-numeric values are rejected by JSON
// decoding before validation runs.
type NewReadingRequest struct {
	DeviceID string             `json:"device_id"`
	Channels map[string]float64 `json:"channels"`
}

// Validate validates the request
func (r NewReadingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DeviceID, validation.Required),
		validation.Field(&r.Channels, validation.Required,
			validation.Length(1, 0)),
	)
}

// ChannelList returns the submitted channels ordered by name, so the
// stored form of a reading does not depend on JSON map iteration order.
func (r NewReadingRequest) ChannelList() []Channel {
	names := make([]string, 0, len(r.Channels))
	for name := range r.Channels {
		names = append(names, name)
	}
	sort.Strings(names)
	channels := make([]Channel, len(names))
	for i, name := range names {
		channels[i] = Channel{Name: name, Value: r.Channels[name]}
	}
	return channels
}
