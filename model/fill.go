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
	"github.com/pkg/errors"
)

// FillLevel is the discrete classification of how full a bin is. It is
// derived from the latest reading at query time and never persisted.
type FillLevel string

// Fill level buckets, historically rendered as 25/50/75/100% markers.
// FillLevelUnknown is used only for devices whose latest-reading lookup
// failed; a device with no telemetry at all classifies as empty.
const (
	FillLevelEmpty   FillLevel = "empty"
	FillLevelMedium  FillLevel = "medium"
	FillLevelHigh    FillLevel = "high"
	FillLevelFull    FillLevel = "full"
	FillLevelUnknown FillLevel = "unknown"
)

// ErrNoChannelValues is returned when classification is attempted on a
// reading without channel values.
var ErrNoChannelValues = errors.New("reading has no channel values")

// fillThresholds maps the maximum channel value to a bucket; evaluated in
// order, strictly descending.
var fillThresholds = []struct {
	Above float64
	Level FillLevel
}{
	{20, FillLevelFull},
	{15, FillLevelHigh},
	{10, FillLevelMedium},
}

// Classify reduces the channel values of a single reading to a fill-level
// bucket. Only the maximum value matters, so the result is independent of
// channel order and channel count.
func Classify(values []float64) (FillLevel, error) {
	if len(values) == 0 {
		return "", ErrNoChannelValues
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	for _, t := range fillThresholds {
		if max > t.Above {
			return t.Level, nil
		}
	}
	return FillLevelEmpty, nil
}
