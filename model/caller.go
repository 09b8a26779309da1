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
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Values for the caller role attribute
const (
	RoleElevated = "elevated"
	RoleStandard = "standard"
)

// Caller is an identity allowed to query the fleet. Standard callers see
// only the locations listed on their record; elevated callers see every
// location, current and future.
type Caller struct {
	ID          string   `json:"caller_id" bson:"_id"`
	Role        string   `json:"role" bson:"role"`
	LocationIDs []string `json:"location_ids" bson:"location_ids"`
}

// Validate validates the caller attributes
func (c Caller) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required),
		validation.Field(&c.Role, validation.Required,
			validation.In(RoleElevated, RoleStandard)),
	)
}

// Scope resolves the location scope the caller may observe. The scope is
// derived from the record as stored at the time of the call; it is never
// cached, so revoking a location takes effect on the next request.
func (c Caller) Scope() LocationScope {
	if c.Role == RoleElevated {
		return LocationScope{Unrestricted: true}
	}
	return LocationScope{LocationIDs: c.LocationIDs}
}

// LocationScope is the set of locations visible to a caller: either
// unrestricted, or an explicit allow-set.
type LocationScope struct {
	Unrestricted bool
	LocationIDs  []string
}

// Contains reports whether the scope covers the given location.
func (s LocationScope) Contains(locationID string) bool {
	if s.Unrestricted {
		return true
	}
	for _, id := range s.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}
