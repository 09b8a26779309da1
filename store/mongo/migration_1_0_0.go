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

package mongo

import (
	"context"

	"github.com/mendersoftware/go-lib-micro/mongo/migrate"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mopts "go.mongodb.org/mongo-driver/mongo/options"
)

type migration1_0_0 struct {
	client *mongo.Client
	db     string
}

// Up creates the indexes backing the hot read paths: latest/recent reading
// lookups per device and device listing by location.
func (m *migration1_0_0) Up(from migrate.Version) error {
	ctx := context.Background()
	database := m.client.Database(m.db)

	collReadings := database.Collection(ReadingsCollectionName)
	idxReadings := collReadings.Indexes()

	indexOptions := mopts.Index()
	indexOptions.SetBackground(false)
	indexOptions.SetName("device_id_timestamp")
	readingsIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "device_id", Value: 1},
			{Key: "timestamp", Value: -1},
			{Key: "_id", Value: -1},
		},
		Options: indexOptions,
	}
	if _, err := idxReadings.CreateOne(ctx, readingsIndex); err != nil {
		return err
	}

	collDevices := database.Collection(DevicesCollectionName)
	idxDevices := collDevices.Indexes()

	indexOptions = mopts.Index()
	indexOptions.SetBackground(false)
	indexOptions.SetName("location_id")
	devicesIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "location_id", Value: 1}},
		Options: indexOptions,
	}
	if _, err := idxDevices.CreateOne(ctx, devicesIndex); err != nil {
		return err
	}

	return nil
}

func (m *migration1_0_0) Version() migrate.Version {
	return migrate.MakeVersion(1, 0, 0)
}
