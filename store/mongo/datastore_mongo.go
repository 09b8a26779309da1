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
	"crypto/tls"
	"strings"
	"time"

	"github.com/mendersoftware/go-lib-micro/config"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	mopts "go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	dconfig "github.com/cleancity/binwatch/config"
	"github.com/cleancity/binwatch/model"
	"github.com/cleancity/binwatch/store"
)

const (
	// DevicesCollectionName refers to the collection of registered devices
	DevicesCollectionName = "devices"

	// ReadingsCollectionName refers to the collection of sensor readings
	ReadingsCollectionName = "readings"

	// CallersCollectionName refers to the collection of caller records
	CallersCollectionName = "callers"
)

// SetupDataStore returns the mongo data store and optionally runs migrations
func SetupDataStore(automigrate bool) (*DataStoreMongo, error) {
	ctx := context.Background()
	dbClient, err := NewClient(ctx, config.Config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to db")
	}
	dbName := config.Config.GetString(dconfig.SettingDbName)
	err = Migrate(ctx, dbName, DbVersion, dbClient, automigrate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to run migrations")
	}
	dataStore := NewDataStoreWithClient(dbClient, config.Config)
	return dataStore, nil
}

// NewClient returns a mongo client
func NewClient(ctx context.Context, c config.Reader) (*mongo.Client, error) {
	clientOptions := mopts.Client()
	mongoURL := c.GetString(dconfig.SettingMongo)
	if !strings.Contains(mongoURL, "://") {
		return nil, errors.Errorf("Invalid mongoURL %q: missing schema.",
			mongoURL)
	}
	clientOptions.ApplyURI(mongoURL)

	username := c.GetString(dconfig.SettingDbUsername)
	if username != "" {
		credentials := mopts.Credential{
			Username: username,
		}
		password := c.GetString(dconfig.SettingDbPassword)
		if password != "" {
			credentials.Password = password
			credentials.PasswordSet = true
		}
		clientOptions.SetAuth(credentials)
	}

	if c.GetBool(dconfig.SettingDbSSL) {
		tlsConfig := &tls.Config{}
		tlsConfig.InsecureSkipVerify = c.GetBool(dconfig.SettingDbSSLSkipVerify)
		clientOptions.SetTLSConfig(tlsConfig)
	}

	// Acknowledge writes after the journal commit on the primary.
	wc := writeconcern.New(writeconcern.W(1), writeconcern.J(true))
	clientOptions.SetWriteConcern(wc)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to connect to mongo server")
	}

	if err = client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "Error reaching mongo server")
	}

	return client, nil
}

// DataStoreMongo is the data storage service
type DataStoreMongo struct {
	client *mongo.Client
	dbName string
}

// NewDataStoreWithClient initializes a DataStore object
func NewDataStoreWithClient(client *mongo.Client, c config.Reader) *DataStoreMongo {
	return &DataStoreMongo{
		client: client,
		dbName: c.GetString(dconfig.SettingDbName),
	}
}

// Ping verifies the connection to the database
func (db *DataStoreMongo) Ping(ctx context.Context) error {
	res := db.client.Database(db.dbName).RunCommand(ctx, bson.M{"ping": 1})
	return res.Err()
}

// InsertDevice registers a new device; the device identifier is unique.
func (db *DataStoreMongo) InsertDevice(ctx context.Context, device *model.Device) error {
	coll := db.client.Database(db.dbName).Collection(DevicesCollectionName)

	_, err := coll.InsertOne(ctx, device)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicateDevice
	}
	return err
}

// GetDevice returns a device, or nil if it is not registered
func (db *DataStoreMongo) GetDevice(ctx context.Context, deviceID string) (*model.Device, error) {
	coll := db.client.Database(db.dbName).Collection(DevicesCollectionName)

	cur := coll.FindOne(ctx, bson.M{"_id": deviceID})

	device := &model.Device{}
	if err := cur.Decode(device); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return device, nil
}

// ListDevicesByLocations returns the devices placed at any of the scoped
// locations; an unrestricted scope returns the whole fleet.
func (db *DataStoreMongo) ListDevicesByLocations(
	ctx context.Context,
	scope model.LocationScope,
) ([]model.Device, error) {
	coll := db.client.Database(db.dbName).Collection(DevicesCollectionName)

	filter := bson.M{}
	if !scope.Unrestricted {
		locationIDs := scope.LocationIDs
		if locationIDs == nil {
			locationIDs = []string{}
		}
		filter["location_id"] = bson.M{"$in": locationIDs}
	}

	findOpts := mopts.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	devices := []model.Device{}
	if err := cur.All(ctx, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// DeleteDevice removes a device from the registry
func (db *DataStoreMongo) DeleteDevice(ctx context.Context, deviceID string) error {
	coll := db.client.Database(db.dbName).Collection(DevicesCollectionName)

	res, err := coll.DeleteOne(ctx, bson.M{"_id": deviceID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrDeviceNotFound
	}
	return nil
}

// InsertReading appends a reading to the device's telemetry log. The
// device does not have to be registered: telemetry may arrive first.
func (db *DataStoreMongo) InsertReading(ctx context.Context, reading *model.Reading) error {
	coll := db.client.Database(db.dbName).Collection(ReadingsCollectionName)

	res, err := coll.InsertOne(ctx, reading)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		reading.ID = id
	}
	return nil
}

// GetLatestReading returns the reading with the greatest timestamp for the
// device, or nil if the device has no telemetry yet. Timestamp ties are
// resolved in favor of the most recently inserted document.
func (db *DataStoreMongo) GetLatestReading(
	ctx context.Context,
	deviceID string,
) (*model.Reading, error) {
	coll := db.client.Database(db.dbName).Collection(ReadingsCollectionName)

	findOpts := mopts.FindOne().SetSort(bson.D{
		{Key: "timestamp", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur := coll.FindOne(ctx, bson.M{"device_id": deviceID}, findOpts)

	reading := &model.Reading{}
	if err := cur.Decode(reading); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return reading, nil
}

// GetRecentReadings returns up to limit readings for the device, newest
// first.
func (db *DataStoreMongo) GetRecentReadings(
	ctx context.Context,
	deviceID string,
	limit int,
) ([]model.Reading, error) {
	coll := db.client.Database(db.dbName).Collection(ReadingsCollectionName)

	findOpts := mopts.Find().
		SetSort(bson.D{
			{Key: "timestamp", Value: -1},
			{Key: "_id", Value: -1},
		}).
		SetLimit(int64(limit))
	cur, err := coll.Find(ctx, bson.M{"device_id": deviceID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	readings := []model.Reading{}
	if err := cur.All(ctx, &readings); err != nil {
		return nil, err
	}
	return readings, nil
}

// UpsertCaller creates or replaces a caller record
func (db *DataStoreMongo) UpsertCaller(ctx context.Context, caller *model.Caller) error {
	coll := db.client.Database(db.dbName).Collection(CallersCollectionName)

	locationIDs := caller.LocationIDs
	if locationIDs == nil {
		locationIDs = []string{}
	}
	updateOpts := mopts.Update().SetUpsert(true)
	_, err := coll.UpdateOne(ctx,
		bson.M{"_id": caller.ID},
		bson.M{
			"$set": bson.M{
				"role":         caller.Role,
				"location_ids": locationIDs,
			},
		},
		updateOpts,
	)
	return err
}

// GetCaller returns a caller record, or nil if the caller is not known
func (db *DataStoreMongo) GetCaller(ctx context.Context, callerID string) (*model.Caller, error) {
	coll := db.client.Database(db.dbName).Collection(CallersCollectionName)

	cur := coll.FindOne(ctx, bson.M{"_id": callerID})

	caller := &model.Caller{}
	if err := cur.Decode(caller); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return caller, nil
}

// Close disconnects the client
func (db *DataStoreMongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	return db.client.Disconnect(ctx)
}

func (db *DataStoreMongo) dropDatabase() error {
	ctx := context.Background()
	return db.client.Database(db.dbName).Drop(ctx)
}
