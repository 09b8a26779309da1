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
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	// DbVersion is the current schema version
	DbVersion = "1.0.0"

	// DbName is the default database name
	DbName = "binwatch"
)

// Migrate applies migrations to the database
func Migrate(ctx context.Context,
	db string,
	version string,
	client *mongo.Client,
	automigrate bool,
) error {
	ver, err := migrate.NewVersion(version)
	if err != nil {
		return errors.Wrap(err, "failed to parse service version")
	}

	migrator := &migrate.SimpleMigrator{
		Client:      client,
		Db:          db,
		Automigrate: automigrate,
	}

	migrations := []migrate.Migration{
		&migration1_0_0{
			client: client,
			db:     db,
		},
	}

	err = migrator.Apply(ctx, *ver, migrations)
	if err != nil {
		return errors.Wrap(err, "failed to apply migrations")
	}

	return nil
}
