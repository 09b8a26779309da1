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
	"flag"
	"fmt"
	"os"
	"testing"

	"github.com/mendersoftware/go-lib-micro/config"
	"go.mongodb.org/mongo-driver/mongo"

	dconfig "github.com/cleancity/binwatch/config"
)

// db is the database runner shared by the integration tests in this
// package; it is only initialized when not running in short mode.
var db testDBRunner

type testDBRunner struct {
	client *mongo.Client
	dbName string
}

// Client returns the test database client
func (d testDBRunner) Client() *mongo.Client {
	return d.client
}

// Wipe drops the test database, leaving migration state behind with it.
func (d testDBRunner) Wipe() {
	err := d.client.Database(d.dbName).Drop(context.Background())
	if err != nil {
		panic(err)
	}
}

func TestMain(m *testing.M) {
	flag.Parse()
	os.Exit(doTestMain(m))
}

func doTestMain(m *testing.M) int {
	if testing.Short() {
		return m.Run()
	}

	config.SetDefaults(config.Config, dconfig.Defaults)
	config.Config.SetEnvPrefix("BINWATCH")
	config.Config.AutomaticEnv()

	dbName := config.Config.GetString(dconfig.SettingDbName) + "-test"
	config.Config.Set(dconfig.SettingDbName, dbName)

	client, err := NewClient(context.Background(), config.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr,
			"failed to connect to mongo server: %s\n", err.Error(),
		)
		return 1
	}
	db = testDBRunner{client: client, dbName: dbName}
	defer func() {
		db.Wipe()
		_ = client.Disconnect(context.Background())
	}()
	return m.Run()
}
