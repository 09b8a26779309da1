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

package nats

import (
	"context"
	"time"

	natsio "github.com/nats-io/nats.go"

	"github.com/mendersoftware/go-lib-micro/log"
)

const (
	// Set reconnect buffer size in bytes (10 MB)
	reconnectBufSize = 10 * 1024 * 1024
	// Set reconnect interval to 1 second
	reconnectWaitTime = 1 * time.Second
)

// Client is the nats client used to fan reading events out to watchers
//
//go:generate ../../utils/mockgen.sh
type Client interface {
	Publish(subject string, data []byte) error
	ChanSubscribe(subject string, channel chan *natsio.Msg) (*natsio.Subscription, error)
	Close()
}

// NewClient returns a new nats client
func NewClient(url string, opts ...natsio.Option) (Client, error) {
	natsClient, err := natsio.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	return &client{
		nats: natsClient,
	}, nil
}

// NewClientWithDefaults returns a new nats client with default options:
// unlimited reconnect attempts and connection state logging.
func NewClientWithDefaults(url string) (Client, error) {
	l := log.FromContext(context.Background())

	return NewClient(url,
		natsio.ReconnectBufSize(reconnectBufSize),
		natsio.ReconnectWait(reconnectWaitTime),
		natsio.MaxReconnects(-1),
		natsio.RetryOnFailedConnect(true),
		natsio.ClosedHandler(func(_ *natsio.Conn) {
			l.Info("nats client closed the connection")
		}),
		natsio.DisconnectErrHandler(func(_ *natsio.Conn, e error) {
			if e != nil {
				l.Warnf("nats client disconnected, err: %v", e)
			}
		}),
		natsio.ReconnectHandler(func(_ *natsio.Conn) {
			l.Warn("nats client reconnected")
		}),
	)
}

type client struct {
	nats *natsio.Conn
}

func (c *client) Publish(subject string, data []byte) error {
	return c.nats.Publish(subject, data)
}

func (c *client) ChanSubscribe(subject string,
	channel chan *natsio.Msg) (*natsio.Subscription, error) {
	return c.nats.ChanSubscribe(subject, channel)
}

func (c *client) Close() {
	c.nats.Close()
}
