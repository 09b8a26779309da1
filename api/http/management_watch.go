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

package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mendersoftware/go-lib-micro/log"
	natsio "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/cleancity/binwatch/app"
	"github.com/cleancity/binwatch/model"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	eventChanSize = 25
)

var watchUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WatchStatuses responds to GET /statuses/connect by upgrading to a
// websocket and pushing a status frame for every reading ingested for a
// device inside the caller's scope. The scope is resolved once per watch;
// a revocation applies to watches opened after it.
func (h ManagementController) WatchStatuses(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.FromContext(ctx)

	callerID := callerIDFromContext(c)
	if callerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": ErrMissingUserAuthentication.Error(),
		})
		return
	}

	caller, err := h.app.GetCaller(ctx, callerID)
	if err == app.ErrCallerNotFound {
		c.JSON(http.StatusForbidden, gin.H{
			"error": err.Error(),
		})
		return
	} else if err != nil {
		l.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	scope := caller.Scope()

	eventChan := make(chan *natsio.Msg, eventChanSize)
	sub, err := h.nats.ChanSubscribe(model.ReadingsSubject, eventChan)
	if err != nil {
		l.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to subscribe to status events",
		})
		return
	}
	//nolint:errcheck
	defer sub.Unsubscribe()

	conn, err := watchUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		l.Error(errors.Wrap(err,
			"unable to upgrade the request to websocket protocol"))
		return
	}
	defer conn.Close()

	watchID := uuid.New().String()
	l.Infof("status watch %s started for caller %s", watchID, callerID)

	// Reader loop only services pongs and detects the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			l.Infof("status watch %s closed by peer", watchID)
			return
		case <-ctx.Done():
			return
		case msg := <-eventChan:
			var event model.StatusEvent
			if err := msgpack.Unmarshal(msg.Data, &event); err != nil {
				l.Warnf("status watch %s: dropping malformed event: %s",
					watchID, err.Error())
				continue
			}
			// Events without placement come from unregistered
			// devices and are not part of anyone's fleet view.
			if event.LocationID == "" || !scope.Contains(event.LocationID) {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event.Status()); err != nil {
				l.Warnf("status watch %s: write failed: %s",
					watchID, err.Error())
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
