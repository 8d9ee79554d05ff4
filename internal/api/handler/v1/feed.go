package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	subscriberSend = 64
)

type SensorFinder interface {
	FindSensorByID(ctx context.Context, id uint) (domain.Sensor, error)
}

type subscriber struct {
	conn     *websocket.Conn
	send     chan []byte
	sensorID uint
}

// FeedHub fans sensor readings out to the websocket subscribers of each
// sensor. All subscriber bookkeeping happens on the Run goroutine.
type FeedHub struct {
	sensors     SensorFinder
	upgrader    websocket.Upgrader
	subscribers map[uint]map[*subscriber]struct{}
	broadcast   chan domain.SensorReading
	register    chan *subscriber
	unregister  chan *subscriber
	done        chan struct{}
}

// NewFeedHub builds a hub. With no allowed origins every origin may connect.
func NewFeedHub(sensors SensorFinder, allowedOrigins []string) *FeedHub {
	return &FeedHub{
		sensors: sensors,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowedOrigins) == 0 || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
		subscribers: make(map[uint]map[*subscriber]struct{}),
		broadcast:   make(chan domain.SensorReading, 256),
		register:    make(chan *subscriber),
		unregister:  make(chan *subscriber),
		done:        make(chan struct{}),
	}
}

// Run serves the hub until ctx is cancelled, then closes every feed.
func (h *FeedHub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, subs := range h.subscribers {
				for sub := range subs {
					h.drop(sub)
				}
			}
			return
		case sub := <-h.register:
			if h.subscribers[sub.sensorID] == nil {
				h.subscribers[sub.sensorID] = make(map[*subscriber]struct{})
			}
			h.subscribers[sub.sensorID][sub] = struct{}{}
			metrics.FeedSubscribers.Inc()
		case sub := <-h.unregister:
			h.drop(sub)
		case reading := <-h.broadcast:
			msg, err := json.Marshal(reading)
			if err != nil {
				zap.L().Error("encoding sensor reading", zap.Uint("sensor_id", reading.SensorID), zap.Error(err))
				continue
			}
			for sub := range h.subscribers[reading.SensorID] {
				select {
				case sub.send <- msg:
				default:
					// slow consumer
					h.drop(sub)
				}
			}
		}
	}
}

func (h *FeedHub) drop(sub *subscriber) {
	subs, ok := h.subscribers[sub.sensorID]
	if !ok {
		return
	}
	if _, ok = subs[sub]; !ok {
		return
	}

	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.subscribers, sub.sensorID)
	}
	close(sub.send)
	metrics.FeedSubscribers.Dec()
}

// Publish queues a reading for its sensor's subscribers. It never blocks the
// caller; readings are dropped when the hub is saturated.
func (h *FeedHub) Publish(reading domain.SensorReading) {
	select {
	case h.broadcast <- reading:
	default:
		zap.L().Warn("sensor feed saturated, reading dropped", zap.Uint("sensor_id", reading.SensorID))
	}
}

// HandleLive godoc
// @Summary      Live feed of a sensor's readings
// @Description  Upgrades to a websocket and streams every new reading of the sensor as JSON. Browsers may pass the token as ?token=.
// @Tags         sensors
// @Param        id       path       int  true  "sensor ID"
// @Success      101      {string}   string "Switching Protocols"
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /sensori/{id}/live [get]
// @Security BearerAuth
func (h *FeedHub) HandleLive(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "sensor")
	if !ok {
		return
	}
	if _, err := h.sensors.FindSensorByID(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleLive -> h.sensors.FindSensorByID", "sensor", id, err)
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// the upgrader has already written the HTTP error
		zap.L().Debug("websocket upgrade failed", zap.Error(err))
		ctx.Abort()
		return
	}

	sub := &subscriber{
		conn:     conn,
		send:     make(chan []byte, subscriberSend),
		sensorID: id,
	}
	select {
	case h.register <- sub:
	case <-h.done:
		conn.Close()
		return
	}

	go sub.writePump()
	go sub.readPump(h)
}

func (s *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for the client going away; the feed is one-way.
func (s *subscriber) readPump(h *FeedHub) {
	defer func() {
		select {
		case h.unregister <- s:
		case <-h.done:
		}
		s.conn.Close()
	}()

	s.conn.SetReadLimit(512)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Info("sensor feed closed", zap.Uint("sensor_id", s.sensorID), zap.Error(err))
			}
			return
		}
	}
}
