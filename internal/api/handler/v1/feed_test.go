package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/metrics"
	"github.com/ortiurbani/orti-api/internal/service"
)

type SensorFinderMock struct{ mock.Mock }

func (m *SensorFinderMock) FindSensorByID(ctx context.Context, id uint) (domain.Sensor, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Sensor), args.Error(1)
}

func startFeed(t *testing.T, sensors SensorFinder) (*FeedHub, *httptest.Server) {
	t.Helper()

	hub := NewFeedHub(sensors, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	r := newTestRouter(citizen)
	r.GET("/sensori/:id/live", hub.HandleLive)
	srv := httptest.NewServer(r)

	t.Cleanup(func() {
		srv.Close()
		cancel()
	})

	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func TestFeedHub_Live(t *testing.T) {
	sensors := new(SensorFinderMock)
	sensors.On("FindSensorByID", mock.Anything, uint(1)).Return(domain.Sensor{ID: 1}, nil)
	sensors.On("FindSensorByID", mock.Anything, uint(2)).Return(domain.Sensor{ID: 2}, nil)

	before := testutil.ToFloat64(metrics.FeedSubscribers)
	hub, srv := startFeed(t, sensors)

	first := dial(t, srv, "/sensori/1/live")
	other := dial(t, srv, "/sensori/2/live")
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.FeedSubscribers) == before+2
	}, time.Second, 10*time.Millisecond)

	recordedAt := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	hub.Publish(domain.SensorReading{ID: 10, SensorID: 1, Value: 21.5, RecordedAt: recordedAt})

	_ = first.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := first.ReadMessage()
	require.NoError(t, err)

	var got domain.SensorReading
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, uint(10), got.ID)
	assert.Equal(t, 21.5, got.Value)

	// Readings of sensor 1 never reach subscribers of sensor 2.
	_ = other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err)

	require.NoError(t, first.Close())
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.FeedSubscribers) == before+1
	}, time.Second, 10*time.Millisecond)
}

func TestFeedHub_UnknownSensor(t *testing.T) {
	sensors := new(SensorFinderMock)
	sensors.On("FindSensorByID", mock.Anything, uint(9)).
		Return(domain.Sensor{}, service.ErrNotFound).Once()

	_, srv := startFeed(t, sensors)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sensori/9/live"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	sensors.AssertExpectations(t)
}

func TestFeedHub_PublishNeverBlocks(t *testing.T) {
	hub := NewFeedHub(new(SensorFinderMock), nil)

	done := make(chan struct{})
	go func() {
		// The hub is not running, so the buffer fills and the rest are dropped.
		for i := 0; i < cap(hub.broadcast)+10; i++ {
			hub.Publish(domain.SensorReading{SensorID: 1})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked")
	}
}
