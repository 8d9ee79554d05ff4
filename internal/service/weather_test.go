package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ortiurbani/orti-api/internal/domain"
)

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	if len(args) > 2 {
		if fn, ok := args.Get(2).(func(any)); ok {
			fn(result)
		}
	}
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func TestWeatherService_Latest(t *testing.T) {
	ctx := context.Background()
	recordedAt := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	s := newTestStore(t)
	m := s.municipality(t, "Torino")
	g, _ := s.garden(t, "G1", m.ID, 0)
	stored, err := s.telemetry.CreateWeather(ctx, domain.WeatherReading{GardenID: g.ID, Temperature: 22.5, Humidity: 60, RecordedAt: recordedAt})
	require.NoError(t, err)

	key := latestWeatherKey(g.ID)
	cached := domain.WeatherReading{ID: 77, GardenID: g.ID, Temperature: 30}

	tests := []struct {
		name  string
		setup func(c *CacheMock)
		want  domain.WeatherReading
	}{
		{
			name: "cache hit",
			setup: func(c *CacheMock) {
				c.On("Get", mock.Anything, key, mock.Anything).
					Return(true, nil, func(result any) { *result.(*domain.WeatherReading) = cached }).Once()
			},
			want: cached,
		},
		{
			name: "cache miss fills the cache",
			setup: func(c *CacheMock) {
				c.On("Get", mock.Anything, key, mock.Anything).Return(false, nil, nil).Once()
				c.On("Set", mock.Anything, key, mock.AnythingOfType("domain.WeatherReading")).Return(nil).Once()
			},
			want: stored,
		},
		{
			name: "cache errors fall back to the store",
			setup: func(c *CacheMock) {
				c.On("Get", mock.Anything, key, mock.Anything).Return(false, errors.New("redis down"), nil).Once()
				c.On("Set", mock.Anything, key, mock.Anything).Return(errors.New("redis down")).Once()
			},
			want: stored,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := new(CacheMock)
			tt.setup(c)
			svc := NewWeatherService(s.telemetry, s.gardens, c)

			got, err := svc.Latest(ctx, g.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want.ID, got.ID)
			assert.Equal(t, tt.want.Temperature, got.Temperature)

			c.AssertExpectations(t)
		})
	}
}

func TestWeatherService_Record(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	m := s.municipality(t, "Torino")
	g, _ := s.garden(t, "G1", m.ID, 0)

	c := new(CacheMock)
	c.On("Invalidate", mock.Anything, latestWeatherKey(g.ID)).Return(nil).Times(3)
	svc := NewWeatherService(s.telemetry, s.gardens, c)

	base := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := svc.Record(ctx, domain.WeatherReading{GardenID: g.ID, Temperature: float64(20 + i), RecordedAt: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}

	_, err := svc.Record(ctx, domain.WeatherReading{GardenID: g.ID + 1})
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := svc.List(ctx, g.ID, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, float64(22), list[0].Temperature)

	c.AssertExpectations(t)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultReadingLimit, clampLimit(0))
	assert.Equal(t, DefaultReadingLimit, clampLimit(-3))
	assert.Equal(t, 10, clampLimit(10))
	assert.Equal(t, MaxReadingLimit, clampLimit(MaxReadingLimit+1))
}
