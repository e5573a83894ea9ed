package publisher

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/gridtariff/internal/config"
	"github.com/jgoulah/gridtariff/pkg/models"
)

func testSummary() Summary {
	return Summary{
		Customer:   "Acme Corp",
		OverallAvg: 17,
		AverageKW:  2,
		AverageKWh: 15,
		MonthlyTariffs: models.MonthlyTariffs{
			"2024-01": {LowTariff: 1, HighTariff: 6},
		},
		UpdatedAt: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestNew_ValidatesHomeAssistant(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.HAConfig
		want string
	}{
		{"missing url", config.HAConfig{Enabled: true, Token: "t", EntityID: "sensor.x"}, "URL is required"},
		{"missing token", config.HAConfig{Enabled: true, URL: "http://ha", EntityID: "sensor.x"}, "token is required"},
		{"missing entity", config.HAConfig{Enabled: true, URL: "http://ha", Token: "t"}, "entity_id is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(config.MQTTConfig{}, "gridtariff", tt.cfg)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestNew_RequiresBrokerWhenMQTTEnabled(t *testing.T) {
	_, err := New(config.MQTTConfig{Enabled: true}, "gridtariff", config.HAConfig{})
	assert.ErrorContains(t, err, "broker address is required")
}

func TestPublish_NothingEnabled(t *testing.T) {
	p, err := New(config.MQTTConfig{}, "gridtariff", config.HAConfig{})
	require.NoError(t, err)
	defer p.Close()

	assert.Error(t, p.Publish(testSummary()))
	assert.Error(t, p.PublishMQTT(testSummary()))
	assert.Error(t, p.PublishHA(testSummary()))
}

func TestPublishHA(t *testing.T) {
	var gotPath, gotAuth string
	var got HAState
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	p, err := New(config.MQTTConfig{}, "gridtariff", config.HAConfig{
		Enabled:  true,
		URL:      srv.URL + "/",
		Token:    "secret",
		EntityID: "sensor.acme_tariffs",
	})
	require.NoError(t, err)

	require.NoError(t, p.Publish(testSummary()))

	assert.Equal(t, "/api/states/sensor.acme_tariffs", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "17.00", got.State)
	assert.Equal(t, "Acme Corp", got.Attributes["customer"])
	assert.Equal(t, 15.0, got.Attributes["average_kwh"])
	assert.Equal(t, "2024-02-01T09:00:00Z", got.Attributes["updated_at"])
}

func TestPublishHA_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("401: Unauthorized"))
	}))
	defer srv.Close()

	p, err := New(config.MQTTConfig{}, "gridtariff", config.HAConfig{
		Enabled:  true,
		URL:      srv.URL,
		Token:    "wrong",
		EntityID: "sensor.acme_tariffs",
	})
	require.NoError(t, err)

	err = p.PublishHA(testSummary())
	assert.ErrorContains(t, err, "status 401")
	assert.ErrorContains(t, err, "Unauthorized")
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "gridtariff/acme_corp/state", Topic("gridtariff", "Acme Corp"))
	assert.Equal(t, "energy/o_brien-ltd/state", Topic("energy", "O'Brien-Ltd"))
	assert.Equal(t, "gridtariff/all/state", Topic("gridtariff", ""))
}
