package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthyasetu/risk-engine/pkg/config"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

const bulletinPage = `<html><body>
<h1>Daily Air Quality Bulletin</h1>
<table>
<tr><th>Station</th><th>AQI</th></tr>
<tr><td>Pune - Karve Road</td><td>212</td></tr>
<tr><td>Nagpur Civil Lines</td><td>167</td></tr>
<tr><td>Mumbai Bandra</td><td>n/a</td></tr>
</table>
</body></html>`

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "test", LogLevel: "error", LogFormat: "json"})
}

func bulletinConfig(baseURL string) *config.Config {
	return &config.Config{
		Env:       "test",
		LogLevel:  "error",
		LogFormat: "json",
		AQIBulletin: config.AQIBulletinConfig{
			BaseURL: baseURL,
			Enabled: true,
		},
	}
}

func TestNewBulletinClientDisabled(t *testing.T) {
	cfg := &config.Config{AQIBulletin: config.AQIBulletinConfig{Enabled: false}}
	assert.Nil(t, NewBulletinClient(cfg, testLogger()))

	cfg = &config.Config{AQIBulletin: config.AQIBulletinConfig{Enabled: true, BaseURL: ""}}
	assert.Nil(t, NewBulletinClient(cfg, testLogger()))
}

func TestDistrictAQIParsesBulletinTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bulletin", r.URL.Path)
		_, _ = w.Write([]byte(bulletinPage))
	}))
	defer server.Close()

	client := NewBulletinClient(bulletinConfig(server.URL), testLogger())
	require.NotNil(t, client)

	aqi, err := client.DistrictAQI(context.Background(), "Pune")
	require.NoError(t, err)
	assert.Equal(t, 212, aqi)

	aqi, err = client.DistrictAQI(context.Background(), "nagpur")
	require.NoError(t, err)
	assert.Equal(t, 167, aqi)
}

func TestDistrictAQIUnlistedDistrict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(bulletinPage))
	}))
	defer server.Close()

	client := NewBulletinClient(bulletinConfig(server.URL), testLogger())
	_, err := client.DistrictAQI(context.Background(), "Thane")
	assert.Error(t, err)
}

func TestDistrictAQIUnparseableValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(bulletinPage))
	}))
	defer server.Close()

	client := NewBulletinClient(bulletinConfig(server.URL), testLogger())
	// The Mumbai row carries a non-numeric AQI cell and is skipped.
	_, err := client.DistrictAQI(context.Background(), "Mumbai")
	assert.Error(t, err)
}

func TestDistrictAQIBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewBulletinClient(bulletinConfig(server.URL), testLogger())
	_, err := client.DistrictAQI(context.Background(), "Pune")
	assert.Error(t, err)
}
