// Package ingest feeds the climate series: one simulated reading per
// district per cycle, enriched with scraped AQI bulletin values when the
// bulletin feed is configured, plus the follow-up student risk
// recalculation.
package ingest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/swasthyasetu/risk-engine/pkg/config"
	"github.com/swasthyasetu/risk-engine/pkg/httputil"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

// BulletinClient scrapes the published daily AQI bulletin table.
type BulletinClient struct {
	client  *httputil.Client
	baseURL string
	logger  *logger.Logger
}

// NewBulletinClient builds the bulletin scraper. Returns nil when the
// bulletin feed is disabled; callers treat a nil client as "no feed".
func NewBulletinClient(cfg *config.Config, log *logger.Logger) *BulletinClient {
	if !cfg.AQIBulletin.Enabled || cfg.AQIBulletin.BaseURL == "" {
		return nil
	}
	return &BulletinClient{
		client:  httputil.New(cfg, log),
		baseURL: cfg.AQIBulletin.BaseURL,
		logger:  log,
	}
}

// DistrictAQI fetches the bulletin page and extracts the AQI value for the
// named district. The bulletin lists one district per table row with the
// station name in the first cell and the index value in the second.
func (c *BulletinClient) DistrictAQI(ctx context.Context, district string) (int, error) {
	resp, err := c.client.Get(ctx, c.baseURL+"/bulletin")
	if err != nil {
		return 0, fmt.Errorf("bulletin fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("bulletin returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("bulletin parse failed: %w", err)
	}

	target := strings.ToLower(strings.TrimSpace(district))
	aqi := 0
	found := false
	doc.Find("table tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return true
		}
		name := strings.ToLower(strings.TrimSpace(cells.Eq(0).Text()))
		if !strings.Contains(name, target) {
			return true
		}
		value, parseErr := strconv.Atoi(strings.TrimSpace(cells.Eq(1).Text()))
		if parseErr != nil {
			return true
		}
		aqi = value
		found = true
		return false
	})

	if !found {
		return 0, fmt.Errorf("district %q not listed in bulletin", district)
	}
	return aqi, nil
}
