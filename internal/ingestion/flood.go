package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sustainai/hazard-risk/internal/models"
	"github.com/sustainai/hazard-risk/internal/risk"
)

type floodResponse struct {
	Items []floodItem `json:"items"`
}

type floodItem struct {
	FloodAreaID string  `json:"floodAreaID"`
	Description string  `json:"description"`
	Severity    string  `json:"severity"`
	Message     string  `json:"message"`
	Lat         float64 `json:"lat"`
	Long        float64 `json:"long"`
	TimeRaised  string  `json:"timeRaised"`
}

// FloodWarnings reads a flood-warning feed shaped as {"items": [...]}.
type FloodWarnings struct {
	feed
}

func NewFloodWarnings(url string, client *http.Client) *FloodWarnings {
	return &FloodWarnings{feed: newFeed(url, client)}
}

func (f *FloodWarnings) Name() string { return "flood" }

func (f *FloodWarnings) Fetch(ctx context.Context) ([]models.RiskRecord, error) {
	body, err := f.get(ctx, "application/json")
	if err != nil {
		return nil, err
	}

	var data floodResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("error decoding flood body: %w", err)
	}

	records := make([]models.RiskRecord, 0, len(data.Items))
	for i, item := range data.Items {
		id := item.FloodAreaID
		if id == "" {
			id = strconv.Itoa(i)
		}

		details := item.Message
		if details == "" {
			details = item.Description
		}

		observed := parseTime(item.TimeRaised)
		records = append(records, models.RiskRecord{
			ID:         "flood-" + id,
			Source:     f.Name(),
			Location:   item.Description,
			Type:       models.HazardFlood,
			Risk:       risk.Flood(item.Severity),
			Lat:        item.Lat,
			Lng:        item.Long,
			Details:    details,
			Severity:   item.Severity,
			Time:       models.FormatTime(observed),
			ObservedAt: observed,
			Country:    risk.CountryFromLocation(item.Description),
		})
	}

	return records, nil
}
