package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var (
	ErrDisabled         = errors.New("reverse geocoding disabled")
	ErrUnexpectedStatus = errors.New("unexpected geocoder status")
)

const userAgent = "hazard-risk/1.0 (+https://github.com/sustainai/hazard-risk)"

// Place is the reverse geocoded description of a coordinate. All fields are
// empty when the service knows nothing about the point.
type Place struct {
	DisplayName string `json:"display_name"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
	City        string `json:"city"`
}

func (p Place) Empty() bool {
	return p.DisplayName == ""
}

type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (Place, error)
}

// Client reverse geocodes against a Nominatim-compatible endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type nominatimResponse struct {
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
	Error       string           `json:"error"`
}

type nominatimAddress struct {
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	County      string `json:"county"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
}

func (c *Client) Reverse(ctx context.Context, lat, lng float64) (Place, error) {
	params := url.Values{
		"format": {"jsonv2"},
		"lat":    {strconv.FormatFloat(lat, 'f', 6, 64)},
		"lon":    {strconv.FormatFloat(lng, 'f', 6, 64)},
		"zoom":   {"10"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Place{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Place{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var data nominatimResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&data); err != nil {
		return Place{}, fmt.Errorf("decode response: %w", err)
	}

	// Nominatim answers 200 with an error field for points it cannot place (open ocean)
	if data.Error != "" {
		return Place{}, nil
	}

	return Place{
		DisplayName: data.DisplayName,
		Country:     data.Address.Country,
		CountryCode: data.Address.CountryCode,
		City:        firstNonEmpty(data.Address.City, data.Address.Town, data.Address.Village, data.Address.County),
	}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
