package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/sustainai/hazard-risk/internal/models"
	"github.com/sustainai/hazard-risk/internal/risk"
)

// cycloneClass is the CSS class marking one storm entry on the page.
const cycloneClass = "cyclone"

// Cyclones scrapes an HTML storm listing. Each element carrying the
// "cyclone" class becomes a record; optional data-id, data-lat, data-lng and
// data-location attributes refine it. A markup change yields no records.
type Cyclones struct {
	feed
	now func() time.Time
}

func NewCyclones(url string, client *http.Client) *Cyclones {
	return &Cyclones{feed: newFeed(url, client), now: time.Now}
}

func (c *Cyclones) Name() string { return "cyclone" }

func (c *Cyclones) Fetch(ctx context.Context) ([]models.RiskRecord, error) {
	body, err := c.get(ctx, "text/html")
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error parsing cyclone page: %w", err)
	}

	observed := c.now().UTC()
	var records []models.RiskRecord

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, cycloneClass) {
			if r, ok := c.toRecord(n, len(records), observed); ok {
				records = append(records, r)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return records, nil
}

func (c *Cyclones) toRecord(n *html.Node, index int, observed time.Time) (models.RiskRecord, bool) {
	name := textContent(n)
	if name == "" {
		return models.RiskRecord{}, false
	}

	id := attr(n, "data-id")
	if id == "" {
		id = slug(name)
	}
	if id == "" {
		id = strconv.Itoa(index)
	}

	location := attr(n, "data-location")
	if location == "" {
		location = name
	}

	lat, _ := strconv.ParseFloat(attr(n, "data-lat"), 64)
	lng, _ := strconv.ParseFloat(attr(n, "data-lng"), 64)

	return models.RiskRecord{
		ID:         "cyclone-" + id,
		Source:     c.Name(),
		Location:   location,
		Type:       models.HazardCyclone,
		Risk:       risk.Cyclone(),
		Lat:        lat,
		Lng:        lng,
		Details:    name,
		Time:       models.FormatTime(observed),
		ObservedAt: observed,
		Country:    risk.CountryFromLocation(location),
	}, true
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent joins the text nodes under n with single spaces.
func textContent(n *html.Node) string {
	var parts []string
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			parts = append(parts, strings.Fields(n.Data)...)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return strings.Join(parts, " ")
}
