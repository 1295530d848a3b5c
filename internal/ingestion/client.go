package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const userAgent = "sustainai-hazard-risk/1.0 (+https://github.com/sustainai/hazard-risk)"

// DefaultMaxBodyBytes bounds a feed response unless the source overrides it.
const DefaultMaxBodyBytes int64 = 32 << 20

var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrBodyTooLarge     = errors.New("response body exceeds limit")
)

func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// feed holds what every fetcher needs to read its source.
type feed struct {
	url     string
	client  *http.Client
	maxBody int64
}

func newFeed(url string, client *http.Client) feed {
	return feed{url: url, client: client, maxBody: DefaultMaxBodyBytes}
}

// SetMaxBodyBytes overrides the response size limit. Non-positive values
// keep the current limit.
func (f *feed) SetMaxBodyBytes(n int64) {
	if n > 0 {
		f.maxBody = n
	}
}

// get performs a GET and returns the whole body. A body larger than maxBody
// fails with ErrBodyTooLarge rather than being cut short.
func (f *feed) get(ctx context.Context, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d - status: %s", ErrUnexpectedStatus, resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("error reading resp.Body: %w", err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, fmt.Errorf("%w: more than %d bytes from %s", ErrBodyTooLarge, f.maxBody, f.url)
	}
	return body, nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000Z",
	time.RFC1123,
	time.RFC1123Z,
}

// parseTime tries the timestamp layouts used by the feeds. Unparseable input
// yields the zero time.
func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
