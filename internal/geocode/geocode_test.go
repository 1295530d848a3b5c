package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nominatimBody = `{
  "place_id": 1,
  "display_name": "Santiago, Provincia de Santiago, Chile",
  "address": {"city": "Santiago", "country": "Chile", "country_code": "cl"}
}`

func TestClient_Reverse(t *testing.T) {
	var gotQuery, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(nominatimBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	place, err := c.Reverse(context.Background(), -33.45, -70.66)
	require.NoError(t, err)

	assert.Equal(t, "Santiago, Provincia de Santiago, Chile", place.DisplayName)
	assert.Equal(t, "Chile", place.Country)
	assert.Equal(t, "cl", place.CountryCode)
	assert.Equal(t, "Santiago", place.City)
	assert.Contains(t, gotQuery, "format=jsonv2")
	assert.Contains(t, gotQuery, "lat=-33.450000")
	assert.Contains(t, gotQuery, "lon=-70.660000")
	assert.Equal(t, userAgent, gotAgent)
}

func TestClient_Reverse_FallsBackToTown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"display_name":"Hvar","address":{"town":"Hvar","country":"Croatia","country_code":"hr"}}`))
	}))
	defer srv.Close()

	place, err := NewClient(srv.URL, time.Second).Reverse(context.Background(), 43.17, 16.44)
	require.NoError(t, err)
	assert.Equal(t, "Hvar", place.City)
}

func TestClient_Reverse_UnableToGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"error":"Unable to geocode"}`))
	}))
	defer srv.Close()

	place, err := NewClient(srv.URL, time.Second).Reverse(context.Background(), 0, -30)
	require.NoError(t, err)
	assert.True(t, place.Empty())
}

func TestClient_Reverse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, "oops", ErrUnexpectedStatus},
		{"rate limited", http.StatusTooManyRequests, "", ErrUnexpectedStatus},
		{"malformed body", http.StatusOK, "{not json", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second).Reverse(context.Background(), 1, 2)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

type countingGeocoder struct {
	calls int
	place Place
	err   error
}

func (m *countingGeocoder) Reverse(context.Context, float64, float64) (Place, error) {
	m.calls++
	return m.place, m.err
}

func TestCachedGeocoder_Hit(t *testing.T) {
	inner := &countingGeocoder{place: Place{DisplayName: "Austin, TX", Country: "United States"}}
	cached, err := NewCachedGeocoder(inner, 10, nil)
	require.NoError(t, err)

	p1, err := cached.Reverse(context.Background(), 30.2672, -97.7431)
	require.NoError(t, err)
	p2, err := cached.Reverse(context.Background(), 30.26721, -97.74309)
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, 1, inner.calls, "nearby coordinates share a cache entry")
}

func TestCachedGeocoder_EmptyNotCached(t *testing.T) {
	inner := &countingGeocoder{}
	cached, err := NewCachedGeocoder(inner, 10, nil)
	require.NoError(t, err)

	cached.Reverse(context.Background(), 0, -30)
	cached.Reverse(context.Background(), 0, -30)

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, cached.Len())
}

func TestCachedGeocoder_ErrorsPassThrough(t *testing.T) {
	boom := errors.New("boom")
	inner := &countingGeocoder{err: boom}
	cached, err := NewCachedGeocoder(inner, 10, nil)
	require.NoError(t, err)

	_, err = cached.Reverse(context.Background(), 1, 1)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, cached.Len())
}

func TestCachedGeocoder_Evicts(t *testing.T) {
	inner := &countingGeocoder{place: Place{DisplayName: "somewhere"}}
	cached, err := NewCachedGeocoder(inner, 2, nil)
	require.NoError(t, err)

	ctx := context.Background()
	cached.Reverse(ctx, 1, 1)
	cached.Reverse(ctx, 2, 2)
	cached.Reverse(ctx, 3, 3)
	assert.Equal(t, 2, cached.Len())

	cached.Reverse(ctx, 1, 1)
	assert.Equal(t, 4, inner.calls, "oldest entry was evicted")
}

func TestNewCachedGeocoder_InvalidSize(t *testing.T) {
	_, err := NewCachedGeocoder(&countingGeocoder{}, 0, nil)
	assert.Error(t, err)
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Reverse(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrDisabled)
}
