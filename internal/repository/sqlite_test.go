package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sustainai/hazard-risk/internal/models"
)

func setupTestDB(t *testing.T) *SQLiteDB {
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	return db
}

func ptr[T any](v T) *T { return &v }

func TestSQLiteDB_AddAndGetByID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	observed := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	record := &models.RiskRecord{
		ID:                        "quake-abc",
		Source:                    "usgs",
		Location:                  "10km N of Town, Chile",
		Type:                      models.HazardEarthquake,
		Risk:                      90,
		Lat:                       -33.4,
		Lng:                       -70.6,
		Details:                   "Magnitude 4.5 earthquake",
		Severity:                  "green",
		ObservedAt:                observed,
		Time:                      models.FormatTime(observed),
		Country:                   "Chile",
		InfrastructureImpact:      []string{"Structural damage"},
		ResilienceRecommendations: []string{"Retrofit buildings"},
	}

	if err := db.Add(ctx, record); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := db.GetByID(ctx, "quake-abc")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Country != "Chile" {
		t.Errorf("expected country 'Chile', got '%s'", got.Country)
	}
	if got.Risk != 90 {
		t.Errorf("expected risk 90, got %d", got.Risk)
	}
	if got.Type != models.HazardEarthquake {
		t.Errorf("expected type Earthquake, got %s", got.Type)
	}
	if !got.ObservedAt.Equal(observed) {
		t.Errorf("expected observed_at %v, got %v", observed, got.ObservedAt)
	}
	if len(got.InfrastructureImpact) != 1 || got.InfrastructureImpact[0] != "Structural damage" {
		t.Errorf("unexpected impacts: %v", got.InfrastructureImpact)
	}
	if len(got.ResilienceRecommendations) != 1 {
		t.Errorf("unexpected recommendations: %v", got.ResilienceRecommendations)
	}
	if got.RadiusKm != nil {
		t.Errorf("expected nil radius, got %v", *got.RadiusKm)
	}
}

func TestSQLiteDB_RadiusRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	if err := db.Add(ctx, &models.RiskRecord{ID: "fire-1", Source: "wildfire", Type: models.HazardWildfire, Risk: 50, RadiusKm: ptr(2.0)}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := db.GetByID(ctx, "fire-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.RadiusKm == nil || *got.RadiusKm != 2.0 {
		t.Errorf("expected radius 2.0, got %v", got.RadiusKm)
	}
	if !got.ObservedAt.IsZero() {
		t.Errorf("expected zero observed_at, got %v", got.ObservedAt)
	}
}

func TestSQLiteDB_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteDB_Exists(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	exists, err := db.Exists(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected false for nonexistent ID")
	}

	db.Add(ctx, &models.RiskRecord{ID: "flood-1", Source: "flood", Type: models.HazardFlood, Risk: 60})

	exists, err = db.Exists(ctx, "flood-1")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected true for existing ID")
	}
}

func TestSQLiteDB_List_WithFilters(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	old := time.Now().Add(-48 * time.Hour).UTC()
	recent := time.Now().Add(-time.Hour).UTC()

	records := []*models.RiskRecord{
		{ID: "quake-1", Source: "usgs", Type: models.HazardEarthquake, Risk: 90, ObservedAt: recent},
		{ID: "quake-2", Source: "usgs", Type: models.HazardEarthquake, Risk: 30, ObservedAt: old},
		{ID: "flood-1", Source: "flood", Type: models.HazardFlood, Risk: 60, ObservedAt: recent},
		{ID: "cyclone-1", Source: "cyclone", Type: models.HazardCyclone, Risk: 75, ObservedAt: recent},
	}
	for _, r := range records {
		if err := db.Add(ctx, r); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	results, err := db.List(ctx, Filter{Type: ptr(models.HazardEarthquake)})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 earthquakes, got %d", len(results))
	}

	results, err = db.List(ctx, Filter{MinRisk: ptr(70)})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 records with risk >= 70, got %d", len(results))
	}

	results, err = db.List(ctx, Filter{Source: "flood"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != "flood-1" {
		t.Errorf("expected only flood-1, got %v", results)
	}

	since := time.Now().Add(-24 * time.Hour)
	results, err = db.List(ctx, Filter{Since: &since})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 records in the last day, got %d", len(results))
	}

	results, err = db.List(ctx, Filter{Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 records with limit, got %d", len(results))
	}

	results, err = db.List(ctx, Filter{Limit: 10, Offset: 3})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 record after offset 3, got %d", len(results))
	}
}

func TestSQLiteDB_Count(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	n, err := db.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty archive, got %d", n)
	}

	db.Add(ctx, &models.RiskRecord{ID: "a", Source: "nws", Type: models.HazardHeatwave, Risk: 40})
	db.Add(ctx, &models.RiskRecord{ID: "b", Source: "nws", Type: models.HazardSevereStorm, Risk: 45})

	n, err = db.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
}

func TestSQLiteDB_DuplicateAdd(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	record := &models.RiskRecord{ID: "dup_test", Source: "usgs", Type: models.HazardEarthquake, Risk: 10}

	if err := db.Add(ctx, record); err != nil {
		t.Fatalf("First Add failed: %v", err)
	}

	err := db.Add(ctx, record)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}
