package refresh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sustainai/hazard-risk/internal/models"
)

func TestSelectActive(t *testing.T) {
	tests := []struct {
		name    string
		records []models.RiskRecord
		wantID  string
	}{
		{"empty", nil, ""},
		{"single", []models.RiskRecord{{ID: "a", Risk: 10}}, "a"},
		{"highest wins regardless of position", []models.RiskRecord{{ID: "a", Risk: 80}, {ID: "b", Risk: 95}}, "b"},
		{"highest first", []models.RiskRecord{{ID: "b", Risk: 95}, {ID: "a", Risk: 80}}, "b"},
		{"tie keeps first", []models.RiskRecord{{ID: "a", Risk: 70}, {ID: "b", Risk: 90}, {ID: "c", Risk: 90}}, "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectActive(tt.records)
			if tt.wantID == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestSelectActive_ReturnsCopy(t *testing.T) {
	records := []models.RiskRecord{{ID: "a", Risk: 50, InfrastructureImpact: []string{"x"}}}
	got := SelectActive(records)
	require.NotNil(t, got)

	got.Risk = 0
	got.InfrastructureImpact[0] = "y"
	assert.Equal(t, 50, records[0].Risk)
	assert.Equal(t, "x", records[0].InfrastructureImpact[0])
}

func TestStore_InitialState(t *testing.T) {
	s := NewStore()
	snap := s.Snapshot()

	assert.False(t, s.Ready())
	assert.Equal(t, models.StateIdle, snap.State)
	assert.NotNil(t, snap.Records)
	assert.Empty(t, snap.Records)
	assert.Nil(t, snap.Active)
}

func TestStore_LoadingTransitions(t *testing.T) {
	s := NewStore()

	s.beginLoading()
	assert.Equal(t, models.StateLoading, s.State())
	assert.Equal(t, models.StateLoading, s.Snapshot().State)

	s.endLoading()
	assert.Equal(t, models.StateIdle, s.State())
}

func TestStore_CommitRejectsOlderGenerations(t *testing.T) {
	s := NewStore()

	require.True(t, s.commit(models.Snapshot{Generation: 2, CycleID: "two"}))
	assert.True(t, s.Ready())

	s.beginLoading()
	assert.False(t, s.commit(models.Snapshot{Generation: 1, CycleID: "one"}))
	assert.False(t, s.commit(models.Snapshot{Generation: 2, CycleID: "two-again"}))
	assert.Equal(t, models.StateIdle, s.State())
	assert.Equal(t, "two", s.Snapshot().CycleID)

	assert.True(t, s.commit(models.Snapshot{Generation: 3, CycleID: "three"}))
	assert.Equal(t, "three", s.Snapshot().CycleID)
}

func TestStore_SnapshotIsIsolated(t *testing.T) {
	s := NewStore()
	records := []models.RiskRecord{{ID: "a", Risk: 50}}
	require.True(t, s.commit(models.Snapshot{Generation: 1, Records: records}))

	records[0].Risk = 99
	snap := s.Snapshot()
	assert.Equal(t, 50, snap.Records[0].Risk)

	snap.Records[0].Risk = 1
	assert.Equal(t, 50, s.Snapshot().Records[0].Risk)
}
