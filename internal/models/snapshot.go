package models

import "time"

type RefreshState string

const (
	StateIdle    RefreshState = "idle"
	StateLoading RefreshState = "loading"
)

// Snapshot is the result of one committed refresh cycle.
type Snapshot struct {
	Generation   uint64         `json:"generation"`
	CycleID      string         `json:"cycle_id"`
	State        RefreshState   `json:"state"`
	Records      []RiskRecord   `json:"records"`
	Active       *RiskRecord    `json:"active"`
	RefreshedAt  time.Time      `json:"refreshed_at"`
	SourceCounts map[string]int `json:"source_counts"`
}

// Clone deep-copies the snapshot.
func (s Snapshot) Clone() Snapshot {
	c := s
	if s.Records != nil {
		c.Records = make([]RiskRecord, len(s.Records))
		for i, r := range s.Records {
			c.Records[i] = r.Clone()
		}
	}
	if s.Active != nil {
		active := s.Active.Clone()
		c.Active = &active
	}
	if s.SourceCounts != nil {
		c.SourceCounts = make(map[string]int, len(s.SourceCounts))
		for k, v := range s.SourceCounts {
			c.SourceCounts[k] = v
		}
	}
	return c
}
