package ingestion

import "github.com/sustainai/hazard-risk/internal/models"

// Merge concatenates fetcher results in argument order, dropping empty
// records. Records reported by more than one source are kept as-is.
func Merge(results ...[]models.RiskRecord) []models.RiskRecord {
	total := 0
	for _, rs := range results {
		total += len(rs)
	}

	merged := make([]models.RiskRecord, 0, total)
	for _, rs := range results {
		for _, r := range rs {
			if r.ID == "" {
				continue
			}
			merged = append(merged, r)
		}
	}
	return merged
}
