package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/propdata-pk/propdata/internal/valuation"
)

// ValuationRecord is one completed valuation as kept in the history log.
// The result is stored exactly as the engine produced it.
type ValuationRecord struct {
	CreatedAt     time.Time                 `json:"created_at"`
	MarketVersion string                    `json:"market_version"`
	Input         valuation.PropertyRecord  `json:"input"`
	Result        valuation.ValuationResult `json:"result"`
	ID            uuid.UUID                 `json:"id"`
}

// NewValuationRecord stamps a fresh ID and creation time on a result.
func NewValuationRecord(marketVersion string, in valuation.PropertyRecord, res valuation.ValuationResult, now time.Time) *ValuationRecord {
	return &ValuationRecord{
		ID:            uuid.New(),
		CreatedAt:     now.UTC(),
		MarketVersion: marketVersion,
		Input:         in,
		Result:        res,
	}
}
