package ingest

import "time"

// CompletedRun is written once per ingestion that finished without error.
// Its absence means the store was never fully populated.
type CompletedRun struct {
	ID               uint      `gorm:"primaryKey"`
	FinishedAt       time.Time `gorm:"not null;index"`
	MembersFetched   int
	InterestsFetched int
	DurationMillis   int64
}

func (CompletedRun) TableName() string {
	return "ingest_runs"
}
