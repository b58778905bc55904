package ingest

import "errors"

var (
	ErrNotObject        = errors.New("record is not a json object")
	ErrInvalidBatchSize = errors.New("batch size must be positive")
)
