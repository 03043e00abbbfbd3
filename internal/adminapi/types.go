package adminapi

import "github.com/jdhollis/cquota/internal/model"

// usageReport is the raw response from the usage report endpoint: an array
// of time buckets, each carrying per-bucket token and cost results.
type usageReport struct {
	Buckets []reportBucket `json:"buckets"`
}

type reportBucket struct {
	Results []bucketResult `json:"results"`
}

type bucketResult struct {
	InputTokens              int64   `json:"input_tokens"`
	OutputTokens             int64   `json:"output_tokens"`
	CacheCreationInputTokens int64   `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int64   `json:"cache_read_input_tokens"`
	Cost                     float64 `json:"cost"`
}

// WindowTotals holds the three remote window buckets from one collection.
type WindowTotals struct {
	Session model.WindowBucket
	Daily   model.WindowBucket
	Weekly  model.WindowBucket
}
