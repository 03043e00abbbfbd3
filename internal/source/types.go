package source

import "encoding/json"

// rawEntry is the subset of a transcript line cquota cares about. Lines
// without a nested message.usage object are expected noise and are skipped.
type rawEntry struct {
	// Timestamps appear as epoch numbers or ISO-8601 strings depending on
	// the writer; kept raw for polymorphic parsing.
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty"`
	Message   *rawMessage     `json:"message,omitempty"`
}

// rawMessage is the assistant message envelope.
type rawMessage struct {
	Model string    `json:"model,omitempty"`
	Usage *rawUsage `json:"usage,omitempty"`
}

// rawUsage holds token counts from the API response.
type rawUsage struct {
	InputTokens              int64 `json:"input_tokens"`
	OutputTokens             int64 `json:"output_tokens"`
	CacheCreationInputTokens int64 `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int64 `json:"cache_read_input_tokens"`
}
