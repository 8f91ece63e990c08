package models

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse is returned by POST /query.
type QueryResponse struct {
	Success   bool                   `json:"success"`
	RequestID string                 `json:"requestId,omitempty"`
	SQL       string                 `json:"sql,omitempty"`
	GraphData map[string]interface{} `json:"graphData,omitempty"`
	TableData map[string]interface{} `json:"tableData,omitempty"`
	Message   string                 `json:"message"`
	Cached    bool                   `json:"cached"`
}

// HistoryEntry is one stored question/answer pair.
type HistoryEntry struct {
	ID        string `json:"id"`
	Query     string `json:"query"`
	SQL       string `json:"sql"`
	ChartType string `json:"chart_type"`
	CreatedAt string `json:"created_at"`
}

// HistoryResponse is returned by GET /history.
type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
	Total   int            `json:"total"`
}

// SchemaResponse is returned by GET /schema.
type SchemaResponse struct {
	Schema string `json:"schema"`
}

// OllamaConfig for the /config/ollama endpoints.
type OllamaConfig struct {
	BaseURL string `json:"baseUrl"`
	Model   string `json:"model"`
}
