package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

type Config struct {
	BaseURL string
	Model   string
}

type Service struct {
	config Config
	client *http.Client
}

func NewService(baseURL, model string) *Service {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "qwen3-vl:2b"
	}
	return &Service{
		config: Config{
			BaseURL: baseURL,
			Model:   model,
		},
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL returns the configured Ollama endpoint.
func (s *Service) BaseURL() string { return s.config.BaseURL }

// Model returns the configured model name.
func (s *Service) Model() string { return s.config.Model }

// SetConfig swaps the Ollama endpoint and model at runtime.
func (s *Service) SetConfig(baseURL, model string) {
	if baseURL != "" {
		s.config.BaseURL = baseURL
	}
	if model != "" {
		s.config.Model = model
	}
}

type GenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type GenerateResponse struct {
	Response string `json:"response"`
}

// CallOllama calls the Ollama API
func (s *Service) CallOllama(prompt string) (string, error) {
	reqBody := GenerateRequest{
		Model:  s.config.Model,
		Prompt: prompt,
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Post(s.config.BaseURL+"/api/generate", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama API returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var genResp GenerateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", err
	}

	return genResp.Response, nil
}

var (
	sqlFenceRegex     = regexp.MustCompile("(?s)```(?:sql)?\\s*(.*?)```")
	sqlSelectRegex    = regexp.MustCompile(`(?is)\bSELECT\b.*`)
	sqlForbiddenRegex = regexp.MustCompile(`\b(insert|update|delete|drop|alter|create|truncate|grant|revoke)\b`)
)

// GenerateSQL asks the LLM for a single SELECT statement answering the
// question against the given schema.
func (s *Service) GenerateSQL(userQuery, schemaContext string) (string, error) {
	prompt := fmt.Sprintf(`
You are an expert SQL analyst for a basketball statistics warehouse.

Schema:
%s

Question: %s

Write a single PostgreSQL SELECT statement that answers the question.
Rules:
- SELECT only, no DDL or DML
- Use only tables and columns from the schema above
- Prefer descriptive column aliases (e.g. avg_points)
- Limit to at most 500 rows

Return ONLY the SQL.
`, schemaContext, userQuery)

	response, err := s.CallOllama(prompt)
	if err != nil {
		return "", err
	}

	sqlText := ExtractSQL(response)
	if sqlText == "" {
		return "", fmt.Errorf("no SQL found in response")
	}

	if err := ValidateSQL(sqlText); err != nil {
		return "", err
	}

	return sqlText, nil
}

// ExtractSQL pulls the SQL statement out of a model completion. Fenced
// blocks win; otherwise everything from the first SELECT is taken.
func ExtractSQL(response string) string {
	if m := sqlFenceRegex.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := sqlSelectRegex.FindString(response); m != "" {
		return strings.TrimSpace(m)
	}
	return ""
}

// ValidateSQL rejects anything that is not a single SELECT statement.
func ValidateSQL(sqlText string) error {
	trimmed := strings.TrimSuffix(strings.TrimSpace(sqlText), ";")
	lowered := strings.ToLower(trimmed)

	if !strings.HasPrefix(lowered, "select") && !strings.HasPrefix(lowered, "with") {
		return fmt.Errorf("generated SQL is not a SELECT statement")
	}
	if strings.Contains(trimmed, ";") {
		return fmt.Errorf("generated SQL contains multiple statements")
	}
	if m := sqlForbiddenRegex.FindString(lowered); m != "" {
		return fmt.Errorf("generated SQL contains forbidden keyword: %s", m)
	}
	return nil
}
