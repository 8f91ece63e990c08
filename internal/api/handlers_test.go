package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtside-backend/internal/cache"
	"courtside-backend/internal/llm"
	"courtside-backend/internal/models"
	"courtside-backend/internal/service"
)

// stubWarehouse returns canned schema and query results.
type stubWarehouse struct {
	schema    string
	schemaErr error
	rs        *models.ResultSet
	execErr   error
	lastSQL   string
}

func (s *stubWarehouse) Execute(sqlText string) (*models.ResultSet, error) {
	s.lastSQL = sqlText
	if s.execErr != nil {
		return nil, s.execErr
	}
	return s.rs, nil
}

func (s *stubWarehouse) SchemaContext() (string, error) {
	return s.schema, s.schemaErr
}

func (s *stubWarehouse) Close() error { return nil }

func scorersResultSet() *models.ResultSet {
	return models.NewResultSet(
		[]string{"full_name", "avg_points"},
		[]models.ColumnType{models.ColumnCategorical, models.ColumnNumeric},
		[][]interface{}{
			{"Curry", 30.1},
			{"Harden", 29.0},
			{"Lillard", 28.4},
		},
	)
}

// fakeOllama serves a fixed completion for /api/generate.
func fakeOllama(t *testing.T, completion string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"response": completion})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T, wh *stubWarehouse, llmSvc *llm.Service, store *cache.Store) *chi.Mux {
	t.Helper()
	h := NewHandler(service.NewPipelineService(), llmSvc, wh, store)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func openTestCache(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func postQuery(t *testing.T, r http.Handler, body string) (*httptest.ResponseRecorder, models.QueryResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp models.QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestHealthCheck(t *testing.T) {
	wh := &stubWarehouse{}
	r := newTestRouter(t, wh, llm.NewService("", ""), nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestQuery_EndToEnd(t *testing.T) {
	ollama := fakeOllama(t, "```sql\nSELECT full_name, AVG(points) AS avg_points FROM player_game_stats GROUP BY full_name ORDER BY avg_points DESC LIMIT 5\n```")
	wh := &stubWarehouse{schema: "player_game_stats(full_name text, points numeric)", rs: scorersResultSet()}
	store := openTestCache(t)
	r := newTestRouter(t, wh, llm.NewService(ollama.URL, "test"), store)

	rec, resp := postQuery(t, r, `{"query": "top 5 scorers by average points"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.False(t, resp.Cached)
	assert.NotEmpty(t, resp.RequestID)
	assert.Contains(t, resp.SQL, "SELECT full_name")
	assert.Equal(t, resp.SQL, wh.lastSQL)
	require.NotNil(t, resp.GraphData)
	assert.Equal(t, "bar", resp.GraphData[models.FieldChartType])
	assert.Nil(t, resp.TableData)
	assert.Contains(t, resp.Message, "Comparing avg_points by full_name")
}

func TestQuery_SecondAskHitsCache(t *testing.T) {
	ollama := fakeOllama(t, "SELECT full_name, AVG(points) AS avg_points FROM player_game_stats GROUP BY full_name")
	wh := &stubWarehouse{schema: "player_game_stats(full_name text, points numeric)", rs: scorersResultSet()}
	store := openTestCache(t)
	r := newTestRouter(t, wh, llm.NewService(ollama.URL, "test"), store)

	_, first := postQuery(t, r, `{"query": "top scorers"}`)
	require.True(t, first.Success)
	require.False(t, first.Cached)

	// whitespace/case changes map to the same signature
	_, second := postQuery(t, r, `{"query": "  TOP   scorers "}`)
	assert.True(t, second.Success)
	assert.True(t, second.Cached)
	assert.Equal(t, first.SQL, second.SQL)
	assert.Equal(t, first.GraphData[models.FieldChartType], second.GraphData[models.FieldChartType])
}

func TestQuery_InvalidBody(t *testing.T) {
	wh := &stubWarehouse{}
	r := newTestRouter(t, wh, llm.NewService("", ""), nil)

	rec, resp := postQuery(t, r, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "Error processing query:")
}

func TestQuery_EmptyQuery(t *testing.T) {
	wh := &stubWarehouse{}
	r := newTestRouter(t, wh, llm.NewService("", ""), nil)

	rec, resp := postQuery(t, r, `{"query": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "empty query")
}

func TestQuery_SchemaError(t *testing.T) {
	wh := &stubWarehouse{schemaErr: fmt.Errorf("warehouse unreachable")}
	r := newTestRouter(t, wh, llm.NewService("", ""), nil)

	rec, resp := postQuery(t, r, `{"query": "top scorers"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "warehouse unreachable")
}

func TestQuery_ForbiddenSQLIsRejected(t *testing.T) {
	ollama := fakeOllama(t, "DROP TABLE player_game_stats")
	wh := &stubWarehouse{schema: "player_game_stats(points numeric)"}
	r := newTestRouter(t, wh, llm.NewService(ollama.URL, "test"), nil)

	rec, resp := postQuery(t, r, `{"query": "top scorers"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "Error processing query:")
	assert.Empty(t, wh.lastSQL)
}

func TestQuery_ExecuteError(t *testing.T) {
	ollama := fakeOllama(t, "SELECT points FROM player_game_stats")
	wh := &stubWarehouse{schema: "player_game_stats(points numeric)", execErr: fmt.Errorf("relation does not exist")}
	r := newTestRouter(t, wh, llm.NewService(ollama.URL, "test"), nil)

	rec, resp := postQuery(t, r, `{"query": "points"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "relation does not exist")
}

func TestGetHistory(t *testing.T) {
	ollama := fakeOllama(t, "SELECT full_name, AVG(points) AS avg_points FROM player_game_stats GROUP BY full_name")
	wh := &stubWarehouse{schema: "player_game_stats(full_name text, points numeric)", rs: scorersResultSet()}
	store := openTestCache(t)
	r := newTestRouter(t, wh, llm.NewService(ollama.URL, "test"), store)

	_, resp := postQuery(t, r, `{"query": "top scorers"}`)
	require.True(t, resp.Success)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var hist models.HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hist))
	require.Len(t, hist.Entries, 1)
	assert.Equal(t, 1, hist.Total)
	assert.Equal(t, "top scorers", hist.Entries[0].Query)
	assert.Equal(t, "bar", hist.Entries[0].ChartType)
}

func TestGetHistory_NoCacheConfigured(t *testing.T) {
	wh := &stubWarehouse{}
	r := newTestRouter(t, wh, llm.NewService("", ""), nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var hist models.HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hist))
	assert.Empty(t, hist.Entries)
}

func TestGetSchema(t *testing.T) {
	wh := &stubWarehouse{schema: "teams(team_id integer, name text)"}
	r := newTestRouter(t, wh, llm.NewService("", ""), nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schema", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.SchemaResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "teams(team_id integer, name text)", resp.Schema)
}

func TestOllamaConfigRoundTrip(t *testing.T) {
	wh := &stubWarehouse{}
	llmSvc := llm.NewService("http://localhost:11434", "qwen3-vl:2b")
	r := newTestRouter(t, wh, llmSvc, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/config/ollama", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg models.OllamaConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, "http://localhost:11434", cfg.BaseURL)
	assert.Equal(t, "qwen3-vl:2b", cfg.Model)

	body := `{"baseUrl": "http://ollama.internal:11434", "model": "llama3"}`
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/config/ollama", bytes.NewBufferString(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, "http://ollama.internal:11434", cfg.BaseURL)
	assert.Equal(t, "llama3", cfg.Model)
	assert.Equal(t, "llama3", llmSvc.Model())
}
