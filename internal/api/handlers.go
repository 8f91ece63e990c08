package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"courtside-backend/internal/cache"
	"courtside-backend/internal/llm"
	"courtside-backend/internal/models"
	"courtside-backend/internal/service"
	"courtside-backend/internal/warehouse"
)

type Handler struct {
	Pipeline  *service.PipelineService
	LLM       *llm.Service
	Warehouse warehouse.Warehouse
	Cache     *cache.Store // nil disables caching and history
}

func NewHandler(pipeline *service.PipelineService, llmSvc *llm.Service, wh warehouse.Warehouse, store *cache.Store) *Handler {
	return &Handler{
		Pipeline:  pipeline,
		LLM:       llmSvc,
		Warehouse: wh,
		Cache:     store,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Post("/query", h.Query)
	r.Get("/history", h.GetHistory)
	r.Get("/schema", h.GetSchema)

	r.Get("/config/ollama", h.GetOllamaConfig)
	r.Post("/config/ollama", h.SaveOllamaConfig)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// Query answers a natural-language question: cache lookup, SQL generation,
// warehouse execution, then the visualization pipeline. Collaborator
// failures are reported as a message bundle; the pipeline itself has no
// failure path.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeQueryError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body"))
		return
	}
	if req.Query == "" {
		writeQueryError(w, http.StatusBadRequest, fmt.Errorf("empty query"))
		return
	}

	signature := cache.Signature(req.Query)

	if h.Cache != nil {
		cached, sqlText, err := h.Cache.Lookup(signature)
		if err != nil {
			log.Printf("cache lookup failed: %v", err)
		}
		if cached != nil {
			result := h.Pipeline.ProcessFromCache(cached)
			writeJSON(w, http.StatusOK, models.QueryResponse{
				Success:   true,
				RequestID: uuid.NewString(),
				SQL:       sqlText,
				GraphData: result.GraphData,
				TableData: result.TableData,
				Message:   result.Message,
				Cached:    true,
			})
			return
		}
	}

	schemaContext, err := h.Warehouse.SchemaContext()
	if err != nil {
		writeQueryError(w, http.StatusInternalServerError, err)
		return
	}

	sqlText, err := h.LLM.GenerateSQL(req.Query, schemaContext)
	if err != nil {
		writeQueryError(w, http.StatusInternalServerError, err)
		return
	}

	rs, err := h.Warehouse.Execute(sqlText)
	if err != nil {
		writeQueryError(w, http.StatusInternalServerError, err)
		return
	}

	result := h.Pipeline.Process(req.Query, sqlText, rs)

	if h.Cache != nil {
		if err := h.Cache.Save(signature, req.Query, sqlText, result); err != nil {
			log.Printf("cache store failed: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, models.QueryResponse{
		Success:   true,
		RequestID: uuid.NewString(),
		SQL:       sqlText,
		GraphData: result.GraphData,
		TableData: result.TableData,
		Message:   result.Message,
		Cached:    false,
	})
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.Cache == nil {
		writeJSON(w, http.StatusOK, models.HistoryResponse{Entries: []models.HistoryEntry{}})
		return
	}

	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	entries, err := h.Cache.History(limit)
	if err != nil {
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, models.HistoryResponse{Entries: entries, Total: len(entries)})
}

func (h *Handler) GetSchema(w http.ResponseWriter, r *http.Request) {
	schemaContext, err := h.Warehouse.SchemaContext()
	if err != nil {
		http.Error(w, "failed to read schema", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, models.SchemaResponse{Schema: schemaContext})
}

func (h *Handler) GetOllamaConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.OllamaConfig{
		BaseURL: h.LLM.BaseURL(),
		Model:   h.LLM.Model(),
	})
}

func (h *Handler) SaveOllamaConfig(w http.ResponseWriter, r *http.Request) {
	var cfg models.OllamaConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	h.LLM.SetConfig(cfg.BaseURL, cfg.Model)
	writeJSON(w, http.StatusOK, models.OllamaConfig{
		BaseURL: h.LLM.BaseURL(),
		Model:   h.LLM.Model(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeQueryError(w http.ResponseWriter, status int, cause error) {
	writeJSON(w, status, models.QueryResponse{
		Success: false,
		Message: fmt.Sprintf("Error processing query: %v", cause),
	})
}
