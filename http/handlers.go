package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"irisserve/db"
	"irisserve/ml"
)

var (
	classifier ml.Classifier
	logger     = zap.NewNop()

	// Inference on a frozen model is pure, so identical inputs can be
	// answered from a bounded cache.
	predictionCache, _ = lru.New[string, cachedPrediction](1024)
)

type cachedPrediction struct {
	label      int
	confidence float64
}

// SetClassifier injects the loaded model. Must be called before the server
// starts serving; the model is read-only afterwards.
func SetClassifier(c ml.Classifier) {
	classifier = c
	predictionCache.Purge()
}

// SetLogger injects the process logger.
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", handleGreeting)
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("POST /predict", handlePredict)
	mux.HandleFunc("GET /api/predictions", handlePredictionHistory)
}

func handleGreeting(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "Hello, Docker!")
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

type predictRequest struct {
	Input []float64 `json:"input"`
}

type predictResponse struct {
	Prediction int `json:"prediction"`
}

// handlePredict classifies one feature vector. Any request fault (missing
// input field, wrong length, non-numeric values) surfaces as a 500, which
// is the published contract of this demo service.
func handlePredict(w http.ResponseWriter, r *http.Request) {
	if classifier == nil {
		respondError(w, http.StatusServiceUnavailable, "model not loaded")
		return
	}

	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	label, confidence, err := predict(req.Input)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := db.SavePrediction(req.Input, label, confidence); err != nil {
		logger.Warn("failed to record prediction", zap.Error(err))
	}

	respondJSON(w, predictResponse{Prediction: label})
}

func predict(input []float64) (int, float64, error) {
	key := fmt.Sprintf("%v", input)
	if cached, ok := predictionCache.Get(key); ok {
		return cached.label, cached.confidence, nil
	}

	label, confidence, err := classifier.Predict(input)
	if err != nil {
		return 0, 0, err
	}
	predictionCache.Add(key, cachedPrediction{label: label, confidence: confidence})
	return label, confidence, nil
}

func handlePredictionHistory(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil {
			limit = v
		}
	}

	records, err := db.QueryPredictions(limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, map[string]interface{}{
		"predictions": records,
		"count":       len(records),
	})
}

// respondJSON writes data as a JSON response.
func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON", zap.Error(err))
	}
}

// respondError writes a JSON error body with the given status. The message
// goes through the encoder so it stays valid JSON whatever the error text.
func respondError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		logger.Error("failed to encode JSON", zap.Error(err))
	}
}
