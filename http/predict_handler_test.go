package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"irisserve/ml"
)

type fakeClassifier struct {
	label      int
	confidence float64
	err        error
}

func (f *fakeClassifier) Predict(features []float64) (int, float64, error) {
	return f.label, f.confidence, f.err
}

func (f *fakeClassifier) FeatureCount() int {
	return ml.FeatureCount
}

func postPredict(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	RegisterHandlers(mux)

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHandlePredict(t *testing.T) {
	SetClassifier(&fakeClassifier{label: 2, confidence: 0.75})
	defer SetClassifier(nil)

	w := postPredict(t, `{"input":[5.0,3.0,4.0,1.0]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var payload predictResponse
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload.Prediction != 2 {
		t.Fatalf("unexpected prediction: %v", payload.Prediction)
	}
}

func TestHandlePredictTrainedModel(t *testing.T) {
	features, labels := ml.LoadIris()
	model := &ml.DecisionTree{}
	if err := model.Train(features, labels, 0); err != nil {
		t.Fatalf("train: %v", err)
	}
	SetClassifier(model)
	defer SetClassifier(nil)

	cases := []struct {
		body string
		want int
	}{
		{`{"input":[5.1,3.5,1.4,0.2]}`, 0},
		{`{"input":[6.7,3.0,5.2,2.3]}`, 2},
	}
	for _, tc := range cases {
		w := postPredict(t, tc.body)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d (%s)", tc.body, w.Code, w.Body.String())
		}
		var payload predictResponse
		if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
			t.Fatalf("%s: invalid json: %v", tc.body, err)
		}
		if payload.Prediction != tc.want {
			t.Fatalf("%s: got prediction %d, want %d", tc.body, payload.Prediction, tc.want)
		}
	}
}

// Malformed requests surface as 500, never as a silent wrong answer.
func TestHandlePredictMalformedInput(t *testing.T) {
	features, labels := ml.LoadIris()
	model := &ml.DecisionTree{}
	if err := model.Train(features, labels, 0); err != nil {
		t.Fatalf("train: %v", err)
	}
	SetClassifier(model)
	defer SetClassifier(nil)

	bodies := []string{
		`{"input":[5.1,3.5,1.4]}`,
		`{"input":"not an array"}`,
		`{"input":[5.1,"a",1.4,0.2]}`,
		`{}`,
		`not json at all`,
	}
	for _, body := range bodies {
		w := postPredict(t, body)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d (%s)", body, w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("%s: expected JSON error body, got content type %q", body, ct)
		}
		var payload map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
			t.Fatalf("%s: error body is not valid JSON: %v (%s)", body, err, w.Body.String())
		}
		if payload["error"] == "" {
			t.Fatalf("%s: error body missing message: %s", body, w.Body.String())
		}
	}
}

func TestHandlePredictNoModel(t *testing.T) {
	SetClassifier(nil)

	w := postPredict(t, `{"input":[5.1,3.5,1.4,0.2]}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
