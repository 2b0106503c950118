package ml

import "testing"

func TestDecisionTreeTrainPredict(t *testing.T) {
	features := [][]float64{
		{0.1, 0.2},
		{0.2, 0.1},
		{0.9, 0.8},
		{0.8, 0.9},
	}
	labels := []int{0, 0, 2, 2}

	model := &DecisionTree{}
	if err := model.Train(features, labels, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	label, confidence, err := model.Predict([]float64{0.15, 0.15})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 0 {
		t.Fatalf("expected label 0, got %d", label)
	}
	if confidence <= 0 {
		t.Fatalf("expected confidence > 0")
	}
}

func TestDecisionTreeRejectsWrongWidth(t *testing.T) {
	features, labels := LoadIris()
	model := &DecisionTree{}
	if err := model.Train(features, labels, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := model.Predict([]float64{5.1, 3.5, 1.4}); err == nil {
		t.Fatal("expected error for 3-element input")
	}
}

func TestDecisionTreeIrisAccuracy(t *testing.T) {
	features, labels := LoadIris()
	model := &DecisionTree{}
	if err := model.Train(features, labels, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	correct := 0
	for i, f := range features {
		label, _, err := model.Predict(f)
		if err != nil {
			t.Fatalf("predict sample %d: %v", i, err)
		}
		if label < 0 || label >= ClassCount {
			t.Fatalf("sample %d: label %d out of range", i, label)
		}
		if label == labels[i] {
			correct++
		}
	}
	accuracy := float64(correct) / float64(len(features))
	if accuracy < 0.95 {
		t.Fatalf("training accuracy %.2f below 0.95", accuracy)
	}
}

func TestDecisionTreeKnownSamples(t *testing.T) {
	features, labels := LoadIris()
	model := &DecisionTree{}
	if err := model.Train(features, labels, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		input []float64
		want  int
	}{
		{[]float64{5.1, 3.5, 1.4, 0.2}, 0},
		{[]float64{6.7, 3.0, 5.2, 2.3}, 2},
	}
	for _, tc := range cases {
		label, _, err := model.Predict(tc.input)
		if err != nil {
			t.Fatalf("predict %v: %v", tc.input, err)
		}
		if label != tc.want {
			t.Fatalf("predict %v: got %d, want %d", tc.input, label, tc.want)
		}
	}
}

// Training carries no randomness, so two runs must agree everywhere.
func TestDecisionTreeRepeatTrainingAgrees(t *testing.T) {
	features, labels := LoadIris()

	first := &DecisionTree{}
	if err := first.Train(features, labels, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := &DecisionTree{}
	if err := second.Train(features, labels, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, f := range features {
		a, _, err := first.Predict(f)
		if err != nil {
			t.Fatalf("first model sample %d: %v", i, err)
		}
		b, _, err := second.Predict(f)
		if err != nil {
			t.Fatalf("second model sample %d: %v", i, err)
		}
		if a != b {
			t.Fatalf("sample %d: models disagree (%d vs %d)", i, a, b)
		}
	}
}

func TestLoadIrisShape(t *testing.T) {
	features, labels := LoadIris()
	if len(features) != 150 || len(labels) != 150 {
		t.Fatalf("expected 150 samples, got %d/%d", len(features), len(labels))
	}
	for i, f := range features {
		if len(f) != FeatureCount {
			t.Fatalf("sample %d has %d features", i, len(f))
		}
		if labels[i] < 0 || labels[i] >= ClassCount {
			t.Fatalf("sample %d has label %d", i, labels[i])
		}
	}
}
