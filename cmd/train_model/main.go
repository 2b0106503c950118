package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"irisserve/db"
	"irisserve/ml"
)

func main() {
	modelPath := flag.String("model_path", "./models/iris.model", "model output path")
	maxDepth := flag.Int("max_depth", 0, "max tree depth, 0 for unlimited")
	dbPath := flag.String("db_path", "", "sqlite path for the training log, empty to skip")
	flag.Parse()

	features, labels := ml.LoadIris()

	model := &ml.DecisionTree{}
	if err := model.Train(features, labels, *maxDepth); err != nil {
		log.Fatalf("failed to train model: %v", err)
	}

	accuracy := evaluateModel(model, features, labels)
	log.Printf("training accuracy=%.3f samples=%d", accuracy, len(features))

	if err := os.MkdirAll(filepath.Dir(*modelPath), 0o755); err != nil {
		log.Fatalf("failed to create model dir: %v", err)
	}
	if err := model.Save(*modelPath); err != nil {
		log.Fatalf("failed to save model: %v", err)
	}

	if *dbPath != "" {
		if err := recordTrainingRun(*dbPath, *modelPath, accuracy, len(features)); err != nil {
			log.Printf("warning: failed to record training run: %v", err)
		}
	}

	fmt.Printf("model saved to %s\n", *modelPath)
}

func evaluateModel(model *ml.DecisionTree, features [][]float64, labels []int) float64 {
	if len(features) == 0 {
		return 0
	}
	correct := 0
	for i, feature := range features {
		label, _, err := model.Predict(feature)
		if err != nil {
			continue
		}
		if label == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(features))
}

func recordTrainingRun(dbPath, modelPath string, accuracy float64, dataPoints int) error {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := db.InitDB(dbPath); err != nil {
		return err
	}
	defer db.Close()
	return db.SaveTrainingRun("decision_tree", modelPath, accuracy, dataPoints)
}
