package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ArtifactVersion is the on-disk format version written by Save and
// required by Load.
const ArtifactVersion = 1

// artifact is the serialized form of a fitted tree. The header fields let
// the server reject a model trained against a different feature contract
// instead of mis-predicting at request time.
type artifact struct {
	FormatVersion int        `json:"format_version"`
	FeatureCount  int        `json:"feature_count"`
	ClassCount    int        `json:"class_count"`
	Nodes         []TreeNode `json:"nodes"`
}

// Save writes the fitted tree to path, overwriting any existing artifact.
func (dt *DecisionTree) Save(path string) error {
	if len(dt.nodes) == 0 {
		return errors.New("model not trained")
	}
	payload, err := json.Marshal(artifact{
		FormatVersion: ArtifactVersion,
		FeatureCount:  dt.featureCount,
		ClassCount:    ClassCount,
		Nodes:         dt.nodes,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// Load reads an artifact from path and validates its header before
// accepting the tree.
func (dt *DecisionTree) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read model artifact: %w", err)
	}
	var a artifact
	if err := json.Unmarshal(payload, &a); err != nil {
		return fmt.Errorf("parse model artifact %s: %w", path, err)
	}
	if a.FormatVersion != ArtifactVersion {
		return fmt.Errorf("model artifact %s: format version %d, want %d", path, a.FormatVersion, ArtifactVersion)
	}
	if a.FeatureCount != FeatureCount {
		return fmt.Errorf("model artifact %s: trained on %d features, server expects %d", path, a.FeatureCount, FeatureCount)
	}
	if len(a.Nodes) == 0 {
		return fmt.Errorf("model artifact %s: empty tree", path)
	}
	dt.nodes = a.Nodes
	dt.featureCount = a.FeatureCount
	return nil
}
