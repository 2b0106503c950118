package ml

// Classifier is the read-only view the server holds after startup.
type Classifier interface {
	Predict(features []float64) (int, float64, error)
	FeatureCount() int
}
