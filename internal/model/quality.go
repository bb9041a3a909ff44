package model

// QualityReport carries the audio probe metrics and the post-processing
// recommendation. NoiseLevel is 0-100 (lower is better), Clarity 0-100
// (higher is better), Volume is the normalized mean amplitude 0-1.
type QualityReport struct {
	NoiseLevel     float64 `json:"noiseLevel"`
	Clarity        float64 `json:"clarity"`
	Volume         float64 `json:"volume"`
	Duration       float64 `json:"duration"`
	SampleRate     int     `json:"sampleRate"`
	Recommendation string  `json:"recommendation,omitempty"`
}

// DefaultQualityReport is substituted when the probe itself fails so the
// pipeline can keep going with neutral assumptions.
func DefaultQualityReport() QualityReport {
	return QualityReport{
		NoiseLevel: 50.0,
		Clarity:    60.0,
		Volume:     0.5,
		Duration:   5.0,
		SampleRate: 16000,
	}
}
