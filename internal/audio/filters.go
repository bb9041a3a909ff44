package audio

import (
	"fmt"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"
)

// FilterChain selects the ffmpeg filter stages for a probed recording.
// Pure threshold rules: the same report always produces the same chain.
// Tuned for elderly voices: lower fundamental frequency, uneven volume,
// sibilants from dental prostheses.
func FilterChain(q model.QualityReport) []string {
	var filters []string

	// High-pass: drop low-frequency rumble. 80 Hz when the recording is
	// noisy, 60 Hz otherwise so a low fundamental is not clipped.
	highpass := 60
	if q.NoiseLevel > 50 {
		highpass = 80
	}
	filters = append(filters, fmt.Sprintf("highpass=f=%d", highpass))

	// Low-pass: speech content tops out near 8 kHz; cut earlier on
	// murky recordings.
	lowpass := 6000
	if q.Clarity > 70 {
		lowpass = 8000
	}
	filters = append(filters, fmt.Sprintf("lowpass=f=%d", lowpass))

	// Gain compensates monotonically: quiet input gets the most boost.
	switch {
	case q.Volume < 0.3:
		filters = append(filters, "volume=2.5")
	case q.Volume < 0.6:
		filters = append(filters, "volume=1.8")
	default:
		filters = append(filters, "volume=1.2")
	}

	if q.NoiseLevel > 40 {
		filters = append(filters,
			"afftdn=nr=20:nf=-20",
			"highshelf=g=-3:f=6000",
		)
	}

	// Always applied: compression for irregular volume, de-esser for
	// sibilants, phaser for voice clarity.
	filters = append(filters,
		"acompressor=threshold=0.1:ratio=3:attack=5:release=50",
		"deesser",
		"aphaser=in_gain=0.4:out_gain=0.74:delay=3:decay=0.4:speed=0.5",
	)

	return filters
}

// silenceRemoveFilter trims leading silence longer than 300 ms and any
// interior or trailing silence longer than 500 ms. The -45 dB threshold is
// more sensitive than ffmpeg's default to keep quiet speakers intact.
const silenceRemoveFilter = "silenceremove=" +
	"start_periods=1:" +
	"start_duration=0.3:" +
	"start_threshold=-45dB:" +
	"detection=peak:" +
	"stop_periods=-1:" +
	"stop_duration=0.5:" +
	"stop_threshold=-45dB"

// Recommendation buckets the final clarity into a categorical advice
// string for the dashboard.
func Recommendation(q model.QualityReport) string {
	switch {
	case q.Clarity > 80:
		return "✅ Excelente calidad de audio para transcripción"
	case q.Clarity > 60:
		return "👍 Buena calidad de audio, transcripción confiable"
	case q.Clarity > 40:
		return "⚠️ Calidad moderada, la transcripción puede tener errores menores"
	default:
		return "❌ Calidad baja, se recomienda grabar en un ambiente más silencioso"
	}
}
