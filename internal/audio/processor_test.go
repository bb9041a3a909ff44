package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"
)

func TestFilterChainThresholds(t *testing.T) {
	tests := []struct {
		name     string
		report   model.QualityReport
		contains []string
		excludes []string
	}{
		{
			name:     "noisy quiet recording",
			report:   model.QualityReport{NoiseLevel: 70, Clarity: 30, Volume: 0.2},
			contains: []string{"highpass=f=80", "lowpass=f=6000", "volume=2.5", "afftdn=nr=20:nf=-20"},
		},
		{
			name:     "clean loud recording",
			report:   model.QualityReport{NoiseLevel: 20, Clarity: 85, Volume: 0.8},
			contains: []string{"highpass=f=60", "lowpass=f=8000", "volume=1.2"},
			excludes: []string{"afftdn=nr=20:nf=-20", "highshelf=g=-3:f=6000"},
		},
		{
			name:     "middling recording",
			report:   model.QualityReport{NoiseLevel: 45, Clarity: 60, Volume: 0.5},
			contains: []string{"highpass=f=60", "lowpass=f=6000", "volume=1.8", "afftdn=nr=20:nf=-20"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := FilterChain(tt.report)
			for _, f := range tt.contains {
				assert.Contains(t, chain, f)
			}
			for _, f := range tt.excludes {
				assert.NotContains(t, chain, f)
			}
			// Corrective stages always present, in fixed trailing order
			require.GreaterOrEqual(t, len(chain), 3)
			assert.Equal(t, "deesser", chain[len(chain)-2])
		})
	}
}

func TestFilterChainDeterministic(t *testing.T) {
	report := model.QualityReport{NoiseLevel: 55, Clarity: 72, Volume: 0.4}
	assert.Equal(t, FilterChain(report), FilterChain(report))
}

func TestRecommendationBands(t *testing.T) {
	assert.Contains(t, Recommendation(model.QualityReport{Clarity: 90}), "Excelente")
	assert.Contains(t, Recommendation(model.QualityReport{Clarity: 70}), "Buena")
	assert.Contains(t, Recommendation(model.QualityReport{Clarity: 50}), "moderada")
	assert.Contains(t, Recommendation(model.QualityReport{Clarity: 20}), "baja")
}

func TestParseMeanVolume(t *testing.T) {
	stderr := `[Parsed_volumedetect_0 @ 0x7f8] n_samples: 80000
[Parsed_volumedetect_0 @ 0x7f8] mean_volume: -23.4 dB
[Parsed_volumedetect_0 @ 0x7f8] max_volume: -5.0 dB`

	mean, ok := parseMeanVolume(stderr)
	require.True(t, ok)
	assert.InDelta(t, -23.4, mean, 0.001)

	_, ok = parseMeanVolume("no volume info here")
	assert.False(t, ok)
}

// fakeRunner scripts ffmpeg invocations. Output files named by the last
// argument are created so the read-back step finds them.
type fakeRunner struct {
	failFilter bool
	failTrim   bool
	calls      int
}

func (f *fakeRunner) run(_ context.Context, _ string, args ...string) (string, error) {
	f.calls++
	isTrim := false
	for _, a := range args {
		if a == silenceRemoveFilter {
			isTrim = true
		}
	}
	if isTrim && f.failTrim {
		return "", errors.New("trim failed")
	}
	if !isTrim && f.failFilter {
		return "", errors.New("filter failed")
	}

	out := args[len(args)-1]
	if out == "-" {
		// volumedetect probe run
		return "mean_volume: -18.0 dB", nil
	}
	return "", os.WriteFile(out, []byte("processed:"+out), 0o600)
}

func newTestProcessor(t *testing.T, run runner) *Processor {
	t.Helper()
	p := NewProcessor("ffmpeg", "/nonexistent/ffprobe", t.TempDir())
	p.run = run
	return p
}

func TestEnhanceDegradesOnFilterFailure(t *testing.T) {
	raw := []byte("original audio bytes")
	p := newTestProcessor(t, &fakeRunner{failFilter: true})

	out, report, err := p.Enhance(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, raw, out)

	// Probe is unavailable, so the report is the neutral default
	def := model.DefaultQualityReport()
	assert.Equal(t, def.NoiseLevel, report.NoiseLevel)
	assert.Equal(t, def.Clarity, report.Clarity)
	assert.NotEmpty(t, report.Recommendation)
}

func TestEnhanceKeepsFilteredAudioWhenTrimFails(t *testing.T) {
	p := newTestProcessor(t, &fakeRunner{failTrim: true})

	out, report, err := p.Enhance(context.Background(), []byte("original"))
	require.NoError(t, err)
	assert.True(t, len(out) > 0)
	assert.Contains(t, string(out), "filtered_")
	assert.NotEmpty(t, report.Recommendation)
}

func TestEnhanceReturnsTrimmedAudio(t *testing.T) {
	p := newTestProcessor(t, &fakeRunner{})

	out, report, err := p.Enhance(context.Background(), []byte("original"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "trimmed_")
	assert.NotEmpty(t, report.Recommendation)
}

func TestEnhanceCleansUpTempFiles(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor("ffmpeg", "/nonexistent/ffprobe", dir)
	p.run = &fakeRunner{}

	_, _, err := p.Enhance(context.Background(), []byte("original"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, fmt.Sprintf("temp files left behind: %v", entries))
}
