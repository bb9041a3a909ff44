// Package audio enhances compressed voice notes before transcription:
// probe quality, pick a deterministic filter chain from the probe, trim
// silence, and report the final quality. The transcode engine is the
// ffmpeg/ffprobe pair invoked as external commands.
package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"
)

// runner abstracts command execution so tests can fake ffmpeg.
type runner interface {
	// run executes the command and returns its combined stderr output.
	run(ctx context.Context, name string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}

// Processor runs the enhancement pipeline on raw audio bytes.
type Processor struct {
	ffmpeg  string
	ffprobe string
	tmpDir  string
	run     runner
}

// NewProcessor creates a processor writing temp files under tmpDir.
func NewProcessor(ffmpegPath, ffprobePath, tmpDir string) *Processor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return &Processor{ffmpeg: ffmpegPath, ffprobe: ffprobePath, tmpDir: tmpDir, run: execRunner{}}
}

// Enhance filters and trims a voice note and returns 16 kHz mono PCM wav
// bytes plus the final quality report. Every stage degrades instead of
// failing: a broken filter run hands back the pre-filter audio, a broken
// probe substitutes default metrics.
func (p *Processor) Enhance(ctx context.Context, raw []byte) ([]byte, model.QualityReport, error) {
	id := uuid.New().String()
	inPath := filepath.Join(p.tmpDir, "in_"+id+".ogg")
	filteredPath := filepath.Join(p.tmpDir, "filtered_"+id+".wav")
	trimmedPath := filepath.Join(p.tmpDir, "trimmed_"+id+".wav")
	defer func() {
		for _, f := range []string{inPath, filteredPath, trimmedPath} {
			os.Remove(f)
		}
	}()

	if err := os.WriteFile(inPath, raw, 0o600); err != nil {
		return nil, model.DefaultQualityReport(), fmt.Errorf("write temp audio: %w", err)
	}

	initial := p.probe(ctx, inPath)
	log.Printf("[AUDIO] initial quality: noise=%.1f clarity=%.1f vol=%.2f dur=%.1fs",
		initial.NoiseLevel, initial.Clarity, initial.Volume, initial.Duration)

	chain := FilterChain(initial)
	args := []string{
		"-y", "-i", inPath,
		"-af", strings.Join(chain, ","),
		"-acodec", "pcm_s16le", "-ac", "1", "-ar", "16000",
		filteredPath,
	}
	if _, err := p.run.run(ctx, p.ffmpeg, args...); err != nil {
		log.Printf("[AUDIO] filter stage failed, keeping original: %v", err)
		initial.Recommendation = Recommendation(initial)
		return raw, initial, nil
	}

	// Silence trim is best-effort too
	outPath := filteredPath
	trimArgs := []string{"-y", "-i", filteredPath, "-af", silenceRemoveFilter, trimmedPath}
	if _, err := p.run.run(ctx, p.ffmpeg, trimArgs...); err != nil {
		log.Printf("[AUDIO] silence trim failed, keeping filtered audio: %v", err)
	} else {
		outPath = trimmedPath
	}

	final := p.probe(ctx, outPath)
	final.Recommendation = Recommendation(final)

	enhanced, err := os.ReadFile(outPath)
	if err != nil {
		return nil, final, fmt.Errorf("read enhanced audio: %w", err)
	}
	return enhanced, final, nil
}

// probe measures duration, sample rate and an amplitude proxy. It never
// fails; broken decodes fall back to default metrics.
func (p *Processor) probe(ctx context.Context, path string) model.QualityReport {
	q := model.DefaultQualityReport()

	duration, sampleRate, err := p.probeStream(ctx, path)
	if err != nil {
		log.Printf("[AUDIO] probe failed, using defaults: %v", err)
		return q
	}
	q.Duration = duration
	q.SampleRate = sampleRate

	meanDB, err := p.probeVolume(ctx, path)
	if err != nil {
		log.Printf("[AUDIO] volumedetect failed, using defaults: %v", err)
		return q
	}

	// Normalize the dB loudness onto 0-1 against a 60 dB dynamic range.
	q.Volume = math.Min(math.Abs(meanDB)/60.0, 1.0)
	q.NoiseLevel = math.Max(0, 100-q.Volume*100)
	bonus := 0.0
	if q.Duration > 1 {
		bonus = 20
	}
	q.Clarity = math.Min(100, q.Volume*80+bonus)
	return q
}

func (p *Processor) probeStream(ctx context.Context, path string) (float64, int, error) {
	cmd := exec.CommandContext(ctx, p.ffprobe,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=duration,sample_rate",
		"-of", "json",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, 0, err
	}

	var probed struct {
		Streams []struct {
			Duration   string `json:"duration"`
			SampleRate string `json:"sample_rate"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(out, &probed); err != nil {
		return 0, 0, err
	}
	if len(probed.Streams) == 0 {
		return 0, 0, fmt.Errorf("no audio stream in %s", filepath.Base(path))
	}

	duration, _ := strconv.ParseFloat(probed.Streams[0].Duration, 64)
	sampleRate, _ := strconv.Atoi(probed.Streams[0].SampleRate)
	if sampleRate == 0 {
		sampleRate = 16000
	}
	return duration, sampleRate, nil
}

func (p *Processor) probeVolume(ctx context.Context, path string) (float64, error) {
	stderr, err := p.run.run(ctx, p.ffmpeg,
		"-i", path, "-af", "volumedetect", "-f", "null", "-")
	if err != nil {
		return 0, err
	}
	mean, ok := parseMeanVolume(stderr)
	if !ok {
		return 0, fmt.Errorf("no mean_volume in volumedetect output")
	}
	return mean, nil
}

var meanVolumeRe = regexp.MustCompile(`mean_volume:\s*(-?[0-9.]+)\s*dB`)

// parseMeanVolume extracts the mean loudness in dB from ffmpeg
// volumedetect stderr output.
func parseMeanVolume(stderr string) (float64, bool) {
	m := meanVolumeRe.FindStringSubmatch(stderr)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
