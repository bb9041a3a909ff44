package service

import (
	"context"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"
)

// Deliverer renders and sends an outbound message to a respondent. The
// concrete adapter owns platform limits like label truncation.
type Deliverer interface {
	Send(ctx context.Context, to string, msg model.OutboundMessage) error
}

// TextGenerator is the LLM boundary: prompt in, free text out.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AudioPipeline enhances a raw voice note and reports its quality.
type AudioPipeline interface {
	Enhance(ctx context.Context, raw []byte) ([]byte, model.QualityReport, error)
}
