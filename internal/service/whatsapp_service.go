package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/config"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"
)

// Platform rendering limits. The engine hands over full option labels;
// the adapter truncates to what WhatsApp accepts.
const (
	maxButtons        = 3
	maxListRows       = 10
	buttonTitleLimit  = 20
	listRowTitleLimit = 24
)

// WhatsAppService renders outbound messages as Graph API payloads.
type WhatsAppService struct {
	config config.WhatsAppConfig
	client *http.Client
}

// NewWhatsAppService creates the delivery adapter.
func NewWhatsAppService(cfg config.WhatsAppConfig) *WhatsAppService {
	return &WhatsAppService{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Send posts one outbound message to the respondent's number.
func (s *WhatsAppService) Send(ctx context.Context, to string, msg model.OutboundMessage) error {
	var payload map[string]interface{}
	switch msg.Type {
	case model.MessageText:
		payload = s.textPayload(to, msg)
	case model.MessageButtons:
		payload = s.buttonsPayload(to, msg)
	case model.MessageList:
		payload = s.listPayload(to, msg)
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.MessagesURL(), bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("whatsapp send: status %d", resp.StatusCode)
	}
	return nil
}

func (s *WhatsAppService) textPayload(to string, msg model.OutboundMessage) map[string]interface{} {
	return map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": msg.Body},
	}
}

func (s *WhatsAppService) buttonsPayload(to string, msg model.OutboundMessage) map[string]interface{} {
	options := msg.Options
	if len(options) > maxButtons {
		options = options[:maxButtons]
	}
	buttons := make([]map[string]interface{}, 0, len(options))
	for i, label := range options {
		buttons = append(buttons, map[string]interface{}{
			"type": "reply",
			"reply": map[string]string{
				"id":    fmt.Sprintf("btn_%d", i+1),
				"title": truncate(label, buttonTitleLimit),
			},
		})
	}

	return map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "interactive",
		"interactive": map[string]interface{}{
			"type": "button",
			"body": map[string]string{"text": msg.Body},
			"action": map[string]interface{}{
				"buttons": buttons,
			},
		},
	}
}

func (s *WhatsAppService) listPayload(to string, msg model.OutboundMessage) map[string]interface{} {
	options := msg.Options
	if len(options) > maxListRows {
		options = options[:maxListRows]
	}
	rows := make([]map[string]string, 0, len(options))
	for i, label := range options {
		rows = append(rows, map[string]string{
			"id":          fmt.Sprintf("option_%d", i+1),
			"title":       truncate(label, listRowTitleLimit),
			"description": "",
		})
	}

	header := msg.Header
	if header == "" {
		header = "Encuesta"
	}

	return map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "interactive",
		"interactive": map[string]interface{}{
			"type":   "list",
			"header": map[string]string{"type": "text", "text": header},
			"body":   map[string]string{"text": msg.Body},
			"action": map[string]interface{}{
				"button": "Ver opciones",
				"sections": []map[string]interface{}{
					{
						"title": "Seleccione una opción",
						"rows":  rows,
					},
				},
			},
		},
	}
}

// LogDeliverer logs outbound messages instead of posting them, used when
// WhatsApp credentials are not configured (local runs, CI).
type LogDeliverer struct{}

// Send logs the message and reports success.
func (LogDeliverer) Send(_ context.Context, to string, msg model.OutboundMessage) error {
	log.Printf("[SEND] dry run to %s type=%s body=%q options=%v", to, msg.Type, msg.Body, msg.Options)
	return nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
