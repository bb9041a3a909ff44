package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/config"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"
)

func newWhatsAppService() *WhatsAppService {
	return NewWhatsAppService(config.WhatsAppConfig{
		APIToken:      "token",
		PhoneNumberID: "12345",
		BaseURL:       "https://graph.example.com/v20.0",
	})
}

func TestTextPayload(t *testing.T) {
	s := newWhatsAppService()

	payload := s.textPayload("573001112233", model.TextMessage("hola"))
	assert.Equal(t, "whatsapp", payload["messaging_product"])
	assert.Equal(t, "573001112233", payload["to"])
	assert.Equal(t, "text", payload["type"])
	assert.Equal(t, map[string]string{"body": "hola"}, payload["text"])
}

func TestButtonsPayloadTruncatesTitles(t *testing.T) {
	s := newWhatsAppService()

	long := "Esta opción supera el límite de botón"
	payload := s.buttonsPayload("1", model.ButtonsMessage("body", []string{long, "No"}))

	interactive := payload["interactive"].(map[string]interface{})
	assert.Equal(t, "button", interactive["type"])
	buttons := interactive["action"].(map[string]interface{})["buttons"].([]map[string]interface{})
	require.Len(t, buttons, 2)

	title := buttons[0]["reply"].(map[string]string)["title"]
	assert.Equal(t, buttonTitleLimit, len([]rune(title)))
	assert.Equal(t, "btn_1", buttons[0]["reply"].(map[string]string)["id"])
}

func TestButtonsPayloadCapsAtThree(t *testing.T) {
	s := newWhatsAppService()

	payload := s.buttonsPayload("1", model.ButtonsMessage("body", []string{"a", "b", "c", "d"}))
	interactive := payload["interactive"].(map[string]interface{})
	buttons := interactive["action"].(map[string]interface{})["buttons"].([]map[string]interface{})
	assert.Len(t, buttons, maxButtons)
}

func TestListPayloadRowsAndHeader(t *testing.T) {
	s := newWhatsAppService()

	opts := []string{"1 - Nada", "2 - Poco", "3 - Moderado", "4 - Muy", "5 - Extremo"}
	payload := s.listPayload("1", model.ListMessage("Encuesta", "body", opts))

	interactive := payload["interactive"].(map[string]interface{})
	assert.Equal(t, "list", interactive["type"])
	assert.Equal(t, map[string]string{"type": "text", "text": "Encuesta"}, interactive["header"])

	sections := interactive["action"].(map[string]interface{})["sections"].([]map[string]interface{})
	require.Len(t, sections, 1)
	rows := sections[0]["rows"].([]map[string]string)
	require.Len(t, rows, 5)
	assert.Equal(t, "option_1", rows[0]["id"])
	assert.Equal(t, "1 - Nada", rows[0]["title"])
}

func TestListPayloadCapsAtTenRows(t *testing.T) {
	s := newWhatsAppService()

	opts := make([]string, 12)
	for i := range opts {
		opts[i] = "opción"
	}
	payload := s.listPayload("1", model.ListMessage("", "body", opts))

	interactive := payload["interactive"].(map[string]interface{})
	sections := interactive["action"].(map[string]interface{})["sections"].([]map[string]interface{})
	rows := sections[0]["rows"].([]map[string]string)
	assert.Len(t, rows, maxListRows)
}

func TestLogDelivererAcceptsAllMessageTypes(t *testing.T) {
	d := LogDeliverer{}
	ctx := context.Background()

	assert.NoError(t, d.Send(ctx, "573001112233", model.TextMessage("hola")))
	assert.NoError(t, d.Send(ctx, "573001112233", model.ButtonsMessage("body", []string{"Sí", "No"})))
	assert.NoError(t, d.Send(ctx, "573001112233", model.ListMessage("Encuesta", "body", []string{"1 - Nada"})))
}

func TestTruncateIsRuneSafe(t *testing.T) {
	assert.Equal(t, "señal", truncate("señal", 10))
	assert.Equal(t, "señ", truncate("señales", 3))
	assert.Equal(t, "", truncate("abc", 0))
}
