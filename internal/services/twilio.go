package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Kallolx/appointment-backend/internal/config"
)

type TwilioService struct {
	client       *twilio.RestClient
	whatsappFrom string // "whatsapp:+14155238886"
	smsFrom      string
}

// NewTwilioService creates a new Twilio service instance.
func NewTwilioService(cfg config.TwilioConfig) (*TwilioService, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.WhatsAppFrom == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &TwilioService{
		client:       client,
		whatsappFrom: cfg.WhatsAppFrom,
		smsFrom:      cfg.SMSFrom,
	}, nil
}

// SendWhatsAppTemplate sends a WhatsApp content template via Twilio and
// returns the message SID.
func (t *TwilioService) SendWhatsAppTemplate(to string, templateSID string, variables map[string]string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.whatsappFrom)
	params.SetTo(fmt.Sprintf("whatsapp:%s", to))
	params.SetContentSid(templateSID)

	if len(variables) > 0 {
		variablesJSON, err := json.Marshal(variables)
		if err != nil {
			return "", fmt.Errorf("failed to marshal content variables: %w", err)
		}
		params.SetContentVariables(string(variablesJSON))
	}

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send WhatsApp template: %v", err)
		return "", err
	}
	if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
		return "", fmt.Errorf("twilio error %d: %s", *resp.ErrorCode, *resp.ErrorMessage)
	}

	log.Printf("✅ WhatsApp template sent! SID: %s, Template: %s", *resp.Sid, templateSID)
	return *resp.Sid, nil
}

// SendSMS sends a plain text SMS via Twilio and returns the message SID.
func (t *TwilioService) SendSMS(to string, body string) (string, error) {
	if t.smsFrom == "" {
		return "", fmt.Errorf("no SMS sender number configured")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.smsFrom)
	params.SetTo(to)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send SMS: %v", err)
		return "", err
	}
	if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
		return "", fmt.Errorf("twilio error %d: %s", *resp.ErrorCode, *resp.ErrorMessage)
	}

	log.Printf("✅ SMS sent! SID: %s", *resp.Sid)
	return *resp.Sid, nil
}

// SendWhatsAppMessage sends a free-form WhatsApp message (used by the
// reminder job, which runs inside the 24h session window).
func (t *TwilioService) SendWhatsAppMessage(to string, message string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.whatsappFrom)
	params.SetTo(fmt.Sprintf("whatsapp:%s", to))
	params.SetBody(message)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send WhatsApp message: %v", err)
		return "", err
	}

	log.Printf("✅ WhatsApp message sent! SID: %s", *resp.Sid)
	return *resp.Sid, nil
}
