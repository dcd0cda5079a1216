package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PaymentIntent mirrors the gateway's payment-intent resource. Amounts are
// in minor currency units (fils).
type PaymentIntent struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency_code"`
	RedirectURL string `json:"redirect_url"`
}

// Gateway is the payment provider contract, abstracted for tests.
type Gateway interface {
	CreateIntent(amountMinor int64, currency, successURL, cancelURL string) (*PaymentIntent, error)
	GetIntent(id string) (*PaymentIntent, error)
}

// GatewayClient talks to the hosted payment gateway over its REST API with a
// bearer API key.
type GatewayClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewGatewayClient(baseURL, apiKey string) *GatewayClient {
	return &GatewayClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

func (g *GatewayClient) CreateIntent(amountMinor int64, currency, successURL, cancelURL string) (*PaymentIntent, error) {
	payload := map[string]interface{}{
		"amount":        amountMinor,
		"currency_code": currency,
		"success_url":   successURL,
		"cancel_url":    cancelURL,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, g.baseURL+"/payment_intent", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return g.do(req)
}

func (g *GatewayClient) GetIntent(id string) (*PaymentIntent, error) {
	req, err := http.NewRequest(http.MethodGet, g.baseURL+"/payment_intent/"+id, nil)
	if err != nil {
		return nil, err
	}
	return g.do(req)
}

func (g *GatewayClient) do(req *http.Request) (*PaymentIntent, error) {
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("payment gateway returned %d", resp.StatusCode)
	}

	var intent PaymentIntent
	if err := json.Unmarshal(data, &intent); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return &intent, nil
}
