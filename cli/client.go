package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// ApiClient talks to the Atithi assistant API.
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewApiClient creates a new API client
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("ATITHI_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &ApiClient{
		httpClient: &http.Client{
			// The remote model path may take a while on a cold turn.
			Timeout: time.Second * 45,
		},
		BaseURL: baseURL,
	}
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}

	return true, nil
}

// ChatRequest is one chat turn sent to the API.
type ChatRequest struct {
	Message    string `json:"message"`
	SessionID  string `json:"sessionId,omitempty"`
	UserLocale string `json:"userLocale,omitempty"`
}

// CartItem is one accumulated order line in a reply.
type CartItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// RecommendedDish is a dish card included in a reply.
type RecommendedDish struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Rating float64 `json:"rating"`
}

// CheckoutArtifacts are the hand-off payloads for a confirmed order.
type CheckoutArtifacts struct {
	OrderID      uint    `json:"orderId"`
	Total        float64 `json:"total"`
	WhatsAppLink string  `json:"whatsappLink"`
}

// ChatResponse is the assistant's structured reply.
type ChatResponse struct {
	Response          string             `json:"response"`
	SuggestedDish     string             `json:"suggestedDish,omitempty"`
	SuggestedItems    []string           `json:"suggestedItems,omitempty"`
	RecommendedDishes []RecommendedDish  `json:"recommendedDishes,omitempty"`
	ActionType        string             `json:"actionType"`
	CartItems         []CartItem         `json:"cartItems,omitempty"`
	TotalPrice        float64            `json:"totalPrice,omitempty"`
	SessionID         string             `json:"sessionId"`
	Source            string             `json:"source"`
	SessionState      string             `json:"sessionState"`
	UnmatchedItems    []string           `json:"unmatchedItems,omitempty"`
	Checkout          *CheckoutArtifacts `json:"checkout,omitempty"`
}

// Chat sends one message and returns the assistant's reply.
func (c *ApiClient) Chat(message, sessionID, locale string) (*ChatResponse, error) {
	data, err := json.Marshal(ChatRequest{Message: message, SessionID: sessionID, UserLocale: locale})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", c.BaseURL+"/api/v1/chat", bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat request failed with status code: %d", resp.StatusCode)
	}

	var reply ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, err
	}

	return &reply, nil
}

// ResetSession clears the server-side session.
func (c *ApiClient) ResetSession(sessionID string) error {
	req, err := http.NewRequest("POST", fmt.Sprintf("%s/api/v1/sessions/%s/reset", c.BaseURL, sessionID), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}
