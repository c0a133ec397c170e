package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Paystack implements the hosted-checkout flow via the Paystack REST API.
// Amounts are sent in subunits (kobo for NGN), which matches our cents.
type Paystack struct {
	BaseURL   string
	SecretKey string
	client    *http.Client
}

func NewPaystack(baseURL, secretKey string) *Paystack {
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	return &Paystack{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *Paystack) Name() string { return "paystack" }

type paystackInitReq struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency,omitempty"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type paystackInitResp struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

func (p *Paystack) Initialize(ctx context.Context, req InitRequest) (*InitResponse, error) {
	payload := paystackInitReq{
		Email:       req.Email,
		Amount:      req.AmountCents,
		Currency:    req.Currency,
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
	}
	body, _ := json.Marshal(payload)
	apiReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	apiReq.Header.Set("Content-Type", "application/json")
	apiReq.Header.Set("Authorization", "Bearer "+p.SecretKey)
	resp, err := p.client.Do(apiReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("[PAYSTACK] initialize ref=%s status=%d body=%s", req.Reference, resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("paystack initialize: %d", resp.StatusCode)
	}
	var out paystackInitResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	if !out.Status || out.Data.AuthorizationURL == "" {
		return nil, fmt.Errorf("paystack initialize: %s", out.Message)
	}
	return &InitResponse{AuthorizationURL: out.Data.AuthorizationURL}, nil
}

type paystackVerifyResp struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status   string `json:"status"` // success, failed, abandoned, ongoing, pending
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	} `json:"data"`
}

func (p *Paystack) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	apiReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}
	apiReq.Header.Set("Authorization", "Bearer "+p.SecretKey)
	resp, err := p.client.Do(apiReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	// 404 means Paystack has not seen the reference yet (guest never reached
	// the payment page); treat as still pending rather than an error.
	if resp.StatusCode == http.StatusNotFound {
		return &VerifyResult{Outcome: OutcomePending}, nil
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("[PAYSTACK] verify ref=%s status=%d body=%s", reference, resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("paystack verify: %d", resp.StatusCode)
	}
	var out paystackVerifyResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	result := &VerifyResult{
		AmountPaidCents: out.Data.Amount,
		Currency:        out.Data.Currency,
	}
	switch out.Data.Status {
	case "success":
		result.Outcome = OutcomeSucceeded
	case "failed", "reversed":
		result.Outcome = OutcomeFailed
	default: // abandoned, ongoing, pending, queued
		result.Outcome = OutcomePending
	}
	return result, nil
}
