package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Flutterwave implements the hosted-payment-page flow via the Flutterwave v3 API.
// Flutterwave deals in major currency units, so cents are converted both ways.
type Flutterwave struct {
	BaseURL   string
	SecretKey string
	client    *http.Client
}

func NewFlutterwave(baseURL, secretKey string) *Flutterwave {
	if baseURL == "" {
		baseURL = "https://api.flutterwave.com"
	}
	return &Flutterwave{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (f *Flutterwave) Name() string { return "flutterwave" }

type flwCustomer struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type flwInitReq struct {
	TxRef       string      `json:"tx_ref"`
	Amount      string      `json:"amount"`
	Currency    string      `json:"currency"`
	RedirectURL string      `json:"redirect_url"`
	Customer    flwCustomer `json:"customer"`
	Customizations struct {
		Title       string `json:"title,omitempty"`
		Description string `json:"description,omitempty"`
	} `json:"customizations"`
}

type flwInitResp struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Link string `json:"link"`
	} `json:"data"`
}

func (f *Flutterwave) Initialize(ctx context.Context, req InitRequest) (*InitResponse, error) {
	payload := flwInitReq{
		TxRef:       req.Reference,
		Amount:      centsToMajor(req.AmountCents),
		Currency:    req.Currency,
		RedirectURL: req.CallbackURL,
		Customer:    flwCustomer{Email: req.Email, Name: req.Name},
	}
	payload.Customizations.Description = req.Description
	body, _ := json.Marshal(payload)
	apiReq, err := http.NewRequestWithContext(ctx, http.MethodPost, f.BaseURL+"/v3/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	apiReq.Header.Set("Content-Type", "application/json")
	apiReq.Header.Set("Authorization", "Bearer "+f.SecretKey)
	resp, err := f.client.Do(apiReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("[FLW] initialize tx_ref=%s status=%d body=%s", req.Reference, resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("flutterwave initialize: %d", resp.StatusCode)
	}
	var out flwInitResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	if out.Status != "success" || out.Data.Link == "" {
		return nil, fmt.Errorf("flutterwave initialize: %s", out.Message)
	}
	return &InitResponse{AuthorizationURL: out.Data.Link}, nil
}

type flwVerifyResp struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status   string  `json:"status"` // successful, failed, pending
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	} `json:"data"`
}

func (f *Flutterwave) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	endpoint := f.BaseURL + "/v3/transactions/verify_by_reference?tx_ref=" + url.QueryEscape(reference)
	apiReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	apiReq.Header.Set("Authorization", "Bearer "+f.SecretKey)
	resp, err := f.client.Do(apiReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	// No transaction for the reference yet: the guest has not completed the
	// hosted page, so the payment is still pending from our point of view.
	if resp.StatusCode == http.StatusNotFound {
		return &VerifyResult{Outcome: OutcomePending}, nil
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("[FLW] verify tx_ref=%s status=%d body=%s", reference, resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("flutterwave verify: %d", resp.StatusCode)
	}
	var out flwVerifyResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	result := &VerifyResult{
		AmountPaidCents: int64(math.Round(out.Data.Amount * 100)),
		Currency:        out.Data.Currency,
	}
	switch out.Data.Status {
	case "successful":
		result.Outcome = OutcomeSucceeded
	case "failed":
		result.Outcome = OutcomeFailed
	default:
		result.Outcome = OutcomePending
	}
	return result, nil
}

func centsToMajor(cents int64) string {
	whole := cents / 100
	frac := cents % 100
	if frac == 0 {
		return strconv.FormatInt(whole, 10)
	}
	return fmt.Sprintf("%d.%02d", whole, frac)
}
