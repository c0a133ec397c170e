package gateway

import (
	"context"
	"fmt"
)

// Stub is a no-op gateway for development: every initialize hands back a fake
// hosted page and every verify reports success.
type Stub struct{}

func (Stub) Name() string { return "stub" }

func (Stub) Initialize(ctx context.Context, req InitRequest) (*InitResponse, error) {
	return &InitResponse{
		AuthorizationURL: fmt.Sprintf("https://pay.example.test/checkout/%s", req.Reference),
	}, nil
}

func (Stub) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	if reference == "" {
		return &VerifyResult{Outcome: OutcomeFailed}, nil
	}
	return &VerifyResult{Outcome: OutcomeSucceeded}, nil
}
