package gateway

import "context"

// Outcome is the normalized result of a verification call.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomePending   Outcome = "pending"
	OutcomeFailed    Outcome = "failed"
)

type InitRequest struct {
	AmountCents int64
	Currency    string
	Reference   string // our correlation id, unique per tenant
	Email       string
	Name        string
	CallbackURL string
	Description string
}

type InitResponse struct {
	AuthorizationURL string
	ProviderRef      string // processor-side id when distinct from Reference (e.g. Stripe session id)
}

type VerifyResult struct {
	Outcome         Outcome
	AmountPaidCents int64
	Currency        string
}

// Gateway is the uniform capability every payment processor implements.
// Verify must be idempotent: it queries the processor by reference and never
// creates charges, so repeated calls return the same outcome.
type Gateway interface {
	Name() string
	Initialize(ctx context.Context, req InitRequest) (*InitResponse, error)
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
}

// Registry holds the gateways configured at startup. Callers select by name;
// nothing outside this package branches on processor identity.
type Registry struct {
	gateways map[string]Gateway
}

func NewRegistry(gws ...Gateway) *Registry {
	r := &Registry{gateways: make(map[string]Gateway, len(gws))}
	for _, g := range gws {
		r.gateways[g.Name()] = g
	}
	return r
}

func (r *Registry) Get(name string) (Gateway, bool) {
	g, ok := r.gateways[name]
	return g, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.gateways))
	for n := range r.gateways {
		names = append(names, n)
	}
	return names
}
