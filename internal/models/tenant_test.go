package models

import (
	"reflect"
	"testing"
)

func TestDepositCents(t *testing.T) {
	tests := []struct {
		name   string
		tenant Tenant
		total  int64
		want   int64
	}{
		{"percent policy", Tenant{DepositPercentBps: 2000}, 100000, 20000},
		{"flat wins over percent", Tenant{DepositPercentBps: 2000, DepositFlatCents: 15000}, 100000, 15000},
		{"flat capped at total", Tenant{DepositFlatCents: 150000}, 100000, 100000},
		{"no policy means full total", Tenant{}, 100000, 100000},
		{"percent rounds down", Tenant{DepositPercentBps: 3333}, 99999, 33329},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tenant.DepositCents(tt.total); got != tt.want {
				t.Errorf("DepositCents(%d) = %d, want %d", tt.total, got, tt.want)
			}
		})
	}
}

func TestGatewayList(t *testing.T) {
	tenant := Tenant{AllowedGateways: "paystack, stripe ,,flutterwave"}
	want := []string{"paystack", "stripe", "flutterwave"}
	if got := tenant.GatewayList(); !reflect.DeepEqual(got, want) {
		t.Errorf("GatewayList() = %v, want %v", got, want)
	}
	if (&Tenant{}).GatewayList() != nil {
		t.Error("empty CSV must yield nil")
	}
	if !tenant.GatewayAllowed("stripe") {
		t.Error("stripe should be allowed")
	}
	if tenant.GatewayAllowed("mpesa") {
		t.Error("mpesa should not be allowed")
	}
}
