package api

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRequest_Validate(t *testing.T) {
	t.Parallel()

	cpus := func(n int) *int { return &n }
	price := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}

	tests := []struct {
		name    string
		req     Request
		wantErr string
	}{
		{
			name: "min CPUs only",
			req:  Request{Hours: 1, MinCPUs: cpus(10)},
		},
		{
			name: "max price only",
			req:  Request{Hours: 24, MaxPrice: price("100.5")},
		},
		{
			name: "both",
			req:  Request{Hours: 2, MinCPUs: cpus(0), MaxPrice: price("0")},
		},
		{
			name:    "no requirement",
			req:     Request{Hours: 1},
			wantErr: ErrNoRequirement.Error(),
		},
		{
			name:    "zero hours",
			req:     Request{MinCPUs: cpus(1)},
			wantErr: "invalid hours: 0, must be positive",
		},
		{
			name:    "negative CPUs",
			req:     Request{Hours: 1, MinCPUs: cpus(-1)},
			wantErr: "invalid minimum CPUs: -1, must not be negative",
		},
		{
			name:    "negative price",
			req:     Request{Hours: 1, MaxPrice: price("-0.01")},
			wantErr: "invalid maximum price: -0.01, must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestRequest_String(t *testing.T) {
	t.Parallel()

	n := 8
	p := decimal.RequireFromString("12.5")
	assert.Equal(t, "hours=3 min_cpus=8 max_price=12.5", Request{Hours: 3, MinCPUs: &n, MaxPrice: &p}.String())
	assert.Equal(t, "hours=1", Request{Hours: 1}.String())
}

func TestOffer(t *testing.T) {
	t.Parallel()

	o := Offer{Size: Size2XLarge, HourlyCost: decimal.RequireFromString("0.45"), Region: "us-east"}
	assert.True(t, decimal.RequireFromString("0.1125").Equal(o.CostPerCPU()))
	assert.True(t, decimal.RequireFromString("2.7").Equal(o.Cost(3, 2)))
	assert.NoError(t, o.Validate())
	assert.Equal(t, "us-east/2xlarge@0.45", o.String())

	o.HourlyCost = decimal.RequireFromString("-1")
	assert.ErrorContains(t, o.Validate(), "negative hourly cost")

	o = Offer{Size: SizeLarge}
	assert.ErrorContains(t, o.Validate(), "empty region")
}
