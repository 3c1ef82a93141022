package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/sb-price-watch/pkg/types"
)

func TestServerPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		price   float64
		monthly float64
		want    float64
	}{
		{name: "base plus ip surcharge", price: 100, monthly: 10, want: 130.9},
		{name: "no ip surcharge", price: 100, monthly: 0, want: 119},
		{name: "fractional feed price", price: 37.5, monthly: 1.7, want: 46.648},
		{name: "zero", price: 0, monthly: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := &domain.ServerRecord{
				Price:   tt.price,
				IPPrice: domain.IPPrice{Monthly: tt.monthly},
			}
			assert.Equal(t, tt.want, ServerPrice(rec))
		})
	}
}

func TestServerPrice_Deterministic(t *testing.T) {
	t.Parallel()

	rec := &domain.ServerRecord{Price: 43.7, IPPrice: domain.IPPrice{Monthly: 1.7}}
	first := ServerPrice(rec)
	for range 10 {
		assert.Equal(t, first, ServerPrice(rec))
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		price float64
		want  string
	}{
		{name: "one decimal padded", price: 130.9, want: "130.90€"},
		{name: "integer", price: 5, want: "5.00€"},
		{name: "zero", price: 0, want: "0.00€"},
		{name: "rounds to two decimals", price: 46.648, want: "46.65€"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Format(tt.price))
		})
	}
}

func TestFormatString(t *testing.T) {
	t.Parallel()

	got, err := FormatString("5")
	require.NoError(t, err)
	assert.Equal(t, "5.00€", got)

	got, err = FormatString("130.9")
	require.NoError(t, err)
	assert.Equal(t, "130.90€", got)

	_, err = FormatString("abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing price")
}

func TestFormat_ServerPrice(t *testing.T) {
	t.Parallel()

	rec := &domain.ServerRecord{Price: 100, IPPrice: domain.IPPrice{Monthly: 10}}
	assert.Equal(t, "130.90€", Format(ServerPrice(rec)))
}
