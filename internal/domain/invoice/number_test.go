package invoice_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/domain/invoice"
)

func TestFormat(t *testing.T) {
	day := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "INV-20260307-0001", invoice.Format("INV", day, 1))
	assert.Equal(t, "INV-20260307-0042", invoice.Format("", day, 42))
	assert.Equal(t, "POS-20260307-12345", invoice.Format("POS", day, 12345))
}

func TestDay_UsaZonaDelNegocio(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	// 02:00 UTC del 8 de marzo sigue siendo 7 de marzo en Bogotá (UTC-5).
	ts := time.Date(2026, 3, 8, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "20260307", invoice.Day(ts, bogota).Format("20060102"))
	assert.Equal(t, "20260308", invoice.Day(ts, nil).Format("20060102"))
}

func TestParse_RoundTrip(t *testing.T) {
	n, err := invoice.Parse("MY-SHOP-20260307-0009")
	require.NoError(t, err)
	assert.Equal(t, "MY-SHOP", n.Prefix)
	assert.Equal(t, int64(9), n.Seq)
	assert.Equal(t, "MY-SHOP-20260307-0009", n.String())
}

func TestParse_Invalidos(t *testing.T) {
	for _, s := range []string{"", "INV", "INV-0001", "INV-2026-0001", "INV-20260307-1", "INV-20260307-abcd", "INV-20260307-0000"} {
		_, err := invoice.Parse(s)
		assert.Error(t, err, s)
	}
}
