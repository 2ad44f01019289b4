package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRGeneratorFormat(t *testing.T) {
	g := NewQRGenerator()
	qr, err := g.Next()
	require.NoError(t, err)
	assert.Regexp(t, QRNumberPattern, qr)
}

func TestQRGeneratorMonotonicUnderFrozenClock(t *testing.T) {
	frozen := time.UnixMilli(1_700_000_000_000)
	g := &QRGenerator{Now: func() time.Time { return frozen }}

	seen := make(map[string]bool)
	var prefixes []string
	for i := 0; i < 50; i++ {
		qr, err := g.Next()
		require.NoError(t, err)
		require.False(t, seen[qr], "duplicate %s", qr)
		seen[qr] = true
		prefixes = append(prefixes, qr[:len(qr)-qrSuffixLength])
	}

	assert.Equal(t, "QR-1700000000000-", prefixes[0])
	assert.Equal(t, "QR-1700000000049-", prefixes[49])
}

func TestQRGeneratorClockGoingBackwards(t *testing.T) {
	now := time.UnixMilli(2_000)
	g := &QRGenerator{Now: func() time.Time { return now }}

	first, err := g.Next()
	require.NoError(t, err)
	now = time.UnixMilli(1_000)
	second, err := g.Next()
	require.NoError(t, err)

	assert.Contains(t, first, "QR-2000-")
	assert.Contains(t, second, "QR-2001-")
}
