package workflow

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"sync"
	"time"
)

const qrSuffixCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const qrSuffixLength = 9

// QRNumberPattern matches identifiers produced by QRGenerator.
var QRNumberPattern = regexp.MustCompile(`^QR-\d+-[0-9A-Z]{9}$`)

// QRGenerator produces QR identifiers of the form QR-<millis>-<suffix>.
// The millisecond part never repeats or goes backwards within one
// generator; the suffix is random. It is a convenience identifier, not a
// secret.
type QRGenerator struct {
	Now func() time.Time

	mu   sync.Mutex
	last int64
}

// NewQRGenerator returns a generator using the wall clock.
func NewQRGenerator() *QRGenerator {
	return &QRGenerator{Now: time.Now}
}

// Next returns a new QR identifier.
func (g *QRGenerator) Next() (string, error) {
	suffix, err := randomSuffix(qrSuffixLength)
	if err != nil {
		return "", fmt.Errorf("generating qr suffix: %w", err)
	}

	g.mu.Lock()
	ms := g.Now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	g.mu.Unlock()

	return fmt.Sprintf("QR-%d-%s", ms, suffix), nil
}

func randomSuffix(length int) (string, error) {
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(qrSuffixCharset))))
		if err != nil {
			return "", err
		}
		result[i] = qrSuffixCharset[n.Int64()]
	}
	return string(result), nil
}
