package checkout

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	orderNumberPrefix = "ISQ"
	orderSuffixLen    = 4
	base36Alphabet    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// OrderNumberGenerator renders ISQ-<base36 ms>-<4 random base36>. Numbers are
// not checked for collisions.
type OrderNumberGenerator struct {
	now    func() time.Time
	random func(n int) (int, error)
}

func NewOrderNumberGenerator() *OrderNumberGenerator {
	return &OrderNumberGenerator{now: time.Now, random: cryptoIntn}
}

func (g *OrderNumberGenerator) Next() (string, error) {
	stamp := strings.ToUpper(strconv.FormatInt(g.now().UnixMilli(), 36))
	var suffix strings.Builder
	for i := 0; i < orderSuffixLen; i++ {
		idx, err := g.random(len(base36Alphabet))
		if err != nil {
			return "", err
		}
		suffix.WriteByte(base36Alphabet[idx])
	}
	return orderNumberPrefix + "-" + stamp + "-" + suffix.String(), nil
}

func cryptoIntn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
