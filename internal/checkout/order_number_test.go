package checkout

import (
	"errors"
	"regexp"
	"testing"
	"time"
)

func TestOrderNumberFormat(t *testing.T) {
	gen := NewOrderNumberGenerator()
	pattern := regexp.MustCompile(`^ISQ-[0-9A-Z]+-[0-9A-Z]{4}$`)
	for i := 0; i < 20; i++ {
		number, err := gen.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if !pattern.MatchString(number) {
			t.Fatalf("unexpected order number %q", number)
		}
	}
}

func TestOrderNumberDeterministicWithInjectedSources(t *testing.T) {
	calls := 0
	gen := &OrderNumberGenerator{
		now: func() time.Time { return time.UnixMilli(1700000000000) },
		random: func(n int) (int, error) {
			calls++
			return (calls * 11) % n, nil
		},
	}
	number, err := gen.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	// 1700000000000 in base 36 is LOYW3V28; suffix indexes 11, 22, 33, 8.
	if number != "ISQ-LOYW3V28-BMX8" {
		t.Fatalf("got %q", number)
	}
}

func TestOrderNumberRandomFailure(t *testing.T) {
	boom := errors.New("entropy exhausted")
	gen := &OrderNumberGenerator{
		now:    time.Now,
		random: func(int) (int, error) { return 0, boom },
	}
	if _, err := gen.Next(); !errors.Is(err, boom) {
		t.Fatalf("expected entropy error, got %v", err)
	}
}
