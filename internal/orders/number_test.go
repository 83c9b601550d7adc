package orders

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"
)

var orderNumberRe = regexp.MustCompile(`^ORD-(\d+)-([0-9A-Z]{9})$`)

func TestNewOrderNumberFormat(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	number, err := NewOrderNumber(now)
	if err != nil {
		t.Fatalf("order number: %v", err)
	}

	m := orderNumberRe.FindStringSubmatch(number)
	if m == nil {
		t.Fatalf("order number %q does not match expected format", number)
	}
	millis, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		t.Fatalf("parse millis: %v", err)
	}
	if millis != now.UnixMilli() {
		t.Fatalf("expected millis %d, got %d", now.UnixMilli(), millis)
	}
	if strings.ToUpper(m[2]) != m[2] {
		t.Fatalf("suffix %q not uppercase", m[2])
	}
}

func TestNewOrderNumberVaries(t *testing.T) {
	t.Parallel()

	now := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		number, err := NewOrderNumber(now)
		if err != nil {
			t.Fatalf("order number: %v", err)
		}
		if seen[number] {
			t.Fatalf("duplicate order number %q after %d draws", number, i)
		}
		seen[number] = true
	}
}
