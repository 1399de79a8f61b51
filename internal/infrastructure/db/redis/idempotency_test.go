package redis

import "testing"

func TestOrderIdempotency_KeyIsScopedByUser(t *testing.T) {
	o := NewOrderIdempotency(nil)

	a := o.key(1, "abc")
	b := o.key(2, "abc")
	if a == b {
		t.Fatalf("expected keys to differ per user, both were %q", a)
	}
	if a != "idem:order:1:abc" {
		t.Fatalf("unexpected key format: %q", a)
	}
}
