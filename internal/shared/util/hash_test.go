package util

import "testing"

func TestHashKey(t *testing.T) {
	key := `{"needs":["crm"],"budget":"low"}`
	got := HashKey(key)
	if got != HashKey(key) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
	if got == HashKey(key+" ") {
		t.Fatalf("expected different inputs to hash differently")
	}
}
