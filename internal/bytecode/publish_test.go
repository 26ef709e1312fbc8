package bytecode

import (
	"reflect"
	"strings"
	"testing"
)

func TestNewPublishPayload(t *testing.T) {
	payload, err := NewPublishPayload([]byte{0xa1, 0x1c, 0xeb, 0x0b}, "0xabc")
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	wantDeps := []string{
		"0x" + strings.Repeat("0", 63) + "1",
		"0x" + strings.Repeat("0", 63) + "2",
	}
	if !reflect.DeepEqual(payload.Dependencies, wantDeps) {
		t.Fatalf("dependencies mismatch: %+v", payload.Dependencies)
	}
	if len(payload.Modules) != 1 || payload.Modules[0] != "oRzrCw==" {
		t.Fatalf("modules mismatch: %+v", payload.Modules)
	}
	if payload.UpgradeCapRecipient != "0x"+strings.Repeat("0", 61)+"abc" {
		t.Fatalf("recipient mismatch: %s", payload.UpgradeCapRecipient)
	}
}

func TestNormalizeAddressRejectsInvalid(t *testing.T) {
	for _, addr := range []string{"abc", "0x", "0xzz", "0x" + strings.Repeat("1", 65)} {
		if _, err := NormalizeAddress(addr); err == nil {
			t.Fatalf("expected error for %q", addr)
		}
	}
}

func TestEncode(t *testing.T) {
	module := []byte{0xa1, 0x1c}
	got, err := Encode(module, EncodingHex)
	if err != nil || got != "0xa11c" {
		t.Fatalf("hex mismatch: %s %v", got, err)
	}
	got, err = Encode(module, "")
	if err != nil || got != "oRw=" {
		t.Fatalf("base64 mismatch: %s %v", got, err)
	}
	if _, err := Encode(module, "base58"); err == nil {
		t.Fatalf("expected unsupported encoding error")
	}
}

func TestContentKey(t *testing.T) {
	// keccak256 of the empty input
	if got := ContentKey(nil); got != "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470" {
		t.Fatalf("digest mismatch: %s", got)
	}
	if ContentKey([]byte{1}) == ContentKey([]byte{2}) {
		t.Fatalf("distinct modules share a digest")
	}
}
