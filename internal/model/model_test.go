package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestTokenArtifactJSONRoundTrip(t *testing.T) {
	want := TokenArtifact{
		Symbol:        "MCCQ",
		Name:          "MEGH Quote",
		Description:   "Token creator token.",
		IconURL:       "https://example/icon.png",
		Decimals:      9,
		SchemaVersion: 1,
		TemplateSize:  1549,
		Encoding:      "base64",
		Module:        "oRzrCw==",
		Dependencies:  []string{"0x01", "0x02"},
		CreatedAt:     "2024-01-01T00:00:00Z",
	}

	b, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded TokenArtifact
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(want, decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", want, decoded)
	}
}

func TestTokenArtifactEmptyDependencies(t *testing.T) {
	data, err := json.Marshal(TokenArtifact{Symbol: "MC"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := decoded["dependencies"].([]interface{}); !ok {
		t.Fatalf("dependencies should be an array, got %v", decoded["dependencies"])
	}
	if _, ok := decoded["upgrade_cap_recipient"]; ok {
		t.Fatalf("empty recipient should be omitted")
	}
	if _, ok := decoded["content_key"]; !ok {
		t.Fatalf("content_key missing: %s", data)
	}
	if _, ok := decoded["module_digest"]; ok {
		t.Fatalf("unexpected module_digest field: %s", data)
	}
}

func TestPoolPlanRecordJSONStringFields(t *testing.T) {
	payload := PoolPlanRecord{
		TickSpacing:         60,
		InitializeSqrtPrice: "29166863343567579424",
		TickLower:           0,
		TickUpper:           13920,
		Liquidity:           "7470348721",
		AmountA:             "1000000000",
		AmountB:             "4558375203",
		FixAmountA:          true,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, key := range []string{"initialize_sqrt_price", "liquidity", "amount_a", "amount_b"} {
		if _, ok := decoded[key].(string); !ok {
			t.Fatalf("%s should be string", key)
		}
	}
	if _, ok := decoded["tick_upper"].(float64); !ok {
		t.Fatalf("tick_upper should be number")
	}
	if _, ok := decoded["coin_type_a"]; ok {
		t.Fatalf("empty coin type should be omitted")
	}
}
