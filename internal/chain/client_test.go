package chain

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

const usdcType = "0x5d4b302506645c37ff133b98c4b50a5ae14841659738d6d733d59d0d217a93bf::coin::COIN"

type objectData struct {
	ObjectID string `json:"objectId"`
	Type     string `json:"type"`
}

type objectError struct {
	Code     string `json:"code"`
	ObjectID string `json:"object_id"`
}

type objectResponse struct {
	Data  *objectData  `json:"data,omitempty"`
	Error *objectError `json:"error,omitempty"`
}

type coinMetadata struct {
	Decimals uint8  `json:"decimals"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
}

type suiService struct{}

func (suiService) GetObject(id string, options map[string]bool) (*objectResponse, error) {
	if !options["showType"] {
		return nil, errors.New("showType required")
	}
	switch id {
	case "0xmeta":
		return &objectResponse{Data: &objectData{ObjectID: id, Type: "0x2::coin::CoinMetadata<" + usdcType + ">"}}, nil
	case "0xplain":
		return &objectResponse{Data: &objectData{ObjectID: id, Type: "0x2::package::UpgradeCap"}}, nil
	default:
		return &objectResponse{Error: &objectError{Code: "notExists", ObjectID: id}}, nil
	}
}

type suixService struct {
	calls atomic.Int32
}

func (s *suixService) GetCoinMetadata(coinType string) (*coinMetadata, error) {
	s.calls.Add(1)
	switch coinType {
	case usdcType:
		return &coinMetadata{Decimals: 6, Name: "USD Coin", Symbol: "USDC"}, nil
	case "0x2::sui::SUI":
		return &coinMetadata{Decimals: 9, Name: "Sui", Symbol: "SUI"}, nil
	case "0xabc::zero::ZERO":
		return &coinMetadata{Decimals: 0, Name: "Zero", Symbol: "ZERO"}, nil
	default:
		return nil, nil
	}
}

func newTestClient(t *testing.T) (*Client, *suixService) {
	t.Helper()
	server := rpc.NewServer()
	if err := server.RegisterName("sui", suiService{}); err != nil {
		t.Fatalf("register sui: %v", err)
	}
	suix := &suixService{}
	if err := server.RegisterName("suix", suix); err != nil {
		t.Fatalf("register suix: %v", err)
	}
	client := NewClientWithRPC(rpc.DialInProc(server), 0, zap.NewNop())
	t.Cleanup(func() {
		client.Close()
		server.Stop()
	})
	return client, suix
}

func TestCoinTypeFromMetadataObject(t *testing.T) {
	client, _ := newTestClient(t)
	got, err := client.CoinType(context.Background(), "0xmeta")
	if err != nil {
		t.Fatalf("coin type: %v", err)
	}
	if got != usdcType {
		t.Fatalf("coin type mismatch: %s", got)
	}
}

func TestCoinTypeErrors(t *testing.T) {
	client, _ := newTestClient(t)
	if _, err := client.CoinType(context.Background(), "0xmissing"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
	if _, err := client.CoinType(context.Background(), "0xplain"); !errors.Is(err, ErrNoTypeArgument) {
		t.Fatalf("expected ErrNoTypeArgument, got %v", err)
	}
}

func TestCoinDecimalsCached(t *testing.T) {
	client, suix := newTestClient(t)
	for i := 0; i < 3; i++ {
		got, err := client.CoinDecimals(context.Background(), "0x2::sui::SUI")
		if err != nil {
			t.Fatalf("decimals: %v", err)
		}
		if got != 9 {
			t.Fatalf("decimals mismatch: %d", got)
		}
	}
	if calls := suix.calls.Load(); calls != 1 {
		t.Fatalf("expected one rpc call, got %d", calls)
	}
}

func TestCoinDecimalsZeroIsValid(t *testing.T) {
	client, _ := newTestClient(t)
	got, err := client.CoinDecimals(context.Background(), "0xabc::zero::ZERO")
	if err != nil {
		t.Fatalf("decimals: %v", err)
	}
	if got != 0 {
		t.Fatalf("decimals mismatch: %d", got)
	}
}

func TestCoinMetadataMissing(t *testing.T) {
	client, _ := newTestClient(t)
	if _, err := client.CoinDecimals(context.Background(), "0xdead::x::X"); !errors.Is(err, ErrCoinMetadataNotFound) {
		t.Fatalf("expected ErrCoinMetadataNotFound, got %v", err)
	}
}

func TestResolveCoin(t *testing.T) {
	client, _ := newTestClient(t)
	meta, err := client.ResolveCoin(context.Background(), "0xmeta")
	if err != nil {
		t.Fatalf("resolve by object: %v", err)
	}
	if meta.CoinType != usdcType || meta.Decimals != 6 || meta.Symbol != "USDC" {
		t.Fatalf("meta mismatch: %+v", meta)
	}

	meta, err = client.ResolveCoin(context.Background(), " 0x2::sui::SUI ")
	if err != nil {
		t.Fatalf("resolve by type: %v", err)
	}
	if meta.Decimals != 9 {
		t.Fatalf("meta mismatch: %+v", meta)
	}
}

func TestTypeArgument(t *testing.T) {
	cases := map[string]string{
		"0x2::coin::Coin<0x2::sui::SUI>":                "0x2::sui::SUI",
		"0x2::coin::CoinMetadata<0xa::b::C<0xd::e::F>>": "0xa::b::C<0xd::e::F>",
		"0x2::coin::TreasuryCap<0x1234::mccq::MCCQ>":    "0x1234::mccq::MCCQ",
	}
	for in, want := range cases {
		got, err := TypeArgument(in)
		if err != nil {
			t.Fatalf("type argument %s: %v", in, err)
		}
		if got != want {
			t.Fatalf("type argument mismatch: got %s want %s", got, want)
		}
	}
	for _, in := range []string{"0x2::package::UpgradeCap", "0x2::coin::Coin<>"} {
		if _, err := TypeArgument(in); !errors.Is(err, ErrNoTypeArgument) {
			t.Fatalf("%s: expected ErrNoTypeArgument, got %v", in, err)
		}
	}
}

func TestCallHonoursContext(t *testing.T) {
	client, _ := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.CoinDecimals(ctx, "0x2::sui::SUI"); err == nil {
		t.Fatalf("expected cancelled context error")
	}
}
