package bytecode

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	EncodingBase64 = "base64"
	EncodingHex    = "hex"
)

// FrameworkDependencies are the packages every coin module links against:
// the Move standard library (0x1) and the Sui framework (0x2).
var FrameworkDependencies = []common.Hash{
	common.HexToHash("0x1"),
	common.HexToHash("0x2"),
}

// PublishPayload carries what a publish transaction needs for one coin module.
type PublishPayload struct {
	Modules             []string `json:"modules"`
	Dependencies        []string `json:"dependencies"`
	UpgradeCapRecipient string   `json:"upgrade_cap_recipient,omitempty"`
}

// NewPublishPayload wraps a patched module. recipient may be empty.
func NewPublishPayload(module []byte, recipient string) (PublishPayload, error) {
	payload := PublishPayload{
		Modules:      []string{base64.StdEncoding.EncodeToString(module)},
		Dependencies: make([]string, 0, len(FrameworkDependencies)),
	}
	for _, dep := range FrameworkDependencies {
		payload.Dependencies = append(payload.Dependencies, dep.Hex())
	}
	if recipient != "" {
		addr, err := NormalizeAddress(recipient)
		if err != nil {
			return PublishPayload{}, fmt.Errorf("upgrade cap recipient: %w", err)
		}
		payload.UpgradeCapRecipient = addr
	}
	return payload, nil
}

// NormalizeAddress left-pads a 0x-prefixed Sui address to 32 bytes.
func NormalizeAddress(addr string) (string, error) {
	s := strings.TrimSpace(addr)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return "", fmt.Errorf("address %q: missing 0x prefix", addr)
	}
	digits := s[2:]
	if len(digits) == 0 || len(digits) > common.HashLength*2 {
		return "", fmt.Errorf("address %q: want 1-%d hex digits", addr, common.HashLength*2)
	}
	raw, err := hexutil.Decode("0x" + strings.Repeat("0", common.HashLength*2-len(digits)) + digits)
	if err != nil {
		return "", fmt.Errorf("address %q: %w", addr, err)
	}
	return common.BytesToHash(raw).Hex(), nil
}

// ContentKey returns the keccak256 of a patched module, used to deduplicate
// stored artifacts. It is not the Sui package or transaction digest, which
// the chain derives with blake2b after publishing.
func ContentKey(module []byte) string {
	return crypto.Keccak256Hash(module).Hex()
}

// Encode renders a module blob for output.
func Encode(module []byte, encoding string) (string, error) {
	switch encoding {
	case "", EncodingBase64:
		return base64.StdEncoding.EncodeToString(module), nil
	case EncodingHex:
		return hexutil.Encode(module), nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", encoding)
	}
}
