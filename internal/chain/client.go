package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"coinforge/internal/model"
)

var (
	ErrObjectNotFound       = errors.New("object not found")
	ErrCoinMetadataNotFound = errors.New("coin metadata not found")
	ErrNoTypeArgument       = errors.New("object type has no type argument")
)

// Client wraps a Sui JSON-RPC endpoint and caches coin metadata.
type Client struct {
	rpcClient *rpc.Client
	limiter   *rate.Limiter
	logger    *zap.Logger

	mu        sync.RWMutex
	metaCache map[string]model.CoinMeta
}

// NewClient dials the RPC URL. requestsPerSecond <= 0 disables throttling.
func NewClient(ctx context.Context, rpcURL string, requestsPerSecond float64, logger *zap.Logger) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return NewClientWithRPC(rpcClient, requestsPerSecond, logger), nil
}

// NewClientWithRPC wraps an existing RPC client.
func NewClientWithRPC(rpcClient *rpc.Client, requestsPerSecond float64, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	burst := 1
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
		burst = int(requestsPerSecond)
		if burst < 1 {
			burst = 1
		}
	}
	return &Client{
		rpcClient: rpcClient,
		limiter:   rate.NewLimiter(limit, burst),
		logger:    logger,
		metaCache: make(map[string]model.CoinMeta),
	}
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// CoinType returns the coin type carried by an object such as
// 0x2::coin::CoinMetadata<T> or 0x2::coin::Coin<T>.
func (c *Client) CoinType(ctx context.Context, objectID string) (string, error) {
	raw, err := c.call(ctx, "sui_getObject", objectID, map[string]bool{"showType": true})
	if err != nil {
		return "", fmt.Errorf("get object %s: %w", objectID, err)
	}
	objectType := gjson.GetBytes(raw, "data.type")
	if !objectType.Exists() {
		if code := gjson.GetBytes(raw, "error.code"); code.Exists() {
			return "", fmt.Errorf("%w: %s (%s)", ErrObjectNotFound, objectID, code.String())
		}
		return "", fmt.Errorf("%w: %s", ErrObjectNotFound, objectID)
	}
	return TypeArgument(objectType.String())
}

// CoinMeta returns metadata for a coin type, using an in-memory cache.
func (c *Client) CoinMeta(ctx context.Context, coinType string) (model.CoinMeta, error) {
	c.mu.RLock()
	meta, ok := c.metaCache[coinType]
	c.mu.RUnlock()
	if ok {
		return meta, nil
	}

	raw, err := c.call(ctx, "suix_getCoinMetadata", coinType)
	if err != nil {
		return model.CoinMeta{}, fmt.Errorf("get coin metadata %s: %w", coinType, err)
	}
	decimals := gjson.GetBytes(raw, "decimals")
	if !decimals.Exists() {
		return model.CoinMeta{}, fmt.Errorf("%w: %s", ErrCoinMetadataNotFound, coinType)
	}
	if v := decimals.Int(); v < 0 || v > 255 {
		return model.CoinMeta{}, fmt.Errorf("coin %s: decimals %d out of range", coinType, v)
	}
	meta = model.CoinMeta{
		CoinType: coinType,
		Decimals: uint8(decimals.Int()),
		Symbol:   gjson.GetBytes(raw, "symbol").String(),
		Name:     gjson.GetBytes(raw, "name").String(),
	}

	c.mu.Lock()
	c.metaCache[coinType] = meta
	c.mu.Unlock()

	c.logger.Debug("coin metadata loaded",
		zap.String("coin_type", coinType),
		zap.Uint8("decimals", meta.Decimals),
		zap.String("symbol", meta.Symbol),
	)
	return meta, nil
}

// CoinDecimals returns the decimal precision of a coin type.
func (c *Client) CoinDecimals(ctx context.Context, coinType string) (uint8, error) {
	meta, err := c.CoinMeta(ctx, coinType)
	if err != nil {
		return 0, err
	}
	return meta.Decimals, nil
}

// ResolveCoin accepts either a coin type (containing "::") or an object id and
// returns the coin's metadata.
func (c *Client) ResolveCoin(ctx context.Context, ref string) (model.CoinMeta, error) {
	coinType := strings.TrimSpace(ref)
	if !IsCoinType(coinType) {
		resolved, err := c.CoinType(ctx, coinType)
		if err != nil {
			return model.CoinMeta{}, err
		}
		coinType = resolved
	}
	return c.CoinMeta(ctx, coinType)
}

func (c *Client) call(ctx context.Context, method string, args ...interface{}) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.rpcClient.CallContext(ctx, &raw, method, args...); err != nil {
		if errors.Is(err, rpc.ErrNoResult) {
			return nil, nil
		}
		return nil, err
	}
	return raw, nil
}

// IsCoinType reports whether ref looks like a fully qualified Move type.
func IsCoinType(ref string) bool {
	return strings.Contains(ref, "::")
}

// TypeArgument extracts the outermost type argument of a Move struct type.
func TypeArgument(objectType string) (string, error) {
	start := strings.IndexByte(objectType, '<')
	end := strings.LastIndexByte(objectType, '>')
	if start < 0 || end <= start+1 {
		return "", fmt.Errorf("%w: %s", ErrNoTypeArgument, objectType)
	}
	return objectType[start+1 : end], nil
}
