package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coinforge/internal/model"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS token_artifacts (
		content_key TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		icon_url TEXT NOT NULL,
		decimals SMALLINT NOT NULL,
		schema_version INT NOT NULL,
		template_size INT NOT NULL,
		encoding TEXT NOT NULL,
		module TEXT NOT NULL,
		dependencies TEXT[] NOT NULL,
		upgrade_cap_recipient TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pool_plans (
		coin_type_a TEXT NOT NULL,
		coin_type_b TEXT NOT NULL,
		fee_tier TEXT NOT NULL,
		tick_lower INT NOT NULL,
		tick_upper INT NOT NULL,
		decimals_a SMALLINT NOT NULL,
		decimals_b SMALLINT NOT NULL,
		min_price TEXT NOT NULL,
		max_price TEXT NOT NULL,
		tick_spacing INT NOT NULL,
		initialize_sqrt_price NUMERIC(39, 0) NOT NULL,
		raw_tick_lower INT NOT NULL,
		raw_tick_upper INT NOT NULL,
		liquidity NUMERIC(39, 0) NOT NULL,
		amount_a NUMERIC(78, 0) NOT NULL,
		amount_b NUMERIC(78, 0) NOT NULL,
		estimated_amount_b NUMERIC(78, 0) NOT NULL,
		fix_amount_a BOOLEAN NOT NULL,
		slippage TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (coin_type_a, coin_type_b, fee_tier, tick_lower, tick_upper)
	)`,
}

// Store provides Postgres persistence for built artifacts.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the artifact tables when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// PutTokenArtifacts inserts or refreshes token artifacts keyed by module digest.
func (s *Store) PutTokenArtifacts(ctx context.Context, artifacts []model.TokenArtifact) error {
	if len(artifacts) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, a := range artifacts {
		deps := a.Dependencies
		if deps == nil {
			deps = []string{}
		}
		batch.Queue(`
			INSERT INTO token_artifacts (
				content_key, symbol, name, description, icon_url, decimals, schema_version,
				template_size, encoding, module, dependencies, upgrade_cap_recipient, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13::timestamptz,now())
			ON CONFLICT (content_key)
			DO UPDATE SET
				encoding = EXCLUDED.encoding,
				module = EXCLUDED.module,
				upgrade_cap_recipient = EXCLUDED.upgrade_cap_recipient,
				updated_at = now()
		`,
			a.ContentKey,
			a.Symbol,
			a.Name,
			a.Description,
			a.IconURL,
			a.Decimals,
			a.SchemaVersion,
			a.TemplateSize,
			a.Encoding,
			a.Module,
			deps,
			a.UpgradeCapRecipient,
			a.CreatedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range artifacts {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// PutPoolPlans inserts or updates pool plans keyed by pair, fee tier and range.
func (s *Store) PutPoolPlans(ctx context.Context, plans []model.PoolPlanRecord) error {
	if len(plans) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range plans {
		batch.Queue(`
			INSERT INTO pool_plans (
				coin_type_a, coin_type_b, fee_tier, tick_lower, tick_upper, decimals_a, decimals_b,
				min_price, max_price, tick_spacing, initialize_sqrt_price, raw_tick_lower, raw_tick_upper,
				liquidity, amount_a, amount_b, estimated_amount_b, fix_amount_a, slippage, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11::numeric,$12,$13,$14::numeric,$15::numeric,$16::numeric,$17::numeric,$18,$19,$20::timestamptz,now())
			ON CONFLICT (coin_type_a, coin_type_b, fee_tier, tick_lower, tick_upper)
			DO UPDATE SET
				decimals_a = EXCLUDED.decimals_a,
				decimals_b = EXCLUDED.decimals_b,
				min_price = EXCLUDED.min_price,
				max_price = EXCLUDED.max_price,
				initialize_sqrt_price = EXCLUDED.initialize_sqrt_price,
				raw_tick_lower = EXCLUDED.raw_tick_lower,
				raw_tick_upper = EXCLUDED.raw_tick_upper,
				liquidity = EXCLUDED.liquidity,
				amount_a = EXCLUDED.amount_a,
				amount_b = EXCLUDED.amount_b,
				estimated_amount_b = EXCLUDED.estimated_amount_b,
				fix_amount_a = EXCLUDED.fix_amount_a,
				slippage = EXCLUDED.slippage,
				updated_at = now()
		`,
			p.CoinTypeA,
			p.CoinTypeB,
			p.FeeTier,
			p.TickLower,
			p.TickUpper,
			p.DecimalsA,
			p.DecimalsB,
			p.MinPrice,
			p.MaxPrice,
			p.TickSpacing,
			p.InitializeSqrtPrice,
			p.RawTickLower,
			p.RawTickUpper,
			p.Liquidity,
			p.AmountA,
			p.AmountB,
			p.EstimatedAmountB,
			p.FixAmountA,
			p.Slippage,
			p.CreatedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range plans {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
