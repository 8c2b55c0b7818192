package market

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/trendlab/trendfollow/internal/logger"
	"github.com/trendlab/trendfollow/internal/symbols"
	"github.com/trendlab/trendfollow/internal/types"
	"github.com/trendlab/trendfollow/pkg/errors"
	"go.uber.org/zap"
)

// expiryScanWindow bounds how far back the expiry and token scans look; a
// contract that has not traded for a day is not active.
const expiryScanWindow = 24 * time.Hour

// DuckDBDataSource implements DataSource over a DuckDB tick database with two
// tables: ticks_spot(tradingsymbol, last_price, time) and
// ticks_options(tradingsymbol, instrument_token, last_price, time).
type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
	now    func() time.Time
}

// NewDuckDBDataSource opens the DuckDB database at path and ensures the tick
// schema exists. Returns a DataSource interface.
func NewDuckDBDataSource(path string, log *logger.Logger) (DataSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to open duckdb", err)
	}

	d := &DuckDBDataSource{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		now:    time.Now,
	}

	if err := d.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return d, nil
}

func (d *DuckDBDataSource) ensureSchema() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS ticks_spot (
			tradingsymbol VARCHAR NOT NULL,
			last_price    DOUBLE NOT NULL,
			time          TIMESTAMP NOT NULL
		);
		CREATE TABLE IF NOT EXISTS ticks_options (
			tradingsymbol    VARCHAR NOT NULL,
			instrument_token BIGINT NOT NULL,
			last_price       DOUBLE NOT NULL,
			time             TIMESTAMP NOT NULL
		);
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to create tick schema", err)
	}

	return nil
}

// LatestSpotPrice implements DataSource.
func (d *DuckDBDataSource) LatestSpotPrice(instrument string) (optional.Option[float64], error) {
	now := d.now()
	cutoff := now.Add(-SpotFreshness)

	query, args, err := d.sq.
		Select("last_price", "time").
		From("ticks_spot").
		Where(squirrel.Eq{"tradingsymbol": instrument}).
		Where(squirrel.Gt{"time": cutoff}).
		OrderBy("time DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return optional.None[float64](), errors.Wrap(errors.ErrCodeQueryFailed, "failed to build spot query", err)
	}

	var (
		price    float64
		tickTime time.Time
	)

	err = d.db.QueryRow(query, args...).Scan(&price, &tickTime)
	if err == sql.ErrNoRows {
		d.logger.Warn("No fresh spot tick",
			zap.String("instrument", instrument),
			zap.Duration("freshness", SpotFreshness),
		)

		return optional.None[float64](), nil
	}

	if err != nil {
		return optional.None[float64](), errors.Wrap(errors.ErrCodeQueryFailed, "failed to query spot price", err)
	}

	if age := now.Sub(tickTime); age > SpotFreshness {
		d.logger.Warn("Stale spot tick, check data streaming",
			zap.String("instrument", instrument),
			zap.Duration("age", age),
		)

		return optional.None[float64](), nil
	}

	return optional.Some(price), nil
}

// SpotPriceAt implements DataSource.
func (d *DuckDBDataSource) SpotPriceAt(instrument string, ts time.Time) (optional.Option[float64], error) {
	query, args, err := d.sq.
		Select("last_price").
		From("ticks_spot").
		Where(squirrel.Eq{"tradingsymbol": instrument}).
		Where(squirrel.LtOrEq{"time": ts}).
		OrderBy("time DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return optional.None[float64](), errors.Wrap(errors.ErrCodeQueryFailed, "failed to build spot as-of query", err)
	}

	var price float64

	err = d.db.QueryRow(query, args...).Scan(&price)
	if err == sql.ErrNoRows {
		return optional.None[float64](), nil
	}

	if err != nil {
		return optional.None[float64](), errors.Wrap(errors.ErrCodeQueryFailed, "failed to query spot as-of price", err)
	}

	return optional.Some(price), nil
}

// LatestOptionPrice implements DataSource.
func (d *DuckDBDataSource) LatestOptionPrice(token int64) (optional.Option[float64], error) {
	now := d.now()
	cutoff := now.Add(-OptionFreshness)

	query, args, err := d.sq.
		Select("last_price", "time").
		From("ticks_options").
		Where(squirrel.Eq{"instrument_token": token}).
		Where(squirrel.Gt{"time": cutoff}).
		OrderBy("time DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return optional.None[float64](), errors.Wrap(errors.ErrCodeQueryFailed, "failed to build option query", err)
	}

	var (
		price    float64
		tickTime time.Time
	)

	err = d.db.QueryRow(query, args...).Scan(&price, &tickTime)
	if err == sql.ErrNoRows {
		return optional.None[float64](), nil
	}

	if err != nil {
		return optional.None[float64](), errors.Wrap(errors.ErrCodeQueryFailed, "failed to query option price", err)
	}

	if age := now.Sub(tickTime); age > OptionFreshness {
		d.logger.Warn("Stale option tick, check data streaming",
			zap.Int64("token", token),
			zap.Duration("age", age),
		)

		return optional.None[float64](), nil
	}

	return optional.Some(price), nil
}

// OptionPriceAt implements DataSource.
func (d *DuckDBDataSource) OptionPriceAt(token int64, ts time.Time) (optional.Option[float64], error) {
	query, args, err := d.sq.
		Select("last_price").
		From("ticks_options").
		Where(squirrel.Eq{"instrument_token": token}).
		Where(squirrel.LtOrEq{"time": ts}).
		OrderBy("time DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return optional.None[float64](), errors.Wrap(errors.ErrCodeQueryFailed, "failed to build option as-of query", err)
	}

	var price float64

	err = d.db.QueryRow(query, args...).Scan(&price)
	if err == sql.ErrNoRows {
		return optional.None[float64](), nil
	}

	if err != nil {
		return optional.None[float64](), errors.Wrap(errors.ErrCodeQueryFailed, "failed to query option as-of price", err)
	}

	return optional.Some(price), nil
}

// ActiveExpiries implements DataSource.
func (d *DuckDBDataSource) ActiveExpiries(instrument string) ([]string, error) {
	cutoff := d.now().Add(-expiryScanWindow)

	rows, err := d.db.Query(`
		SELECT DISTINCT tradingsymbol
		FROM ticks_options
		WHERE tradingsymbol LIKE $1 || '%'
		AND time > $2
	`, instrument, cutoff)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan active expiries", err)
	}
	defer rows.Close()

	seen := make(map[string]struct{})

	var expiries []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan expiry row", err)
		}

		parsed, ok := symbols.Parse(symbol)
		if !ok || parsed.Name != instrument {
			continue
		}

		if _, dup := seen[parsed.Expiry]; dup {
			continue
		}

		seen[parsed.Expiry] = struct{}{}
		expiries = append(expiries, parsed.Expiry)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate expiry rows", err)
	}

	symbols.SortExpiries(expiries)

	return expiries, nil
}

// AvailableStrikesAt implements DataSource.
func (d *DuckDBDataSource) AvailableStrikesAt(instrument, expiry string, optionType types.OptionType, ts time.Time) ([]types.StrikeQuote, error) {
	lookback := ts.Add(-StrikeLookback)
	pattern := instrument + expiry + "%" + string(optionType)

	// Squirrel has no DISTINCT ON, so this one stays raw SQL.
	rows, err := d.db.Query(`
		SELECT DISTINCT ON (tradingsymbol)
			tradingsymbol, instrument_token, last_price
		FROM ticks_options
		WHERE tradingsymbol LIKE $1
		AND time <= $2
		AND time > $3
		ORDER BY tradingsymbol, time DESC
	`, pattern, ts, lookback)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan available strikes", err)
	}
	defer rows.Close()

	var quotes []types.StrikeQuote

	for rows.Next() {
		var (
			symbol string
			token  int64
			price  float64
		)

		if err := rows.Scan(&symbol, &token, &price); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan strike row", err)
		}

		// The LIKE pattern can over-match (e.g. 54000CE matches ...4000CE
		// patterns), so re-check against the parsed symbol.
		parsed, ok := symbols.Parse(symbol)
		if !ok || parsed.Expiry != expiry || parsed.OptionType != optionType {
			continue
		}

		quotes = append(quotes, types.StrikeQuote{
			Strike:    parsed.Strike,
			LastPrice: price,
			Token:     token,
			Symbol:    symbol,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate strike rows", err)
	}

	return quotes, nil
}

// TokenForStrike implements DataSource.
func (d *DuckDBDataSource) TokenForStrike(instrument string, strike float64, optionType types.OptionType, expiry string) (optional.Option[int64], error) {
	symbol := symbols.Compose(instrument, expiry, strike, optionType)
	cutoff := d.now().Add(-expiryScanWindow)

	query, args, err := d.sq.
		Select("instrument_token").
		From("ticks_options").
		Where(squirrel.Eq{"tradingsymbol": symbol}).
		Where(squirrel.Gt{"time": cutoff}).
		Limit(1).
		ToSql()
	if err != nil {
		return optional.None[int64](), errors.Wrap(errors.ErrCodeQueryFailed, "failed to build token query", err)
	}

	var token int64

	err = d.db.QueryRow(query, args...).Scan(&token)
	if err == sql.ErrNoRows {
		return optional.None[int64](), nil
	}

	if err != nil {
		return optional.None[int64](), errors.Wrap(errors.ErrCodeQueryFailed, "failed to query token", err)
	}

	return optional.Some(token), nil
}

// RangeHighLow implements DataSource.
func (d *DuckDBDataSource) RangeHighLow(token int64, start, end time.Time) (optional.Option[types.HighLow], error) {
	query, args, err := d.sq.
		Select("MAX(last_price)", "MIN(last_price)").
		From("ticks_options").
		Where(squirrel.Eq{"instrument_token": token}).
		Where(squirrel.GtOrEq{"time": start}).
		Where(squirrel.LtOrEq{"time": end}).
		ToSql()
	if err != nil {
		return optional.None[types.HighLow](), errors.Wrap(errors.ErrCodeQueryFailed, "failed to build range query", err)
	}

	var high, low sql.NullFloat64

	if err := d.db.QueryRow(query, args...).Scan(&high, &low); err != nil {
		return optional.None[types.HighLow](), errors.Wrap(errors.ErrCodeQueryFailed, "failed to query range high/low", err)
	}

	if !high.Valid || !low.Valid {
		return optional.None[types.HighLow](), nil
	}

	return optional.Some(types.HighLow{High: high.Float64, Low: low.Float64}), nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	return d.db.Close()
}
