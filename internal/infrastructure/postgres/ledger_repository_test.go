package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
	"github.com/jhoicas/inventario-historico/internal/domain/repository"
)

func ptr[T any](v T) *T { return &v }

// ─── Ledger ────────────────────────────────────────────────────────────────

func TestBuildLedgerQuery_SoloConfirmadosOrdenados(t *testing.T) {
	sql, args, err := BuildLedgerQuery(repository.LedgerQuery{})
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM stock_moves WHERE state = $1")
	assert.Contains(t, sql, "ORDER BY date ASC, id ASC")
	assert.Equal(t, []any{"confirmed"}, args)
}

func TestBuildLedgerQuery_RangoYFiltros(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	sql, args, err := BuildLedgerQuery(repository.LedgerQuery{
		From:    &from,
		To:      &to,
		Filters: entity.Filters{ProductID: ptr(int64(7)), LocationID: ptr(int64(3))},
	})
	require.NoError(t, err)

	assert.Contains(t, sql, "date >= $2")
	assert.Contains(t, sql, "date <= $3")
	assert.Contains(t, sql, "product_id = $4")
	assert.Contains(t, sql, "(location_id = $5 OR location_dest_id = $6)")
	assert.Equal(t, []any{"confirmed", from, to, int64(7), int64(3), int64(3)}, args)
}

func TestBuildLedgerQuery_PosteriorAlCorteExclusivo(t *testing.T) {
	after := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	sql, args, err := BuildLedgerQuery(repository.LedgerQuery{After: &after})
	require.NoError(t, err)

	assert.Contains(t, sql, "date > $2")
	assert.NotContains(t, sql, "date >=")
	assert.Equal(t, []any{"confirmed", after}, args)
}

func TestBuildLedgerQuery_FiltroLote(t *testing.T) {
	sql, args, err := BuildLedgerQuery(repository.LedgerQuery{
		Filters: entity.Filters{ProductID: ptr(int64(7)), LotTag: ptr("L-2024-01")},
	})
	require.NoError(t, err)

	assert.Contains(t, sql, "product_id = $2 AND lot_name = $3")
	assert.Equal(t, []any{"confirmed", int64(7), "L-2024-01"}, args)
}

// ─── Foto base ─────────────────────────────────────────────────────────────

func TestBuildBaselineQuery_IgnoraFiltroUbicacion(t *testing.T) {
	sql, args, err := BuildBaselineQuery(entity.Filters{ProductID: ptr(int64(9)), LocationID: ptr(int64(3))})
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM stock_quants WHERE quantity <> $1 AND product_id = $2")
	assert.NotContains(t, sql, "location_id =")
	assert.Equal(t, []any{0, int64(9)}, args)
}

// ─── Foto de lectura ───────────────────────────────────────────────────────

func TestSnapshotTxOptions_RepeatableReadSoloLectura(t *testing.T) {
	assert.Equal(t, pgx.RepeatableRead, snapshotTxOptions.IsoLevel)
	assert.Equal(t, pgx.ReadOnly, snapshotTxOptions.AccessMode)
}
