package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-historico/internal/domain"
	"github.com/jhoicas/inventario-historico/internal/domain/entity"
	"github.com/jhoicas/inventario-historico/internal/domain/inventory"
)

// history mezcla compras, producción, tránsito, consumos y escrituras a cliente durante 10 días.
func history() []entity.Movement {
	return []entity.Movement{
		purchase(prodTornillo, locStock, "100", "2", day(0)),
		purchase(prodTuerca, locBodegaB, "40", "5", day(0)),
		mov(prodTornillo, locStock, locTransito, "30", "0", day(1)),
		mov(prodTornillo, locTransito, locBodegaB, "30", "0", day(2)),
		mov(prodTuerca, locBodegaB, locCliente, "15", "5", day(3)),
		mov(prodTornillo, locProduccion, locStock, "20", "1.5", day(4)),
		mov(prodTornillo, locBodegaB, locCliente, "10", "2", day(5)),
		mov(prodTuerca, locBodegaB, locStock, "10", "5", day(6)),
		purchase(prodTuerca, locStock, "8", "6", day(7)),
		mov(prodTornillo, locStock, locCliente, "50", "2", day(8)),
		mov(prodTuerca, locProveedor, locCliente, "99", "1", day(9)),
		mov(prodTornillo, locBodegaB, locStock, "5", "2", day(10)),
	}
}

func baselineOf(t *testing.T, movs []entity.Movement) inventory.Baseline {
	t.Helper()
	res := forward(t, movs, inventory.CostingInboundOnly)
	b := make(inventory.Baseline, len(res.Balances))
	for k, bal := range res.Balances {
		b[k] = bal.Quantity
	}
	return b
}

func split(movs []entity.Movement, pred func(time.Time) bool) []entity.Movement {
	var out []entity.Movement
	for _, m := range movs {
		if pred(m.Date) {
			out = append(out, m)
		}
	}
	return out
}

func assertSameQuantities(t *testing.T, a, b *inventory.Result) {
	t.Helper()
	keys := map[inventory.Key]struct{}{}
	for k := range a.Balances {
		keys[k] = struct{}{}
	}
	for k := range b.Balances {
		keys[k] = struct{}{}
	}
	for k := range keys {
		assertDec(t, a.QuantityOf(k).String(), b.QuantityOf(k), "cantidad de "+keyString(k))
	}
}

func keyString(k inventory.Key) string {
	return decimal.NewFromInt(k.ProductID).String() + "/" + decimal.NewFromInt(k.LocationID).String()
}

// ──────────────────────────────────────────────────────────────────────────────
// Equivalencia de estrategias
// ──────────────────────────────────────────────────────────────────────────────

func TestEstrategias_EquivalentesAFechaUnica(t *testing.T) {
	movs := history()
	baseline := baselineOf(t, movs)

	for n := -1; n <= 11; n++ {
		cutoff := entity.CutoffAt(day(n))
		fwd := forward(t, split(movs, cutoff.Contains), inventory.CostingInboundOnly)
		bwd, err := inventory.Backward(baseline, split(movs, func(d time.Time) bool { return d.After(cutoff.To) }),
			locs, costs, inventory.Options{})
		require.NoError(t, err)

		assertSameQuantities(t, fwd, bwd)

		fr := inventory.Rows(fwd, inventory.RowOptions{})
		br := inventory.Rows(bwd, inventory.RowOptions{})
		require.Equal(t, len(fr), len(br), "mismas filas en el corte del día %d", n)
		for i := range fr {
			assert.Equal(t, fr[i].ProductID, br[i].ProductID)
			assert.Equal(t, fr[i].LocationID, br[i].LocationID)
			assertDec(t, fr[i].Quantity.String(), br[i].Quantity, "cantidad de fila")
		}
	}
}

func TestEstrategias_EquivalentesEnRango(t *testing.T) {
	movs := history()
	baseline := baselineOf(t, movs)
	cutoff := entity.CutoffRange(day(3), day(7))

	fwd := forward(t, split(movs, cutoff.Contains), inventory.CostingInboundOnly)
	bwd, err := inventory.BackwardRange(baseline,
		split(movs, func(d time.Time) bool { return d.After(cutoff.To) }),
		split(movs, func(d time.Time) bool { return !d.Before(*cutoff.From) }),
		locs, costs, inventory.Options{})
	require.NoError(t, err)

	assertSameQuantities(t, fwd, bwd)
	assert.Equal(t, inventory.StrategyBackward, bwd.Strategy)
	assert.Equal(t, fwd.Processed, bwd.Processed)
}

// Hacia atrás valoriza a costo estándar.
func TestBackward_ValorizaACostoEstandar(t *testing.T) {
	baseline := inventory.Baseline{key(prodTuerca, locStock): d("10")}
	res, err := inventory.Backward(baseline, []entity.Movement{
		purchase(prodTuerca, locStock, "4", "9", day(20)),
	}, locs, costs, inventory.Options{})
	require.NoError(t, err)

	rows := inventory.Rows(res, inventory.RowOptions{})
	require.Len(t, rows, 1)
	assertDec(t, "6", rows[0].Quantity, "cantidad antes de la compra")
	assertDec(t, "4", rows[0].UnitValue, "costo estándar, no el de la compra")
	assertDec(t, "24", rows[0].TotalValue, "valorizado")
	assert.Nil(t, rows[0].LastMovementAt)
}

func TestBackward_FotoConUbicacionDesconocidaOVirtual(t *testing.T) {
	baseline := inventory.Baseline{
		key(prodTornillo, locStock):   d("3"),
		key(prodTornillo, 555):        d("7"),
		key(prodTornillo, locCliente): d("9"),
		key(999, locStock):            d("2"),
		key(prodTuerca, locBodegaB):   decimal.Zero,
	}
	res, err := inventory.Backward(baseline, nil, locs, costs, inventory.Options{})
	require.NoError(t, err)

	rows := inventory.Rows(res, inventory.RowOptions{})
	require.Len(t, rows, 1)
	assert.Equal(t, locStock, rows[0].LocationID)
	assert.Equal(t, prodTornillo, rows[0].ProductID)
	assert.Len(t, res.Skipped, 2, "ubicación 555 y producto 999")
	for _, s := range res.Skipped {
		assert.ErrorIs(t, s.Reason, domain.ErrNotFound)
	}
}

// Un corte anterior a todo movimiento no reporta filas.
func TestEstrategias_CorteAnteriorATodoSinFilas(t *testing.T) {
	movs := history()
	cutoff := entity.CutoffAt(day(-30))

	fwd := forward(t, split(movs, cutoff.Contains), inventory.CostingInboundOnly)
	assert.Empty(t, inventory.Rows(fwd, inventory.RowOptions{}))

	bwd, err := inventory.Backward(baselineOf(t, movs), movs, locs, costs, inventory.Options{})
	require.NoError(t, err)
	assert.Empty(t, inventory.Rows(bwd, inventory.RowOptions{}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Selección de estrategia
// ──────────────────────────────────────────────────────────────────────────────

func TestChooseStrategy(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	window := 30 * 24 * time.Hour

	assert.Equal(t, inventory.StrategyBackward,
		inventory.ChooseStrategy(entity.CutoffAt(now.AddDate(0, 0, -3)), now, window), "corte reciente")
	assert.Equal(t, inventory.StrategyBackward,
		inventory.ChooseStrategy(entity.CutoffAt(now), now, window), "hoy termina después de now")
	assert.Equal(t, inventory.StrategyForward,
		inventory.ChooseStrategy(entity.CutoffAt(now.AddDate(-1, 0, 0)), now, window), "corte lejano")
	assert.Equal(t, inventory.StrategyForward,
		inventory.ChooseStrategy(entity.CutoffRange(now.AddDate(0, 0, -3), now), now, window), "rango")
	assert.Equal(t, inventory.StrategyForward,
		inventory.ChooseStrategy(entity.CutoffAt(now), now, 0), "sin ventana")
}

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]inventory.Strategy{
		"":         inventory.StrategyAuto,
		"auto":     inventory.StrategyAuto,
		"forward":  inventory.StrategyForward,
		"backward": inventory.StrategyBackward,
	} {
		got, err := inventory.ParseStrategy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := inventory.ParseStrategy("hybrid")
	assert.ErrorIs(t, err, domain.ErrUnknownStrategy)
}
