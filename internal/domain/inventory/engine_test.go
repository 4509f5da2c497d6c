package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
	"github.com/jhoicas/inventario-historico/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

const (
	locStock      int64 = 1
	locBodegaB    int64 = 2
	locTransito   int64 = 3
	locProveedor  int64 = 90
	locProduccion int64 = 91
	locCliente    int64 = 92

	prodTornillo int64 = 100
	prodTuerca   int64 = 200
)

var (
	locs = inventory.UsageMap{
		locStock:      entity.LocationUsageInternal,
		locBodegaB:    entity.LocationUsageInternal,
		locTransito:   entity.LocationUsageTransit,
		locProveedor:  entity.LocationUsageVirtual,
		locProduccion: entity.LocationUsageVirtual,
		locCliente:    entity.LocationUsageVirtual,
	}
	costs = inventory.CostMap{
		prodTornillo: d("1"),
		prodTuerca:   d("4"),
	}
	base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(n int) time.Time { return base.AddDate(0, 0, n) }

var nextID int64

func mov(product, from, to int64, qty, cost string, at time.Time) entity.Movement {
	nextID++
	return entity.Movement{
		ID:               nextID,
		ProductID:        product,
		SourceLocationID: from,
		DestLocationID:   to,
		Quantity:         d(qty),
		UnitCost:         d(cost),
		Date:             at,
		State:            entity.MovementStateConfirmed,
		OperationType:    "internal",
	}
}

func purchase(product, to int64, qty, cost string, at time.Time) entity.Movement {
	m := mov(product, locProveedor, to, qty, cost, at)
	m.OperationType = entity.OperationTypeIncoming
	return m
}

func key(p, l int64) inventory.Key { return inventory.Key{ProductID: p, LocationID: l} }

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "%s: esperado %s, obtenido %s", msg, want, got)
}

func forward(t *testing.T, movs []entity.Movement, mode inventory.CostingMode) *inventory.Result {
	t.Helper()
	res, err := inventory.Forward(movs, locs, costs, inventory.Options{Costing: mode})
	require.NoError(t, err)
	return res
}

// ──────────────────────────────────────────────────────────────────────────────
// Acumulación de saldos
// ──────────────────────────────────────────────────────────────────────────────

// Las transferencias internas no crean ni destruyen stock.
func TestForward_ConservacionEnTransferenciasInternas(t *testing.T) {
	creation := []entity.Movement{
		purchase(prodTornillo, locStock, "50", "2", day(0)),
		mov(prodTornillo, locProduccion, locBodegaB, "30", "3", day(0)),
	}
	transfers := []entity.Movement{
		mov(prodTornillo, locStock, locTransito, "20", "0", day(1)),
		mov(prodTornillo, locTransito, locBodegaB, "15", "0", day(2)),
		mov(prodTornillo, locBodegaB, locStock, "40", "2.5", day(3)),
		mov(prodTornillo, locStock, locBodegaB, "5", "2", day(4)),
	}

	total := func(res *inventory.Result) decimal.Decimal {
		sum := decimal.Zero
		for k, b := range res.Balances {
			if k.ProductID == prodTornillo {
				sum = sum.Add(b.Quantity)
			}
		}
		return sum
	}

	before := total(forward(t, creation, inventory.CostingInboundOnly))
	for n := 0; n <= len(transfers); n++ {
		all := append(append([]entity.Movement{}, creation...), transfers[:n]...)
		after := total(forward(t, all, inventory.CostingInboundOnly))
		assertDec(t, before.String(), after, "la suma por producto debe mantenerse")
	}
}

// Origen virtual e interno destino: solo crea stock.
func TestForward_OrigenVirtualCreaStock(t *testing.T) {
	res := forward(t, []entity.Movement{
		mov(prodTornillo, locProduccion, locStock, "20", "1.5", day(0)),
	}, inventory.CostingInboundOnly)

	rows := inventory.Rows(res, inventory.RowOptions{})
	require.Len(t, rows, 1, "debe existir exactamente una fila")
	assert.Equal(t, prodTornillo, rows[0].ProductID)
	assert.Equal(t, locStock, rows[0].LocationID)
	assertDec(t, "20", rows[0].Quantity, "cantidad")
	assertDec(t, "1.5", rows[0].UnitValue, "valor unitario")
	assertDec(t, "30", rows[0].TotalValue, "valorizado")
}

// Destino virtual: solo consume stock en el origen.
func TestForward_DestinoVirtualConsumeStock(t *testing.T) {
	res := forward(t, []entity.Movement{
		purchase(prodTornillo, locStock, "10", "2", day(0)),
		mov(prodTornillo, locStock, locCliente, "4", "2", day(1)),
	}, inventory.CostingInboundOnly)

	require.Len(t, res.Balances, 1, "el cliente no debe generar saldo")
	assertDec(t, "6", res.QuantityOf(key(prodTornillo, locStock)), "cantidad en stock")
}

// Virtual a virtual se ignora por completo.
func TestForward_VirtualAVirtualIgnorado(t *testing.T) {
	res := forward(t, []entity.Movement{
		mov(prodTornillo, locProveedor, locCliente, "10", "2", day(0)),
	}, inventory.CostingInboundOnly)

	assert.Empty(t, res.Balances)
	assert.Equal(t, 1, res.Ignored)
	assert.Equal(t, 0, res.Processed)
}

func TestForward_MovimientosNoConfirmadosIgnorados(t *testing.T) {
	draft := purchase(prodTornillo, locStock, "10", "2", day(0))
	draft.State = entity.MovementStateDraft
	cancelled := purchase(prodTornillo, locStock, "10", "2", day(0))
	cancelled.State = entity.MovementStateCancelled

	res := forward(t, []entity.Movement{draft, cancelled}, inventory.CostingInboundOnly)
	assert.Empty(t, res.Balances)
	assert.Equal(t, 2, res.Ignored)
}

// El metadato de último movimiento se toma en orden cronológico aunque la entrada venga desordenada.
func TestForward_UltimoMovimientoEnOrdenCronologico(t *testing.T) {
	late := purchase(prodTornillo, locStock, "5", "2", day(5))
	late.LotTag = "LOTE-B"
	early := mov(prodTornillo, locBodegaB, locStock, "5", "2", day(1))
	early.LotTag = "LOTE-A"

	res := forward(t, []entity.Movement{
		late,
		purchase(prodTornillo, locBodegaB, "5", "2", day(0)),
		early,
	}, inventory.CostingInboundOnly)

	b := res.Balances[key(prodTornillo, locStock)]
	require.NotNil(t, b)
	require.NotNil(t, b.LastMovementAt)
	assert.True(t, b.LastMovementAt.Equal(day(5)))
	assert.Equal(t, entity.MovementKindPurchaseInbound, b.LastMovementKind)
	assert.Equal(t, "LOTE-B", b.LotTag)
}

// ──────────────────────────────────────────────────────────────────────────────
// Valorización
// ──────────────────────────────────────────────────────────────────────────────

func TestForward_PromedioPonderado(t *testing.T) {
	res := forward(t, []entity.Movement{
		purchase(prodTornillo, locStock, "10", "2.0", day(0)),
		purchase(prodTornillo, locStock, "5", "5.0", day(1)),
	}, inventory.CostingInboundOnly)

	rows := inventory.Rows(res, inventory.RowOptions{})
	require.Len(t, rows, 1)
	assertDec(t, "3", rows[0].UnitValue, "valor unitario")
	assertDec(t, "45", rows[0].TotalValue, "valorizado")
}

// Las salidas no reducen la base de costo en el modo por defecto.
func TestForward_SalidasNoReducenBaseEnModoPorDefecto(t *testing.T) {
	res := forward(t, []entity.Movement{
		purchase(prodTornillo, locStock, "10", "2", day(0)),
		mov(prodTornillo, locStock, locCliente, "6", "2", day(1)),
		purchase(prodTornillo, locStock, "4", "7", day(2)),
	}, inventory.CostingInboundOnly)

	b := res.Balances[key(prodTornillo, locStock)]
	assertDec(t, "8", b.Quantity, "cantidad")
	assertDec(t, "14", b.CostQuantity(), "cantidad costeada")
	assertDec(t, "48", b.CostTotal(), "costo acumulado")
	// 48 / 14 sobre la cantidad final de 8
	assertDec(t, b.UnitValue().Mul(d("8")).String(), b.TotalValue(), "valorizado")
}

func TestForward_PromedioMovilReduceBase(t *testing.T) {
	res := forward(t, []entity.Movement{
		purchase(prodTornillo, locStock, "10", "2", day(0)),
		mov(prodTornillo, locStock, locCliente, "6", "2", day(1)),
		purchase(prodTornillo, locStock, "4", "7", day(2)),
	}, inventory.CostingMovingAverage)

	b := res.Balances[key(prodTornillo, locStock)]
	assertDec(t, "8", b.Quantity, "cantidad")
	assertDec(t, "8", b.CostQuantity(), "cantidad costeada")
	assertDec(t, "36", b.CostTotal(), "costo acumulado: 4*2 + 4*7")
	assertDec(t, "4.5", b.UnitValue(), "valor unitario")
}

// Tramo de tránsito sin costo: usa el promedio ya acumulado del slot.
func TestForward_TransitoSinCostoUsaPromedioDelSlot(t *testing.T) {
	res := forward(t, []entity.Movement{
		mov(prodTuerca, locProduccion, locTransito, "10", "3", day(0)),
		mov(prodTuerca, locStock, locTransito, "10", "0", day(1)),
	}, inventory.CostingInboundOnly)

	b := res.Balances[key(prodTuerca, locTransito)]
	assertDec(t, "20", b.Quantity, "cantidad en tránsito")
	assertDec(t, "3", b.UnitValue(), "usa promedio del tránsito, no el estándar 4")
}

// Tramo de tránsito sin costo y sin historia: usa el costo estándar.
func TestForward_TransitoSinCostoNiHistoriaUsaEstandar(t *testing.T) {
	res := forward(t, []entity.Movement{
		mov(prodTuerca, locStock, locTransito, "10", "0", day(1)),
	}, inventory.CostingInboundOnly)

	assertDec(t, "4", res.Balances[key(prodTuerca, locTransito)].UnitValue(), "costo estándar")
}

func TestWeightedAverage_CantidadCeroDevuelveCero(t *testing.T) {
	assertDec(t, "0", inventory.WeightedAverage(d("10"), decimal.Zero), "sin cantidad")
	assertDec(t, "0", inventory.WeightedAverage(d("10"), d("-3")), "cantidad negativa")
	assertDec(t, "2.5", inventory.WeightedAverage(d("10"), d("4")), "promedio")
}

func TestParseCostingMode(t *testing.T) {
	m, err := inventory.ParseCostingMode("")
	require.NoError(t, err)
	assert.Equal(t, inventory.CostingInboundOnly, m)

	m, err = inventory.ParseCostingMode("moving-average")
	require.NoError(t, err)
	assert.Equal(t, inventory.CostingMovingAverage, m)

	_, err = inventory.ParseCostingMode("fifo")
	assert.ErrorIs(t, err, inventory.ErrUnknownCosting)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conformación y tolerancia a fallos parciales
// ──────────────────────────────────────────────────────────────────────────────

func TestRows_SoloSaldosPositivos(t *testing.T) {
	res := forward(t, []entity.Movement{
		purchase(prodTornillo, locStock, "5", "1", day(0)),
		mov(prodTornillo, locStock, locCliente, "5", "1", day(1)),
		mov(prodTuerca, locBodegaB, locCliente, "3", "1", day(1)),
		purchase(prodTuerca, locStock, "2", "1", day(2)),
	}, inventory.CostingInboundOnly)

	rows := inventory.Rows(res, inventory.RowOptions{})
	require.Len(t, rows, 1)
	for _, r := range rows {
		assert.True(t, r.Quantity.IsPositive(), "ninguna fila con cantidad <= 0")
	}

	diag := inventory.Rows(res, inventory.RowOptions{IncludeNegative: true})
	require.Len(t, diag, 2, "el modo diagnóstico agrega el saldo negativo, nunca el cero")
	assert.Equal(t, key(prodTuerca, locBodegaB), key(diag[1].ProductID, diag[1].LocationID))
	assertDec(t, "-3", diag[1].Quantity, "saldo negativo")
}

func TestRows_OrdenProductoUbicacion(t *testing.T) {
	res := forward(t, []entity.Movement{
		purchase(prodTuerca, locBodegaB, "1", "1", day(0)),
		purchase(prodTornillo, locBodegaB, "1", "1", day(0)),
		purchase(prodTuerca, locStock, "1", "1", day(0)),
		purchase(prodTornillo, locStock, "1", "1", day(0)),
	}, inventory.CostingInboundOnly)

	rows := inventory.Rows(res, inventory.RowOptions{})
	require.Len(t, rows, 4)
	got := make([]inventory.Key, len(rows))
	for i, r := range rows {
		got[i] = key(r.ProductID, r.LocationID)
	}
	assert.Equal(t, []inventory.Key{
		key(prodTornillo, locStock), key(prodTornillo, locBodegaB),
		key(prodTuerca, locStock), key(prodTuerca, locBodegaB),
	}, got)
}

func TestRows_FiltroDeUbicacionLimitaFilas(t *testing.T) {
	res := forward(t, []entity.Movement{
		purchase(prodTornillo, locStock, "10", "1", day(0)),
		mov(prodTornillo, locStock, locBodegaB, "4", "1", day(1)),
	}, inventory.CostingInboundOnly)

	loc := locBodegaB
	rows := inventory.Rows(res, inventory.RowOptions{LocationID: &loc})
	require.Len(t, rows, 1)
	assert.Equal(t, locBodegaB, rows[0].LocationID)
}

func TestForward_ProductoOUbicacionDesconocidosSeDescartan(t *testing.T) {
	res := forward(t, []entity.Movement{
		purchase(999, locStock, "10", "1", day(0)),
		mov(prodTornillo, 777, locStock, "10", "1", day(0)),
		purchase(prodTornillo, locStock, "3", "1", day(1)),
	}, inventory.CostingInboundOnly)

	require.Len(t, res.Skipped, 2)
	assert.ErrorIs(t, res.Skipped[0].Reason, inventory.ErrUnknownProduct)
	assert.ErrorIs(t, res.Skipped[1].Reason, inventory.ErrUnknownLocation)
	assert.Equal(t, int64(777), res.Skipped[1].LocationID)
	assertDec(t, "3", res.QuantityOf(key(prodTornillo, locStock)), "el resto se procesa")
}

func TestForward_CantidadNoPositivaSeDescarta(t *testing.T) {
	res := forward(t, []entity.Movement{
		purchase(prodTornillo, locStock, "0", "1", day(0)),
	}, inventory.CostingInboundOnly)
	require.Len(t, res.Skipped, 1)
	assert.ErrorIs(t, res.Skipped[0].Reason, inventory.ErrInvalidQuantity)
}

func TestForward_SinMovimientosSinFilas(t *testing.T) {
	res := forward(t, nil, inventory.CostingInboundOnly)
	assert.Empty(t, inventory.Rows(res, inventory.RowOptions{}))
}
