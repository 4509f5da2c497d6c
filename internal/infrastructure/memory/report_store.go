package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
	"github.com/jhoicas/inventario-historico/internal/domain/repository"
)

// ReportStore tabla materializada en memoria. También actúa como TxRunner:
// los cambios se escriben en una copia y solo se publican si fn termina sin error.
type ReportStore struct {
	mu   sync.RWMutex
	rows []entity.ReportRow
	run  *entity.ReportRun

	// FailInsert si no es nil lo devuelve BulkInsert (simula fallo a mitad de la transacción).
	FailInsert error
}

// NewReportStore construye la tabla vacía.
func NewReportStore() *ReportStore {
	return &ReportStore{}
}

// Run ejecuta fn sobre una copia y la publica al terminar sin error.
func (s *ReportStore) Run(ctx context.Context, fn func(sink repository.ReportSink) error) error {
	s.mu.RLock()
	tx := &stagedSink{
		rows:       append([]entity.ReportRow(nil), s.rows...),
		run:        s.run,
		failInsert: s.FailInsert,
	}
	s.mu.RUnlock()

	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sort.SliceStable(tx.rows, func(i, j int) bool {
		if tx.rows[i].ProductID != tx.rows[j].ProductID {
			return tx.rows[i].ProductID < tx.rows[j].ProductID
		}
		return tx.rows[i].LocationID < tx.rows[j].LocationID
	})

	s.mu.Lock()
	s.rows = tx.rows
	s.run = tx.run
	s.mu.Unlock()
	return nil
}

// List devuelve una página de filas.
func (s *ReportStore) List(ctx context.Context, limit, offset int) ([]entity.ReportRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if offset >= len(s.rows) {
		return []entity.ReportRow{}, nil
	}
	end := offset + limit
	if end > len(s.rows) {
		end = len(s.rows)
	}
	return append([]entity.ReportRow(nil), s.rows[offset:end]...), nil
}

// All devuelve todas las filas.
func (s *ReportStore) All(ctx context.Context) ([]entity.ReportRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.ReportRow(nil), s.rows...), nil
}

// Count total de filas.
func (s *ReportStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows), ctx.Err()
}

// LastRun ejecución vigente; nil si nunca se generó.
func (s *ReportStore) LastRun(ctx context.Context) (*entity.ReportRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.run == nil {
		return nil, ctx.Err()
	}
	run := *s.run
	return &run, ctx.Err()
}

type stagedSink struct {
	rows       []entity.ReportRow
	run        *entity.ReportRun
	failInsert error
}

func (t *stagedSink) Clear(ctx context.Context) error {
	t.rows = nil
	return ctx.Err()
}

func (t *stagedSink) BulkInsert(ctx context.Context, rows []entity.ReportRow) error {
	if t.failInsert != nil {
		return t.failInsert
	}
	t.rows = append(t.rows, rows...)
	return ctx.Err()
}

func (t *stagedSink) SaveRun(ctx context.Context, run entity.ReportRun) error {
	t.run = &run
	return ctx.Err()
}
