package gap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockgap/internal/core/apperror"
	appctx "stockgap/internal/core/context"
	"stockgap/internal/core/id"
	"stockgap/internal/core/tx"
	"stockgap/internal/domain/catalogs/product"
	"stockgap/internal/domain/catalogs/salespoint"
	"stockgap/internal/domain/catalogs/warehouse"
)

// --- Fakes ---

type fakeTxManager struct {
	depth int
	runs  int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.depth++
	m.runs++
	defer func() { m.depth-- }()
	return fn(ctx)
}

type fakeReadOnlyManager struct {
	fakeTxManager
	roRuns int
}

func (m *fakeReadOnlyManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	m.roRuns++
	return fn(ctx)
}

type fakeWarehouseRepo struct {
	warehouses map[id.ID]*warehouse.Warehouse
}

func (f *fakeWarehouseRepo) GetByID(_ context.Context, whID id.ID) (*warehouse.Warehouse, error) {
	if wh, ok := f.warehouses[whID]; ok {
		return wh, nil
	}
	return nil, apperror.NewNotFound("warehouse", whID.String())
}

func (f *fakeWarehouseRepo) ListActive(_ context.Context) ([]warehouse.Warehouse, error) {
	out := make([]warehouse.Warehouse, 0, len(f.warehouses))
	for _, wh := range f.warehouses {
		out = append(out, *wh)
	}
	return out, nil
}

type fakeProductRepo struct {
	eligible []product.Product
}

func (f *fakeProductRepo) ListEligible(_ context.Context) ([]product.Product, error) {
	return f.eligible, nil
}

type fakeSalesPointRepo struct {
	ids []id.ID
}

func (f *fakeSalesPointRepo) ListByWarehouse(_ context.Context, whID id.ID) ([]salespoint.SalesPoint, error) {
	out := make([]salespoint.SalesPoint, 0, len(f.ids))
	for _, spID := range f.ids {
		out = append(out, salespoint.SalesPoint{ID: spID, WarehouseID: whID, Active: true})
	}
	return out, nil
}

func (f *fakeSalesPointRepo) ListIDsByWarehouse(_ context.Context, _ id.ID) ([]id.ID, error) {
	return f.ids, nil
}

type fakeGapRepo struct {
	txm *fakeTxManager

	movements []MovementRecord
	sales     []SalesLine
	receipts  []MovementRecord

	gotSalesPointIDs []id.ID
	gotThrough       time.Time

	saved        map[id.ID]*Analysis
	rows         map[id.ID][]GapRow
	replaceCalls int
	replaceInTx  bool
}

func newFakeGapRepo(txm *fakeTxManager) *fakeGapRepo {
	return &fakeGapRepo{
		txm:   txm,
		saved: make(map[id.ID]*Analysis),
		rows:  make(map[id.ID][]GapRow),
	}
}

func (f *fakeGapRepo) FinalizedMovementsThrough(_ context.Context, _ LocationSet, through time.Time) ([]MovementRecord, error) {
	f.gotThrough = through
	return f.movements, nil
}

func (f *fakeGapRepo) SalesLines(_ context.Context, salesPointIDs []id.ID, _, _ time.Time) ([]SalesLine, error) {
	f.gotSalesPointIDs = salesPointIDs
	return f.sales, nil
}

func (f *fakeGapRepo) IncomingReceipts(_ context.Context, _ id.ID, _, _ time.Time) ([]MovementRecord, error) {
	return f.receipts, nil
}

func (f *fakeGapRepo) SaveAnalysis(_ context.Context, a *Analysis) error {
	f.saved[a.ID] = a
	return nil
}

func (f *fakeGapRepo) ReplaceResultRows(_ context.Context, analysisID id.ID, rows []GapRow) error {
	f.replaceCalls++
	f.replaceInTx = f.txm.depth > 0
	f.rows[analysisID] = rows
	return nil
}

func (f *fakeGapRepo) GetAnalysis(_ context.Context, analysisID id.ID) (*Analysis, error) {
	if a, ok := f.saved[analysisID]; ok {
		return a, nil
	}
	return nil, apperror.NewNotFound("analysis", analysisID.String())
}

func (f *fakeGapRepo) ListAnalyses(_ context.Context, _, _ int) ([]Analysis, error) {
	out := make([]Analysis, 0, len(f.saved))
	for _, a := range f.saved {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeGapRepo) GetResultRows(_ context.Context, analysisID id.ID) ([]GapRow, error) {
	return f.rows[analysisID], nil
}

type failingRecorder struct{ calls int }

func (r *failingRecorder) RecordRun(_ context.Context, _ *Analysis, _ time.Duration) error {
	r.calls++
	return errors.New("audit table unavailable")
}

// --- Fixture ---

type serviceFixture struct {
	service *Service
	repo    *fakeGapRepo
	txm     *fakeTxManager
	ctx     context.Context

	warehouseID id.ID
	cola        product.Product
	water       product.Product
}

// newServiceFixture wires the worked example: cola opens at 100, sells a
// net 30, receives 10 and counts 75 on hand, leaving a gap of 5. Water
// reconciles cleanly.
func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	rootID := id.New()
	whID := id.New()
	spID := id.New()
	outside := id.New()

	tree := newFakeLocationTree()
	tree.known[rootID] = true

	cola := eligibleProduct("COLA-033")
	water := eligibleProduct("WATER-050")

	txm := &fakeTxManager{}
	repo := newFakeGapRepo(txm)
	repo.movements = []MovementRecord{
		{ProductID: cola.ID, SourceLocationID: outside, DestLocationID: rootID, Quantity: qty("100"), EffectiveDate: day(-1), Status: MovementDone},
		{ProductID: cola.ID, SourceLocationID: outside, DestLocationID: rootID, Quantity: qty("10"), EffectiveDate: day(3), Status: MovementDone},
		{ProductID: cola.ID, SourceLocationID: rootID, DestLocationID: outside, Quantity: qty("35"), EffectiveDate: day(10), Status: MovementDone},
		{ProductID: water.ID, SourceLocationID: outside, DestLocationID: rootID, Quantity: qty("50"), EffectiveDate: day(-1), Status: MovementDone},
		{ProductID: water.ID, SourceLocationID: rootID, DestLocationID: outside, Quantity: qty("20"), EffectiveDate: day(12), Status: MovementDone},
	}
	repo.sales = []SalesLine{
		{ProductID: cola.ID, Quantity: qty("32"), OrderDate: day(8), SalesPointID: spID, OrderStatus: OrderPaid},
		{ProductID: cola.ID, Quantity: qty("-2"), OrderDate: day(9), SalesPointID: spID, OrderStatus: OrderDone},
		{ProductID: water.ID, Quantity: qty("20"), OrderDate: day(11), SalesPointID: spID, OrderStatus: OrderInvoiced},
	}
	repo.receipts = []MovementRecord{
		{ProductID: cola.ID, Quantity: qty("10"), EffectiveDate: day(3), Status: MovementDone},
	}

	warehouses := &fakeWarehouseRepo{warehouses: map[id.ID]*warehouse.Warehouse{
		whID: {ID: whID, Name: "Main", Type: warehouse.TypeMain, RootLocationID: &rootID, IsActive: true},
	}}

	service := NewService(
		warehouses,
		tree,
		&fakeProductRepo{eligible: []product.Product{cola, water}},
		&fakeSalesPointRepo{ids: []id.ID{spID}},
		repo,
	)

	ctx := tx.WithManager(context.Background(), txm)
	ctx = appctx.WithUser(ctx, &appctx.UserContext{UserID: "analyst-1"})

	return &serviceFixture{
		service:     service,
		repo:        repo,
		txm:         txm,
		ctx:         ctx,
		warehouseID: whID,
		cola:        cola,
		water:       water,
	}
}

func (f *serviceFixture) request() AnalysisRequest {
	return AnalysisRequest{
		WarehouseID: f.warehouseID,
		DateFrom:    day(0),
		DateTo:      day(30),
	}
}

// --- Tests ---

func TestService_Compute_WorkedExample(t *testing.T) {
	f := newServiceFixture(t)

	analysis, rows, err := f.service.Compute(f.ctx, f.request())
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, 2, analysis.RowCount)
	assert.Equal(t, "analyst-1", analysis.ComputedBy)
	assert.False(t, id.IsNil(analysis.ID))

	// Cola ranks first: gap of 5 versus water's 0.
	cola := rows[0]
	assert.Equal(t, "COLA-033", cola.ProductSKU)
	assert.Equal(t, qty("100"), cola.QtyStart)
	assert.Equal(t, qty("30"), cola.QtySold)
	assert.Equal(t, qty("10"), cola.QtyReceived)
	assert.Equal(t, qty("80"), cola.QtyTheoretical)
	assert.Equal(t, qty("75"), cola.QtyActual)
	assert.Equal(t, qty("5"), cola.QtyGap)

	water := rows[1]
	assert.Equal(t, "WATER-050", water.ProductSKU)
	assert.True(t, water.QtyGap.IsZero())

	// Ledger scanned once, through the window end.
	assert.Equal(t, DateOnly(day(30)), f.repo.gotThrough)
}

func TestService_Compute_PersistsInsideTransaction(t *testing.T) {
	f := newServiceFixture(t)

	analysis, rows, err := f.service.Compute(f.ctx, f.request())
	require.NoError(t, err)

	assert.Equal(t, 1, f.txm.runs)
	assert.True(t, f.repo.replaceInTx)
	assert.Equal(t, rows, f.repo.rows[analysis.ID])

	stored, err := f.service.Rows(f.ctx, analysis.ID)
	require.NoError(t, err)
	assert.Equal(t, rows, stored)
}

func TestService_Compute_RerunReplacesRows(t *testing.T) {
	f := newServiceFixture(t)

	req := f.request()
	req.ID = id.New()

	_, first, err := f.service.Compute(f.ctx, req)
	require.NoError(t, err)

	// Shrink the ledger and re-run under the same id.
	f.repo.movements = f.repo.movements[:4]
	f.repo.sales = nil
	f.repo.receipts = nil

	_, second, err := f.service.Compute(f.ctx, req)
	require.NoError(t, err)

	assert.Equal(t, 2, f.repo.replaceCalls)
	assert.NotEqual(t, first, second)
	assert.Equal(t, second, f.repo.rows[req.ID])
}

func TestService_Compute_Validation(t *testing.T) {
	f := newServiceFixture(t)

	_, _, err := f.service.Compute(f.ctx, AnalysisRequest{DateFrom: day(0), DateTo: day(1)})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	req := f.request()
	req.DateFrom, req.DateTo = req.DateTo, req.DateFrom
	_, _, err = f.service.Compute(f.ctx, req)
	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestService_Compute_SingleDayWindow(t *testing.T) {
	f := newServiceFixture(t)

	req := f.request()
	req.DateFrom = day(10)
	req.DateTo = day(10)

	_, _, err := f.service.Compute(f.ctx, req)
	require.NoError(t, err)
}

func TestService_Compute_WarehouseWithoutRootLocation(t *testing.T) {
	f := newServiceFixture(t)
	whID := id.New()
	f.repo.movements = nil
	f.service.warehouses.(*fakeWarehouseRepo).warehouses[whID] = &warehouse.Warehouse{
		ID: whID, Name: "No root", Type: warehouse.TypeMain, IsActive: true,
	}

	req := f.request()
	req.WarehouseID = whID

	_, _, err := f.service.Compute(f.ctx, req)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidWarehouse, appErr.Code)
}

func TestService_Compute_NoSalesPointsUsesSentinel(t *testing.T) {
	f := newServiceFixture(t)
	f.service.salesPoints = &fakeSalesPointRepo{ids: nil}

	_, _, err := f.service.Compute(f.ctx, f.request())
	require.NoError(t, err)

	require.Len(t, f.repo.gotSalesPointIDs, 1)
	assert.True(t, id.IsNil(f.repo.gotSalesPointIDs[0]))
}

func TestService_Compute_RecorderFailureIsNotFatal(t *testing.T) {
	f := newServiceFixture(t)
	recorder := &failingRecorder{}
	f.service.WithRecorder(recorder)

	_, _, err := f.service.Compute(f.ctx, f.request())
	require.NoError(t, err)
	assert.Equal(t, 1, recorder.calls)
}

func TestService_Rows_ReadOnlySnapshot(t *testing.T) {
	f := newServiceFixture(t)

	analysis, rows, err := f.service.Compute(f.ctx, f.request())
	require.NoError(t, err)

	ro := &fakeReadOnlyManager{}
	ctx := tx.WithManager(f.ctx, ro)

	got, err := f.service.Rows(ctx, analysis.ID)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
	assert.Equal(t, 1, ro.roRuns)
}

func TestService_Rows_UnknownAnalysis(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Rows(f.ctx, id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
