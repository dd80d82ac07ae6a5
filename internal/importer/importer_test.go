package importer

import (
	"context"
	"testing"
	"time"

	"sellsync/internal/database"
	"sellsync/internal/logger"
	"sellsync/internal/models"
	"sellsync/internal/repository"
	"sellsync/internal/spreadsheet"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestService(t *testing.T) (*Service, *repository.Store, string) {
	t.Helper()
	db, err := database.New("sqlite://file:" + uuid.New().String() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := repository.New(db.DB)
	account, err := store.EnsureAccount(context.Background(), uuid.New().String())
	require.NoError(t, err)

	svc := NewService(spreadsheet.NewParser(spreadsheet.DialectAuto, logger.Nop()), store, logger.Nop())
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC) }
	return svc, store, account.ID
}

func workbook(t *testing.T, sheets map[string][][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range rows {
			axis, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(name, axis, &values))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestImport_CountsAndReimport(t *testing.T) {
	svc, store, accountID := newTestService(t)
	ctx := context.Background()

	data := workbook(t, map[string][][]any{
		"eBay 2024": {
			{"Item #", "Description", "Sale Price", "Listed Price", "Supplies", "Date Sold"},
			{"A-100", "Brass lamp", 45.5, 50, 2, "2024-03-01"},
		},
		"Items to Sell": {
			{"Item #", "Description", "Minimum", "Cost", "Sold"},
			{"B-7", "Oak table", 100, 40, ""},
		},
	})

	outcome, err := svc.Import(ctx, accountID, data)
	require.NoError(t, err)
	assert.Empty(t, outcome.Errors)
	assert.Equal(t, 1, outcome.SalesCreated)
	assert.Equal(t, 1, outcome.InventoryCreated)
	assert.Equal(t, 0, outcome.DepositsCreated)

	again, err := svc.Import(ctx, accountID, data)
	require.NoError(t, err)
	assert.Equal(t, 0, again.SalesCreated)
	assert.Equal(t, 0, again.InventoryCreated)
	assert.Equal(t, 2, again.DuplicatesSkipped)

	sales, total, err := store.ListSales(ctx, accountID, repository.SaleQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.NotNil(t, sales[0].Item)
	assert.Equal(t, "A-100", sales[0].Item.ItemNumber)
}

func TestImport_UndatedRowsUseImportDay(t *testing.T) {
	svc, store, accountID := newTestService(t)
	ctx := context.Background()

	data := workbook(t, map[string][][]any{
		"USB Deposits": {
			{"Date", "Description", "Total"},
			{"", "Flash drive", 20},
		},
	})

	outcome, err := svc.Import(ctx, accountID, data)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.DepositsCreated)

	// The next day's import must still recognize the row.
	svc.now = func() time.Time { return time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC) }
	outcome, err = svc.Import(ctx, accountID, data)
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.DepositsCreated)
	assert.Equal(t, 1, outcome.DuplicatesSkipped)

	deposits, err := store.ListDeposits(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, deposits, 1)
	assert.True(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).Equal(deposits[0].SoldDate))
}

func TestImport_UnreadableWorkbook(t *testing.T) {
	svc, _, accountID := newTestService(t)

	_, err := svc.Import(context.Background(), accountID, []byte("not a workbook"))
	assert.ErrorIs(t, err, spreadsheet.ErrUnsupportedWorkbook)
}

type failingStore struct {
	Store
}

func (failingStore) CreateDepositIfAbsent(ctx context.Context, deposit *models.Deposit, matchDate bool) (bool, error) {
	return false, assert.AnError
}

func TestImport_PersistenceErrorsAreCollected(t *testing.T) {
	svc := NewService(spreadsheet.NewParser(spreadsheet.DialectAuto, logger.Nop()), failingStore{}, logger.Nop())
	data := workbook(t, map[string][][]any{
		"USB Deposits": {
			{"Date", "Description", "Total"},
			{"2024-04-02", "Flash drive", 20},
		},
	})

	outcome, err := svc.Import(context.Background(), "acct", data)
	require.NoError(t, err)
	require.Len(t, outcome.Errors, 1)
	assert.Contains(t, outcome.Errors[0], `Sheet "USB Deposits" row 2: deposit "Flash drive"`)
}
