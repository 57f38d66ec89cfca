package expenses

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/fleet-ops-ledger/internal/db/dbtest"
	"github.com/ukydev/fleet-ops-ledger/internal/faults"
	"github.com/ukydev/fleet-ops-ledger/internal/models"
)

const testCompany = "acme-haulage"

type fixture struct {
	expenses *dbtest.ExpenseStore
	trips    *dbtest.TripStore
	service  *Service
}

func newFixture() *fixture {
	f := &fixture{
		expenses: dbtest.NewExpenseStore(),
		trips:    dbtest.NewTripStore(),
	}
	f.service = NewService(f.expenses, f.trips)
	return f
}

func validInput() CreateInput {
	return CreateInput{
		Type:        models.ExpenseFuel,
		Date:        time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		Description: "Diesel top-up, Mutare depot",
		Amount:      420,
	}
}

func TestCreate_StartsPending(t *testing.T) {
	f := newFixture()

	expense, err := f.service.Create(context.Background(), testCompany, validInput())
	require.NoError(t, err)

	assert.Equal(t, models.ExpensePending, expense.Status)
	assert.Empty(t, expense.DecidedBy)
	assert.Nil(t, expense.DecidedAt)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture()

	in := validInput()
	in.Type = "groceries"
	_, err := f.service.Create(context.Background(), testCompany, in)
	assert.ErrorIs(t, err, faults.ErrValidation)

	in = validInput()
	in.Amount = 0
	_, err = f.service.Create(context.Background(), testCompany, in)
	assert.ErrorIs(t, err, faults.ErrValidation)

	in = validInput()
	in.Description = "   "
	_, err = f.service.Create(context.Background(), testCompany, in)
	assert.ErrorIs(t, err, faults.ErrValidation)

	in = validInput()
	in.Date = time.Time{}
	_, err = f.service.Create(context.Background(), testCompany, in)
	assert.ErrorIs(t, err, faults.ErrValidation)
}

func TestCreate_TripLinkChecked(t *testing.T) {
	f := newFixture()

	in := validInput()
	in.TripID = "64f000000000000000000000"
	_, err := f.service.Create(context.Background(), testCompany, in)
	assert.ErrorIs(t, err, faults.ErrNotFound)

	tripID := f.trips.Seed(models.Trip{CompanyID: testCompany, Status: models.TripInTransit})
	in.TripID = tripID
	expense, err := f.service.Create(context.Background(), testCompany, in)
	require.NoError(t, err)
	assert.Equal(t, tripID, expense.TripID)
}

func TestApprove_StampsDecision(t *testing.T) {
	f := newFixture()
	expense, err := f.service.Create(context.Background(), testCompany, validInput())
	require.NoError(t, err)

	approved, err := f.service.Approve(context.Background(), testCompany, expense.ID.Hex(), "ops-manager")
	require.NoError(t, err)

	assert.Equal(t, models.ExpenseApproved, approved.Status)
	assert.Equal(t, "ops-manager", approved.DecidedBy)
	assert.NotNil(t, approved.DecidedAt)
}

func TestReject_RequiresReason(t *testing.T) {
	f := newFixture()
	expense, err := f.service.Create(context.Background(), testCompany, validInput())
	require.NoError(t, err)

	_, err = f.service.Reject(context.Background(), testCompany, expense.ID.Hex(), "ops-manager", "   ")
	assert.ErrorIs(t, err, faults.ErrValidation)

	rejected, err := f.service.Reject(context.Background(), testCompany, expense.ID.Hex(), "ops-manager", "no receipt attached")
	require.NoError(t, err)
	assert.Equal(t, models.ExpenseRejected, rejected.Status)
	assert.Equal(t, "no receipt attached", rejected.RejectionReason)
}

func TestDecide_OnlyOnce(t *testing.T) {
	f := newFixture()
	expense, err := f.service.Create(context.Background(), testCompany, validInput())
	require.NoError(t, err)
	id := expense.ID.Hex()

	_, err = f.service.Approve(context.Background(), testCompany, id, "ops-manager")
	require.NoError(t, err)

	_, err = f.service.Approve(context.Background(), testCompany, id, "ops-manager")
	assert.ErrorIs(t, err, faults.ErrAlreadyDecided)

	_, err = f.service.Reject(context.Background(), testCompany, id, "ops-manager", "changed my mind")
	assert.ErrorIs(t, err, faults.ErrAlreadyDecided)
}

func TestDecide_TenantScoping(t *testing.T) {
	f := newFixture()
	foreign := f.expenses.Seed(models.Expense{CompanyID: "someone-else", Status: models.ExpensePending})

	_, err := f.service.Approve(context.Background(), testCompany, foreign, "ops-manager")
	assert.ErrorIs(t, err, faults.ErrNotFound)
}

func TestList_FiltersByStatusAndWindow(t *testing.T) {
	f := newFixture()
	march := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)
	f.expenses.Seed(models.Expense{CompanyID: testCompany, Status: models.ExpenseApproved, Date: march, Amount: 100})
	f.expenses.Seed(models.Expense{CompanyID: testCompany, Status: models.ExpenseApproved, Date: april, Amount: 200})
	f.expenses.Seed(models.Expense{CompanyID: testCompany, Status: models.ExpensePending, Date: march, Amount: 300})

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	result, err := f.service.List(context.Background(), testCompany, models.ExpenseApproved, &from, &to)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 100.0, result[0].Amount)
}
