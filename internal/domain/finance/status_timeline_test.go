package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func at(hours int) *time.Time {
	t := base.Add(time.Duration(hours) * time.Hour)
	return &t
}

func storedPayment(number string, method PaymentMethod, status PaymentStatus, created time.Time) Payment {
	p := Payment{
		PaymentNumber: number,
		Method:        method,
		Amount:        decimal.NewFromInt(100),
		Status:        status,
		PaidAt:        created,
	}
	p.ID = uuid.New()
	p.CreatedAt = created
	p.UpdatedAt = created
	return p
}

func TestReconstructStatusChanges_Derived(t *testing.T) {
	cash := storedPayment("PAY-3", PaymentMethodCash, PaymentStatusRealized, *at(2))
	cash.RealizedAt = at(2)

	bounced := storedPayment("PAY-1", PaymentMethodCheque, PaymentStatusBounced, *at(0))
	bounced.BouncedAt = at(5)

	pendingCredit := storedPayment("PAY-2", PaymentMethodCredit, PaymentStatusPending, *at(1))

	changes := ReconstructStatusChanges([]Payment{cash, bounced, pendingCredit})
	require.Len(t, changes, 4)

	type step struct {
		number string
		from   PaymentStatus
		to     PaymentStatus
	}
	var got []step
	for _, c := range changes {
		got = append(got, step{c.PaymentNumber, c.From, c.To})
	}
	assert.Equal(t, []step{
		{"PAY-1", "", PaymentStatusPending},
		{"PAY-2", "", PaymentStatusPending},
		{"PAY-3", "", PaymentStatusRealized},
		{"PAY-1", PaymentStatusPending, PaymentStatusBounced},
	}, got)
	assert.True(t, changes[3].ChangedAt.Equal(*at(5)))
	assert.True(t, changes[3].Amount.Equal(decimal.NewFromInt(100)))
}

func TestReconstructStatusChanges_TerminalWithoutTimestamp(t *testing.T) {
	p := storedPayment("PAY-9", PaymentMethodCredit, PaymentStatusSettled, *at(0))
	p.UpdatedAt = *at(24)

	changes := ReconstructStatusChanges([]Payment{p})
	require.Len(t, changes, 2)
	assert.Equal(t, PaymentStatusSettled, changes[1].To)
	assert.True(t, changes[1].ChangedAt.Equal(*at(24)))
}

func TestReconstructStatusChanges_SameInstantKeepsLifecycleOrder(t *testing.T) {
	p := storedPayment("PAY-5", PaymentMethodCheque, PaymentStatusRealized, *at(3))
	p.RealizedAt = at(3)

	changes := ReconstructStatusChanges([]Payment{p})
	require.Len(t, changes, 2)
	assert.Equal(t, PaymentStatusPending, changes[0].To)
	assert.Equal(t, PaymentStatusRealized, changes[1].To)
}

func TestReconstructStatusChanges_PrefersRecordedHistory(t *testing.T) {
	p := storedPayment("PAY-7", PaymentMethodCheque, PaymentStatusRealized, *at(0))
	p.History = []StatusChange{
		{ID: uuid.New(), From: PaymentStatusPending, To: PaymentStatusRealized, ChangedAt: *at(8), Note: "cleared"},
		{ID: uuid.New(), From: "", To: PaymentStatusPending, ChangedAt: *at(0)},
	}

	changes := ReconstructStatusChanges([]Payment{p})
	require.Len(t, changes, 2)
	assert.Equal(t, PaymentStatusPending, changes[0].To)
	assert.Equal(t, "cleared", changes[1].Note)
	assert.Equal(t, "PAY-7", changes[1].PaymentNumber)
	assert.Equal(t, p.ID, changes[1].PaymentID)
}

func TestReconstructStatusChanges_Deterministic(t *testing.T) {
	p := storedPayment("PAY-1", PaymentMethodCheque, PaymentStatusPending, *at(0))
	first := ReconstructStatusChanges([]Payment{p})
	second := ReconstructStatusChanges([]Payment{p})
	assert.Equal(t, first[0].ID, second[0].ID)

	assert.Empty(t, ReconstructStatusChanges(nil))
}
