package finance

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// ReconstructStatusChanges flattens the lifecycle of the given payments into a
// single timeline ordered by time. Payments that carry recorded history
// contribute those rows. Payments loaded without history have their steps
// derived from the lifecycle timestamps. Ties are broken by payment number
// and then by lifecycle order, so creation always precedes its outcome.
func ReconstructStatusChanges(payments []Payment) []StatusChange {
	changes := make([]StatusChange, 0, len(payments)*2)
	for i := range payments {
		p := &payments[i]
		if len(p.History) > 0 {
			for _, h := range p.History {
				h.PaymentID = p.ID
				h.PaymentNumber = p.PaymentNumber
				h.Method = p.Method
				h.Amount = p.Amount
				changes = append(changes, h)
			}
			continue
		}
		changes = append(changes, deriveStatusChanges(p)...)
	}

	sort.SliceStable(changes, func(i, j int) bool {
		a, b := changes[i], changes[j]
		if !a.ChangedAt.Equal(b.ChangedAt) {
			return a.ChangedAt.Before(b.ChangedAt)
		}
		if a.PaymentNumber != b.PaymentNumber {
			return a.PaymentNumber < b.PaymentNumber
		}
		return lifecycleRank(a.From) < lifecycleRank(b.From)
	})
	return changes
}

// ChangesBetween keeps the changes made within [from, to]. A nil bound is open.
func ChangesBetween(changes []StatusChange, from, to *time.Time) []StatusChange {
	if from == nil && to == nil {
		return changes
	}
	out := changes[:0:0]
	for _, c := range changes {
		if from != nil && c.ChangedAt.Before(*from) {
			continue
		}
		if to != nil && c.ChangedAt.After(*to) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func deriveStatusChanges(p *Payment) []StatusChange {
	initial := PaymentStatusRealized
	if p.Method.IsDeferred() {
		initial = PaymentStatusPending
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = p.PaidAt
	}

	out := []StatusChange{newDerivedChange(p, "", initial, createdAt)}
	if initial == PaymentStatusRealized || p.Status == PaymentStatusPending {
		return out
	}

	var at *time.Time
	switch p.Status {
	case PaymentStatusRealized:
		at = p.RealizedAt
	case PaymentStatusBounced:
		at = p.BouncedAt
	case PaymentStatusSettled:
		at = p.SettledAt
	case PaymentStatusCancelled:
		at = p.CancelledAt
	}
	when := p.UpdatedAt
	if at != nil {
		when = *at
	}
	if when.Before(createdAt) {
		when = createdAt
	}
	return append(out, newDerivedChange(p, PaymentStatusPending, p.Status, when))
}

func newDerivedChange(p *Payment, from, to PaymentStatus, at time.Time) StatusChange {
	return StatusChange{
		ID:            uuid.NewSHA1(p.ID, []byte(string(from)+">"+string(to))),
		PaymentID:     p.ID,
		PaymentNumber: p.PaymentNumber,
		Method:        p.Method,
		Amount:        p.Amount,
		From:          from,
		To:            to,
		ChangedAt:     at,
	}
}

// lifecycleRank orders entries of one payment that share a timestamp
func lifecycleRank(from PaymentStatus) int {
	if from == "" {
		return 0
	}
	return 1
}
