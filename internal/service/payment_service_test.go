package service

import (
	"context"
	"sync"
	"testing"

	"github.com/fintrackhq/fintrack-backend/internal/repository"
	"github.com/fintrackhq/fintrack-backend/internal/socket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	svc      PaymentService
	repo     *fakePaymentRepo
	users    *fakeUserRepo
	notifier *fakeNotifier
	ctx      context.Context
}

func setupPaymentService(t *testing.T) *paymentFixture {
	t.Helper()
	repo := newFakePaymentRepo()
	users := newFakeUserRepo()
	notifier := &fakeNotifier{}
	return &paymentFixture{
		svc:      NewPaymentService(repo, users, notifier),
		repo:     repo,
		users:    users,
		notifier: notifier,
		ctx:      context.Background(),
	}
}

func (f *paymentFixture) createPending(t *testing.T) *repository.PaymentRequest {
	t.Helper()
	pr, err := f.svc.Create(f.ctx, CreatePaymentRequestInput{
		SenderID:    "sender",
		SenderName:  "Alma",
		RecipientID: "recipient",
		Amount:      decimal.NewFromFloat(412.50),
		Description: "Your half of utilities",
	})
	require.NoError(t, err)
	return pr
}

func TestPaymentCreateNotifiesRecipient(t *testing.T) {
	f := setupPaymentService(t)

	pr := f.createPending(t)
	assert.Equal(t, StatusPending, pr.Status)

	events := f.notifier.forUser("recipient")
	require.Len(t, events, 1)
	assert.Equal(t, socket.EventReceivePaymentRequest, events[0].Event)
	assert.Equal(t, pr.ID, events[0].Payload["id"])
	assert.Equal(t, "Alma", events[0].Payload["senderName"])
}

func TestPaymentCreateValidation(t *testing.T) {
	f := setupPaymentService(t)

	_, err := f.svc.Create(f.ctx, CreatePaymentRequestInput{
		SenderID:    "sender",
		RecipientID: "recipient",
		Amount:      decimal.Zero,
		Description: "zero amount",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Create(f.ctx, CreatePaymentRequestInput{
		SenderID:    "sender",
		RecipientID: "recipient",
		Amount:      decimal.NewFromInt(-5),
		Description: "negative amount",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Create(f.ctx, CreatePaymentRequestInput{
		SenderID:    "sender",
		RecipientID: "recipient",
		Amount:      decimal.NewFromInt(5),
		Description: "   ",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPaymentCreateResolvesSenderName(t *testing.T) {
	f := setupPaymentService(t)
	require.NoError(t, f.users.Upsert(f.ctx, &repository.User{
		ID: "sender", Email: "s@example.com", Name: "Alma Reyes",
	}))

	pr, err := f.svc.Create(f.ctx, CreatePaymentRequestInput{
		SenderID:    "sender",
		RecipientID: "recipient",
		Amount:      decimal.NewFromInt(10),
		Description: "coffee",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alma Reyes", pr.SenderName)
}

func TestPaymentStatusTransitions(t *testing.T) {
	f := setupPaymentService(t)

	// pending → approved → paid is the happy path.
	pr := f.createPending(t)
	updated, err := f.svc.UpdateStatus(f.ctx, pr.ID, StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, updated.Status)

	updated, err = f.svc.UpdateStatus(f.ctx, pr.ID, StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, updated.Status)

	// Terminal: no further transitions out of paid.
	_, err = f.svc.UpdateStatus(f.ctx, pr.ID, StatusApproved)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.svc.UpdateStatus(f.ctx, pr.ID, StatusRejected)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// pending → rejected is terminal too.
	pr2 := f.createPending(t)
	_, err = f.svc.UpdateStatus(f.ctx, pr2.ID, StatusRejected)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(f.ctx, pr2.ID, StatusApproved)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.svc.UpdateStatus(f.ctx, pr2.ID, StatusPaid)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// pending → paid skips approval and is rejected.
	pr3 := f.createPending(t)
	_, err = f.svc.UpdateStatus(f.ctx, pr3.ID, StatusPaid)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Unknown statuses never match a transition.
	_, err = f.svc.UpdateStatus(f.ctx, pr3.ID, "cancelled")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPaymentUpdateStatusNotFound(t *testing.T) {
	f := setupPaymentService(t)

	_, err := f.svc.UpdateStatus(f.ctx, "missing", StatusApproved)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPaymentUpdateNotifiesSender(t *testing.T) {
	f := setupPaymentService(t)
	require.NoError(t, f.users.Upsert(f.ctx, &repository.User{
		ID: "recipient", Email: "r@example.com", Name: "Dimitri Volkov",
	}))

	pr := f.createPending(t)
	_, err := f.svc.UpdateStatus(f.ctx, pr.ID, StatusApproved)
	require.NoError(t, err)

	events := f.notifier.forUser("sender")
	require.Len(t, events, 1)
	assert.Equal(t, socket.EventPaymentRequestUpdated, events[0].Event)
	assert.Equal(t, StatusApproved, events[0].Payload["status"])
	assert.Equal(t, "Dimitri Volkov", events[0].Payload["recipientName"])
}

func TestPaymentConcurrentConflictingUpdates(t *testing.T) {
	f := setupPaymentService(t)
	pr := f.createPending(t)

	// Approve and reject race; the compare-and-set lets exactly one win.
	var wg sync.WaitGroup
	results := make([]error, 2)
	statuses := []string{StatusApproved, StatusRejected}
	for i := range statuses {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.svc.UpdateStatus(f.ctx, pr.ID, statuses[i])
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, winners)
}

func TestPaymentListForUser(t *testing.T) {
	f := setupPaymentService(t)
	f.createPending(t)

	sent, err := f.svc.ListForUser(f.ctx, "sender", "sent")
	require.NoError(t, err)
	assert.Len(t, sent, 1)

	received, err := f.svc.ListForUser(f.ctx, "recipient", "received")
	require.NoError(t, err)
	assert.Len(t, received, 1)

	none, err := f.svc.ListForUser(f.ctx, "sender", "received")
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := f.svc.ListForUser(f.ctx, "sender", "")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = f.svc.ListForUser(f.ctx, "sender", "bogus")
	assert.ErrorIs(t, err, ErrValidation)
}
