package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/veilpay/notesync/internal/crypto"
	"github.com/veilpay/notesync/internal/logger"
	"github.com/veilpay/notesync/internal/mock"
	"github.com/veilpay/notesync/models"
)

func fastRetryPolicy(maxAttempts uint64) RetryPolicy {
	return RetryPolicy{Backoff: time.Millisecond, MaxAttempts: maxAttempts}
}

func TestCheckSpent_EitherMarkerMeansSpent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	notes := []models.Note{
		{Amount: 1, Nullifier: "null-a"},
		{Amount: 2, Nullifier: "null-b"},
		{Amount: 3, Nullifier: "null-c"},
		{Amount: 4, Nullifier: "null-d"},
	}

	var wantAddrs []string
	for _, n := range notes {
		a, b := crypto.DeriveMarkerPair(n.Nullifier, testProgramID)
		wantAddrs = append(wantAddrs, a, b)
	}

	ledger := mock.NewMockLedgerAdapter(ctrl)
	ledger.EXPECT().
		GetAccounts(gomock.Any(), wantAddrs).
		Return([]*models.Account{
			{Address: wantAddrs[0]}, nil, // first marker only
			nil, {Address: wantAddrs[3]}, // second marker only
			{Address: wantAddrs[4]}, {Address: wantAddrs[5]}, // both
			nil, nil, // neither
		}, nil)

	svc := NewSpentCheckService(ledger, testProgramID, fastRetryPolicy(1), logger.Nop())

	spent, err := svc.CheckSpent(context.Background(), notes)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true, false}, spent)
}

func TestCheckSpent_RetriesUntilSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := mock.NewMockLedgerAdapter(ctrl)
	gomock.InOrder(
		ledger.EXPECT().GetAccounts(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("rpc unavailable")),
		ledger.EXPECT().GetAccounts(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("rpc unavailable")),
		ledger.EXPECT().GetAccounts(gomock.Any(), gomock.Any()).
			Return([]*models.Account{nil, nil}, nil),
	)

	svc := NewSpentCheckService(ledger, testProgramID, fastRetryPolicy(0), logger.Nop())

	spent, err := svc.CheckSpent(context.Background(), []models.Note{{Nullifier: "n"}})
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, spent)
}

func TestCheckSpent_BoundedPolicyExhausts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := mock.NewMockLedgerAdapter(ctrl)
	ledger.EXPECT().GetAccounts(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("rpc unavailable")).
		Times(3)

	svc := NewSpentCheckService(ledger, testProgramID, fastRetryPolicy(3), logger.Nop())

	_, err := svc.CheckSpent(context.Background(), []models.Note{{Nullifier: "n"}})
	require.Error(t, err)
}

func TestCheckSpent_ContextCancelStopsUnboundedRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := mock.NewMockLedgerAdapter(ctrl)
	ledger.EXPECT().GetAccounts(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("rpc unavailable")).
		MinTimes(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	svc := NewSpentCheckService(ledger, testProgramID, fastRetryPolicy(0), logger.Nop())

	_, err := svc.CheckSpent(ctx, []models.Note{{Nullifier: "n"}})
	require.Error(t, err)
}

func TestCheckSpent_EmptyInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewSpentCheckService(mock.NewMockLedgerAdapter(ctrl), testProgramID, fastRetryPolicy(1), logger.Nop())

	spent, err := svc.CheckSpent(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, spent)
}

func TestIsSpent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := mock.NewMockLedgerAdapter(ctrl)
	ledger.EXPECT().GetAccounts(gomock.Any(), gomock.Any()).
		Return([]*models.Account{{Address: "marker"}, nil}, nil)

	svc := NewSpentCheckService(ledger, testProgramID, fastRetryPolicy(1), logger.Nop())

	spent, err := svc.IsSpent(context.Background(), models.Note{Nullifier: "n"})
	require.NoError(t, err)
	assert.True(t, spent)
}
