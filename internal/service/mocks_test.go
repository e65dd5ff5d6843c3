package service

import (
	"context"
	"io"
	"time"

	"zapdispatch/internal/models"
	"zapdispatch/pkg/sendchannel"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tenant), args.Error(1)
}

func (m *mockStore) ListEligibleScheduledMessages(ctx context.Context, ownerID string, now time.Time, staleness time.Duration) ([]models.ScheduledMessage, error) {
	args := m.Called(ctx, ownerID, now, staleness)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScheduledMessage), args.Error(1)
}

func (m *mockStore) ClaimScheduledMessage(ctx context.Context, id int64, now time.Time, staleness time.Duration) (*models.ScheduledMessage, error) {
	args := m.Called(ctx, id, now, staleness)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScheduledMessage), args.Error(1)
}

func (m *mockStore) MarkScheduledMessageSent(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockStore) MarkScheduledMessageError(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockStore) RescheduleScheduledMessage(ctx context.Context, id int64, nextTrigger time.Time) error {
	args := m.Called(ctx, id, nextTrigger)
	return args.Error(0)
}

func (m *mockStore) ListDueClients(ctx context.Context, ownerID string, now time.Time) ([]models.Client, error) {
	args := m.Called(ctx, ownerID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Client), args.Error(1)
}

func (m *mockStore) ClaimClientDueDate(ctx context.Context, id int64, now time.Time) (*models.Client, error) {
	args := m.Called(ctx, id, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) Send(ctx context.Context, req sendchannel.SendRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) DispatchScheduled(ctx context.Context, msg *models.ScheduledMessage, tenant *models.Tenant) error {
	args := m.Called(ctx, msg, tenant)
	return args.Error(0)
}

func (m *mockExecutor) DispatchDueDate(ctx context.Context, client *models.Client, tenant *models.Tenant) error {
	args := m.Called(ctx, client, tenant)
	return args.Error(0)
}
