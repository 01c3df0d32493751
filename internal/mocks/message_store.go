package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chatroom-service/internal/models"
	"chatroom-service/internal/repositories"
)

var _ repositories.MessageStore = (*MessageStoreMock)(nil)

type MessageStoreMock struct {
	mock.Mock
}

func (m *MessageStoreMock) EnsureRoom(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *MessageStoreMock) Append(ctx context.Context, roomID string, text string) (models.Message, error) {
	args := m.Called(ctx, roomID, text)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageStoreMock) List(ctx context.Context, roomID string) ([]models.Message, error) {
	args := m.Called(ctx, roomID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageStoreMock) Backend() string {
	args := m.Called()
	return args.String(0)
}

func (m *MessageStoreMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
