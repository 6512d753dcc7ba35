package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"farmdirect/internal/domain"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByUUID(ctx context.Context, uuid string) (*domain.User, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockListingRepo struct {
	mock.Mock
}

func (m *MockListingRepo) Create(ctx context.Context, l *domain.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockListingRepo) GetByUUID(ctx context.Context, uuid string) (*domain.Listing, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingRepo) ListActive(ctx context.Context) ([]*domain.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Listing), args.Error(1)
}

type MockChatRoomRepo struct {
	mock.Mock
}

func (m *MockChatRoomRepo) Create(ctx context.Context, c *domain.ChatRoom) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockChatRoomRepo) GetByUUID(ctx context.Context, uuid string) (*domain.ChatRoom, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatRoom), args.Error(1)
}

func (m *MockChatRoomRepo) FindByListingAndBuyer(ctx context.Context, listingUUID, buyerEmail string) (*domain.ChatRoom, error) {
	args := m.Called(ctx, listingUUID, buyerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatRoom), args.Error(1)
}

func (m *MockChatRoomRepo) ListForUser(ctx context.Context, email string) ([]*domain.ChatRoom, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChatRoom), args.Error(1)
}

type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepo) ListForRoom(ctx context.Context, chatRoomUUID string) ([]*domain.Message, error) {
	args := m.Called(ctx, chatRoomUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

type fakeFetcher struct {
	data []byte
	err  error
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	return f.data, f.err
}

type fakeDetector struct {
	confidences []float64
	err         error
}

func (f *fakeDetector) Detect(_ context.Context, _ []byte) ([]float64, error) {
	return f.confidences, f.err
}
