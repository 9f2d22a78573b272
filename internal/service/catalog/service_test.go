package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type mockServices struct{ mock.Mock }

func (m *mockServices) Create(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	args := m.Called(ctx, s)
	created, _ := args.Get(0).(*domain.Service)
	return created, args.Error(1)
}

func (m *mockServices) GetByID(ctx context.Context, businessID, id int64) (*domain.Service, error) {
	args := m.Called(ctx, businessID, id)
	s, _ := args.Get(0).(*domain.Service)
	return s, args.Error(1)
}

func (m *mockServices) ListByBusiness(ctx context.Context, businessID int64, activeOnly bool) ([]*domain.Service, error) {
	args := m.Called(ctx, businessID, activeOnly)
	items, _ := args.Get(0).([]*domain.Service)
	return items, args.Error(1)
}

func (m *mockServices) Update(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	args := m.Called(ctx, s)
	updated, _ := args.Get(0).(*domain.Service)
	return updated, args.Error(1)
}

func (m *mockServices) Deactivate(ctx context.Context, businessID, id int64) error {
	return m.Called(ctx, businessID, id).Error(0)
}

type stubBusinesses map[int64]*domain.Business

func (s stubBusinesses) GetByID(_ context.Context, id int64) (*domain.Business, error) {
	if b, ok := s[id]; ok {
		return b, nil
	}
	return nil, businessRepo.ErrBusinessNotFound
}

var businesses = stubBusinesses{1: {ID: 1, OwnerID: 10, Name: "Barber"}}

func TestListByBusiness_OwnerSeesInactive(t *testing.T) {
	repo := &mockServices{}
	repo.On("ListByBusiness", mock.Anything, int64(1), false).Return([]*domain.Service{{ID: 1, IsActive: false}}, nil)
	repo.On("ListByBusiness", mock.Anything, int64(1), true).Return([]*domain.Service{}, nil)
	svc := NewService(repo, businesses, logger.NewNop())

	owner, err := svc.ListByBusiness(context.Background(), 1, ptr.Ptr(int64(10)))
	require.NoError(t, err)
	assert.Len(t, owner.Services, 1)

	public, err := svc.ListByBusiness(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Empty(t, public.Services)
}

func TestCreate(t *testing.T) {
	repo := &mockServices{}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Service) bool {
		return s.Name == "Haircut" && s.IsActive && s.DurationMinutes == 45
	})).Return(&domain.Service{ID: 4, BusinessID: 1, Name: "Haircut", DurationMinutes: 45, IsActive: true}, nil)
	svc := NewService(repo, businesses, logger.NewNop())

	resp, err := svc.Create(context.Background(), &models.CreateServiceRequest{
		UserID: 10, BusinessID: 1, Name: "Haircut", DurationMinutes: 45,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.ID)
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateServiceRequest
		want error
	}{
		{"not owner", models.CreateServiceRequest{UserID: 11, BusinessID: 1, Name: "X", DurationMinutes: 30}, ErrAccessDenied},
		{"unknown business", models.CreateServiceRequest{UserID: 10, BusinessID: 2, Name: "X", DurationMinutes: 30}, ErrBusinessNotFound},
		{"too short", models.CreateServiceRequest{UserID: 10, BusinessID: 1, Name: "X", DurationMinutes: 4}, ErrInvalidInput},
		{"too long", models.CreateServiceRequest{UserID: 10, BusinessID: 1, Name: "X", DurationMinutes: 481}, ErrInvalidInput},
		{"empty name", models.CreateServiceRequest{UserID: 10, BusinessID: 1, Name: " ", DurationMinutes: 30}, ErrInvalidInput},
		{"negative price", models.CreateServiceRequest{UserID: 10, BusinessID: 1, Name: "X", DurationMinutes: 30, Price: ptr.Ptr(-1.0)}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&mockServices{}, businesses, logger.NewNop())
			_, err := svc.Create(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreate_Duplicate(t *testing.T) {
	repo := &mockServices{}
	repo.On("Create", mock.Anything, mock.Anything).Return(nil, catalogRepo.ErrDuplicateService)

	_, err := NewService(repo, businesses, logger.NewNop()).Create(context.Background(), &models.CreateServiceRequest{
		UserID: 10, BusinessID: 1, Name: "Haircut", DurationMinutes: 30,
	})

	assert.ErrorIs(t, err, ErrServiceAlreadyExists)
}

func TestUpdate_AppliesPartialFields(t *testing.T) {
	repo := &mockServices{}
	repo.On("GetByID", mock.Anything, int64(1), int64(4)).
		Return(&domain.Service{ID: 4, BusinessID: 1, Name: "Haircut", DurationMinutes: 30, IsActive: true}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(s *domain.Service) bool {
		return s.Name == "Haircut" && s.DurationMinutes == 60
	})).Return(&domain.Service{ID: 4, BusinessID: 1, Name: "Haircut", DurationMinutes: 60, IsActive: true}, nil)

	resp, err := NewService(repo, businesses, logger.NewNop()).Update(context.Background(), &models.UpdateServiceRequest{
		UserID: 10, BusinessID: 1, ServiceID: 4, DurationMinutes: ptr.Ptr(60),
	})

	require.NoError(t, err)
	assert.Equal(t, 60, resp.DurationMinutes)
}

func TestDeactivate_NotFound(t *testing.T) {
	repo := &mockServices{}
	repo.On("Deactivate", mock.Anything, int64(1), int64(99)).Return(catalogRepo.ErrServiceNotFound)

	err := NewService(repo, businesses, logger.NewNop()).Deactivate(context.Background(), 1, 99, 10)

	assert.ErrorIs(t, err, ErrServiceNotFound)
}
