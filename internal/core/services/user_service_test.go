package services_test

import (
	"context"
	"testing"

	"github.com/finman-app/finman_backend/internal/apperrors"
	"github.com/finman-app/finman_backend/internal/core/domain"
	portsrepo "github.com/finman-app/finman_backend/internal/core/ports/repositories"
	portssvc "github.com/finman-app/finman_backend/internal/core/ports/services"
	"github.com/finman-app/finman_backend/internal/core/services"
	"github.com/finman-app/finman_backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

// Ensure MockUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Test Suite ---

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  portssvc.UserSvcFacade
	ctx      context.Context
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockRepo)
	suite.ctx = context.Background()
}

func (suite *UserServiceTestSuite) TestRegisterUserSuccess() {
	req := dto.RegisterUserRequest{Name: "Ada", Email: "ada@example.com", Password: "correct horse"}
	suite.mockRepo.On("SaveUser", suite.ctx, mock.MatchedBy(func(u domain.User) bool {
		if u.Email != req.Email || u.Name != req.Name || u.UserID == "" {
			return false
		}
		// The stored hash must verify against the raw password and never equal it.
		return u.PasswordHash != req.Password &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) == nil
	})).Return(nil).Once()

	user, err := suite.service.RegisterUser(suite.ctx, req)

	suite.Require().NoError(err)
	suite.Equal(req.Email, user.Email)
	suite.Equal(user.UserID, user.CreatedBy, "users own their audit trail")
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUserDuplicateEmail() {
	req := dto.RegisterUserRequest{Name: "Ada", Email: "ada@example.com", Password: "correct horse"}
	suite.mockRepo.On("SaveUser", suite.ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.RegisterUser(suite.ctx, req)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *UserServiceTestSuite) TestAuthenticateSuccess() {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	suite.Require().NoError(err)
	user := &domain.User{UserID: "user-1", Email: "ada@example.com", PasswordHash: string(hash)}
	suite.mockRepo.On("FindUserByEmail", suite.ctx, user.Email).Return(user, nil).Once()

	got, err := suite.service.Authenticate(suite.ctx, user.Email, "correct horse")

	suite.Require().NoError(err)
	suite.Equal(user.UserID, got.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticateWrongPassword() {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	suite.Require().NoError(err)
	user := &domain.User{UserID: "user-1", Email: "ada@example.com", PasswordHash: string(hash)}
	suite.mockRepo.On("FindUserByEmail", suite.ctx, user.Email).Return(user, nil).Once()

	_, err = suite.service.Authenticate(suite.ctx, user.Email, "battery staple")

	suite.ErrorIs(err, services.ErrInvalidCredentials)
}

func (suite *UserServiceTestSuite) TestAuthenticateUnknownEmail() {
	suite.mockRepo.On("FindUserByEmail", suite.ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Authenticate(suite.ctx, "nobody@example.com", "whatever")

	// Unknown email and wrong password are deliberately indistinguishable.
	suite.ErrorIs(err, services.ErrInvalidCredentials)
	suite.NotErrorIs(err, apperrors.ErrNotFound)
}

func (suite *UserServiceTestSuite) TestGetUser() {
	user := &domain.User{UserID: "user-1", Email: "ada@example.com"}
	suite.mockRepo.On("FindUserByID", suite.ctx, user.UserID).Return(user, nil).Once()

	got, err := suite.service.GetUser(suite.ctx, user.UserID)

	suite.Require().NoError(err)
	suite.Equal(user, got)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
