package service

import (
	"context"
	"testing"
	"time"

	"salespoint/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newUserFixture() (*mockUserRepo, *mockAuditRepo, UserService) {
	repo := new(mockUserRepo)
	auditRepo := new(mockAuditRepo)
	return repo, auditRepo, NewUserService(repo, auditRepo, passthroughTxManager{})
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	repo, _, svc := newUserFixture()

	repo.On("FindByEmail", mock.Anything, "aissatou@example.com").Return(&model.InternalUser{
		ID:    uuid.New(),
		Email: "aissatou@example.com",
	}, nil)

	_, err := svc.CreateUser(context.Background(), uuid.NewString(), CreateUserRequest{
		FirstName: "Aissatou",
		LastName:  "Diallo",
		Email:     "aissatou@example.com",
		Role:      model.RoleSeller,
		Password:  "secret123",
	})

	assert.EqualError(t, err, "un utilisateur avec cet email existe déjà")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateUserHashesPasswordAndAudits(t *testing.T) {
	repo, auditRepo, svc := newUserFixture()

	repo.On("FindByEmail", mock.Anything, "moussa@example.com").Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.InternalUser")).Return(nil)
	auditRepo.On("Log", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)

	resp, err := svc.CreateUser(context.Background(), uuid.NewString(), CreateUserRequest{
		FirstName: "Moussa",
		LastName:  "Camara",
		Email:     "moussa@example.com",
		Role:      model.RoleManager,
		Password:  "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, resp.Role)
	assert.True(t, resp.IsActive, "accounts default to active")

	created := repo.Calls[1].Arguments.Get(1).(*model.InternalUser)
	assert.NotEqual(t, "secret123", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret123")))
	auditRepo.AssertCalled(t, "Log", mock.Anything, mock.AnythingOfType("*model.AuditLog"))
}

func TestLogin(t *testing.T) {
	userID := uuid.New()
	active := &model.InternalUser{
		ID:       userID,
		Email:    "fatou@example.com",
		Password: "",
		Role:     model.RoleAdmin,
		IsActive: true,
	}

	t.Run("valid credentials issue tokens", func(t *testing.T) {
		repo, _, svc := newUserFixture()
		user := *active
		user.Password = hashPassword(t, "secret123")
		repo.On("FindByEmail", mock.Anything, "fatou@example.com").Return(&user, nil)
		repo.On("DeleteExpiredRefreshTokens", mock.Anything).Return(nil)
		repo.On("CreateRefreshToken", mock.Anything, mock.AnythingOfType("*model.RefreshToken")).Return(nil)

		resp, err := svc.Login(context.Background(), LoginUserRequest{Email: "fatou@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.RefreshToken)
		// stale rows are swept as a side effect of every successful login
		repo.AssertCalled(t, "DeleteExpiredRefreshTokens", mock.Anything)
	})

	t.Run("failed token sweep does not block login", func(t *testing.T) {
		repo, _, svc := newUserFixture()
		user := *active
		user.Password = hashPassword(t, "secret123")
		repo.On("FindByEmail", mock.Anything, "fatou@example.com").Return(&user, nil)
		repo.On("DeleteExpiredRefreshTokens", mock.Anything).Return(assert.AnError)
		repo.On("CreateRefreshToken", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.Login(context.Background(), LoginUserRequest{Email: "fatou@example.com", Password: "secret123"})
		require.NoError(t, err)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		repo, _, svc := newUserFixture()
		user := *active
		user.Password = hashPassword(t, "secret123")
		repo.On("FindByEmail", mock.Anything, "fatou@example.com").Return(&user, nil)

		_, err := svc.Login(context.Background(), LoginUserRequest{Email: "fatou@example.com", Password: "wrong"})
		assert.EqualError(t, err, "invalid email or password")
	})

	t.Run("unknown email gets the same error", func(t *testing.T) {
		repo, _, svc := newUserFixture()
		repo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Login(context.Background(), LoginUserRequest{Email: "nobody@example.com", Password: "secret123"})
		assert.EqualError(t, err, "invalid email or password")
	})

	t.Run("deactivated account rejected", func(t *testing.T) {
		repo, _, svc := newUserFixture()
		user := *active
		user.Password = hashPassword(t, "secret123")
		user.IsActive = false
		repo.On("FindByEmail", mock.Anything, "fatou@example.com").Return(&user, nil)

		_, err := svc.Login(context.Background(), LoginUserRequest{Email: "fatou@example.com", Password: "secret123"})
		assert.EqualError(t, err, "account is deactivated")
	})
}

func TestRefresh(t *testing.T) {
	userID := uuid.New()

	t.Run("valid token renews access", func(t *testing.T) {
		repo, _, svc := newUserFixture()
		repo.On("FindRefreshToken", mock.Anything, "tok").Return(&model.RefreshToken{
			UserID:    userID,
			Token:     "tok",
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil)
		repo.On("FindByID", mock.Anything, userID).Return(&model.InternalUser{ID: userID, Role: model.RoleSeller, IsActive: true}, nil)

		resp, err := svc.Refresh(context.Background(), "tok")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "tok", resp.RefreshToken)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		repo, _, svc := newUserFixture()
		repo.On("FindRefreshToken", mock.Anything, "old").Return(&model.RefreshToken{
			UserID:    userID,
			Token:     "old",
			ExpiresAt: time.Now().Add(-time.Minute),
		}, nil)

		_, err := svc.Refresh(context.Background(), "old")
		assert.EqualError(t, err, "refresh token expired")
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown token rejected", func(t *testing.T) {
		repo, _, svc := newUserFixture()
		repo.On("FindRefreshToken", mock.Anything, "bogus").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Refresh(context.Background(), "bogus")
		assert.EqualError(t, err, "invalid refresh token")
	})
}

func TestUpdateUserPasswordRotationRevokesSessions(t *testing.T) {
	repo, auditRepo, svc := newUserFixture()
	userID := uuid.New()

	repo.On("FindByID", mock.Anything, userID).Return(&model.InternalUser{
		ID:       userID,
		Email:    "seller@example.com",
		Role:     model.RoleSeller,
		IsActive: true,
	}, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*model.InternalUser")).Return(nil)
	repo.On("DeleteRefreshTokensForUser", mock.Anything, userID).Return(nil)
	auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.UpdateUser(context.Background(), uuid.NewString(), userID.String(), UpdateUserRequest{
		Password: "newsecret",
	})

	require.NoError(t, err)
	repo.AssertCalled(t, "DeleteRefreshTokensForUser", mock.Anything, userID)
}

func TestUpdateUserWithoutPasswordKeepsSessions(t *testing.T) {
	repo, auditRepo, svc := newUserFixture()
	userID := uuid.New()
	phone := "+224620000000"

	repo.On("FindByID", mock.Anything, userID).Return(&model.InternalUser{
		ID:       userID,
		Email:    "seller@example.com",
		IsActive: true,
	}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)
	auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.UpdateUser(context.Background(), uuid.NewString(), userID.String(), UpdateUserRequest{
		Phone: &phone,
	})

	require.NoError(t, err)
	assert.Equal(t, phone, resp.Phone)
	repo.AssertNotCalled(t, "DeleteRefreshTokensForUser", mock.Anything, mock.Anything)
}

func TestDeleteUserRevokesSessions(t *testing.T) {
	repo, auditRepo, svc := newUserFixture()
	userID := uuid.New()

	repo.On("FindByID", mock.Anything, userID).Return(&model.InternalUser{ID: userID, Email: "x@example.com"}, nil)
	repo.On("Delete", mock.Anything, userID).Return(nil)
	repo.On("DeleteRefreshTokensForUser", mock.Anything, userID).Return(nil)
	auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil)

	err := svc.DeleteUser(context.Background(), uuid.NewString(), userID.String())

	require.NoError(t, err)
	repo.AssertCalled(t, "Delete", mock.Anything, userID)
	repo.AssertCalled(t, "DeleteRefreshTokensForUser", mock.Anything, userID)
}
