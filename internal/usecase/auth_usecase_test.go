package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// =====================
// User / RefreshToken repository mocks
// =====================

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type RefreshTokenRepoMock struct{ mock.Mock }

func (m *RefreshTokenRepoMock) Create(ctx context.Context, rt *model.RefreshToken) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	rt, _ := args.Get(0).(*model.RefreshToken)
	return rt, args.Error(1)
}

func (m *RefreshTokenRepoMock) MarkUsed(ctx context.Context, id string, usedAt time.Time) error {
	args := m.Called(ctx, id, usedAt)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) Revoke(ctx context.Context, id string, revokedAt time.Time) error {
	args := m.Called(ctx, id, revokedAt)
	return args.Error(0)
}

func testConfig() config.Config {
	return config.Config{JWTSecret: "test-secret"}
}

// =====================
// Register tests
// =====================

func TestAuthUsecase_Register_InvalidEmail(t *testing.T) {
	uc := usecase.NewAuthUsecase(testConfig(), new(UserRepoMock), new(RefreshTokenRepoMock))

	_, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email: "not-an-email", Password: "password123", FullName: "山田 太郎",
	})
	assertErrContains(t, err, "invalid email")
}

func TestAuthUsecase_Register_ShortPassword(t *testing.T) {
	uc := usecase.NewAuthUsecase(testConfig(), new(UserRepoMock), new(RefreshTokenRepoMock))

	_, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email: "taro@example.com", Password: "short", FullName: "山田 太郎",
	})
	assertErrContains(t, err, "invalid password")
}

func TestAuthUsecase_Register_AdminRoleRejected(t *testing.T) {
	uc := usecase.NewAuthUsecase(testConfig(), new(UserRepoMock), new(RefreshTokenRepoMock))

	//ADMINは自己登録できない
	_, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email: "taro@example.com", Password: "password123", FullName: "山田 太郎",
		Role: "ADMIN",
	})
	assertErrContains(t, err, "invalid role")
}

func TestAuthUsecase_Register_EmailConflict(t *testing.T) {
	users := new(UserRepoMock)
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(&model.User{ID: 1}, nil)

	uc := usecase.NewAuthUsecase(testConfig(), users, new(RefreshTokenRepoMock))

	_, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email: "taro@example.com", Password: "password123", FullName: "山田 太郎",
	})
	assertErrContains(t, err, "already registered")
}

func TestAuthUsecase_Register_Success_DefaultsToCustomer(t *testing.T) {
	users := new(UserRepoMock)

	//メールは小文字化して保存される
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(nil, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "taro@example.com" &&
			u.Role == model.RoleCustomer &&
			u.IsActive &&
			u.PasswordHash != "" && u.PasswordHash != "password123"
	})).Return(nil)

	uc := usecase.NewAuthUsecase(testConfig(), users, new(RefreshTokenRepoMock))

	out, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email: "Taro@Example.com", Password: "password123", FullName: "山田 太郎",
	})
	assert.NoError(t, err)
	assert.Equal(t, "taro@example.com", out.Email)
	assert.Equal(t, "CUSTOMER", out.Role)

	users.AssertExpectations(t)
}

// =====================
// Login tests
// =====================

func TestAuthUsecase_Login_UnknownEmail(t *testing.T) {
	users := new(UserRepoMock)
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(nil, nil)

	uc := usecase.NewAuthUsecase(testConfig(), users, new(RefreshTokenRepoMock))

	_, err := uc.Login(context.Background(), "taro@example.com", "password123")
	assertErrContains(t, err, "invalid credentials")
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)

	users := new(UserRepoMock)
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(&model.User{
		ID: 1, Email: "taro@example.com", PasswordHash: string(hash), IsActive: true,
	}, nil)

	uc := usecase.NewAuthUsecase(testConfig(), users, new(RefreshTokenRepoMock))

	_, err := uc.Login(context.Background(), "taro@example.com", "wrongpassword")
	assertErrContains(t, err, "invalid credentials")
}

func TestAuthUsecase_Login_InactiveUser(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)

	users := new(UserRepoMock)
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(&model.User{
		ID: 1, Email: "taro@example.com", PasswordHash: string(hash), IsActive: false,
	}, nil)

	uc := usecase.NewAuthUsecase(testConfig(), users, new(RefreshTokenRepoMock))

	//無効化済みもパスワード不一致と同じ401
	_, err := uc.Login(context.Background(), "taro@example.com", "password123")
	assertErrContains(t, err, "invalid credentials")
}

func TestAuthUsecase_Login_Success(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)

	users := new(UserRepoMock)
	rts := new(RefreshTokenRepoMock)

	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(&model.User{
		ID: 1, Email: "taro@example.com", PasswordHash: string(hash),
		Role: model.RoleCustomer, IsActive: true,
	}, nil)
	rts.On("Create", mock.Anything, mock.MatchedBy(func(rt *model.RefreshToken) bool {
		//DBに平文は置かない
		return rt.UserID == 1 && rt.TokenHash != "" && rt.ExpiresAt.After(time.Now())
	})).Return(nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.LastLoginAt != nil
	})).Return(nil)

	uc := usecase.NewAuthUsecase(testConfig(), users, rts)

	out, err := uc.Login(context.Background(), "taro@example.com", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshTokenPlain)
	assert.Equal(t, int((15 * time.Minute).Seconds()), out.ExpiresIn)

	users.AssertExpectations(t)
	rts.AssertExpectations(t)
}

// =====================
// Refresh tests
// =====================

func TestAuthUsecase_Refresh_UnknownToken(t *testing.T) {
	rts := new(RefreshTokenRepoMock)
	rts.On("FindByTokenHash", mock.Anything, mock.Anything).Return(nil, nil)

	uc := usecase.NewAuthUsecase(testConfig(), new(UserRepoMock), rts)

	_, err := uc.Refresh(context.Background(), "bogus-token")
	assertErrContains(t, err, "invalid refresh token")
}

func TestAuthUsecase_Refresh_UsedToken(t *testing.T) {
	used := time.Now().Add(-time.Minute)

	rts := new(RefreshTokenRepoMock)
	rts.On("FindByTokenHash", mock.Anything, mock.Anything).Return(&model.RefreshToken{
		ID: "rt-1", UserID: 1, UsedAt: &used,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)

	uc := usecase.NewAuthUsecase(testConfig(), new(UserRepoMock), rts)

	//使用済みの再提示は401。新しいペアは発行されない。
	_, err := uc.Refresh(context.Background(), "reused-token")
	assertErrContains(t, err, "invalid refresh token")

	rts.AssertNotCalled(t, "MarkUsed", mock.Anything, mock.Anything, mock.Anything)
	rts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// =====================
// Logout / ForceLogout tests
// =====================

func TestAuthUsecase_Logout_RevokesToken(t *testing.T) {
	rts := new(RefreshTokenRepoMock)

	rts.On("FindByTokenHash", mock.Anything, mock.Anything).Return(&model.RefreshToken{
		ID: "rt-1", UserID: 1,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	rts.On("Revoke", mock.Anything, "rt-1", mock.Anything).Return(nil).Once()

	uc := usecase.NewAuthUsecase(testConfig(), new(UserRepoMock), rts)

	err := uc.Logout(context.Background(), "valid-token")
	assert.NoError(t, err)

	rts.AssertExpectations(t)
}

func TestAuthUsecase_Logout_UnknownToken_Idempotent(t *testing.T) {
	rts := new(RefreshTokenRepoMock)
	rts.On("FindByTokenHash", mock.Anything, mock.Anything).Return(nil, nil)

	uc := usecase.NewAuthUsecase(testConfig(), new(UserRepoMock), rts)

	//知らないトークンでもログアウトは成功扱い
	err := uc.Logout(context.Background(), "bogus-token")
	assert.NoError(t, err)

	rts.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthUsecase_Logout_AlreadyRevoked(t *testing.T) {
	revoked := time.Now().Add(-time.Minute)

	rts := new(RefreshTokenRepoMock)
	rts.On("FindByTokenHash", mock.Anything, mock.Anything).Return(&model.RefreshToken{
		ID: "rt-1", UserID: 1, RevokedAt: &revoked,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)

	uc := usecase.NewAuthUsecase(testConfig(), new(UserRepoMock), rts)

	err := uc.Logout(context.Background(), "revoked-token")
	assert.NoError(t, err)

	rts.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthUsecase_ForceLogout_BumpsTokenVersion(t *testing.T) {
	users := new(UserRepoMock)
	users.On("IncrementTokenVersion", mock.Anything, int64(5)).Return(nil).Once()

	uc := usecase.NewAuthUsecase(testConfig(), users, new(RefreshTokenRepoMock))

	err := uc.ForceLogout(context.Background(), 5)
	assert.NoError(t, err)

	users.AssertExpectations(t)
}

func TestAuthUsecase_ForceLogout_UnknownUser(t *testing.T) {
	users := new(UserRepoMock)
	users.On("IncrementTokenVersion", mock.Anything, int64(99)).Return(repo.ErrUserNotFound)

	uc := usecase.NewAuthUsecase(testConfig(), users, new(RefreshTokenRepoMock))

	err := uc.ForceLogout(context.Background(), 99)
	assertErrContains(t, err, "not found")
}

func TestAuthUsecase_Refresh_Rotation(t *testing.T) {
	users := new(UserRepoMock)
	rts := new(RefreshTokenRepoMock)

	rts.On("FindByTokenHash", mock.Anything, mock.Anything).Return(&model.RefreshToken{
		ID: "rt-1", UserID: 1,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	users.On("FindByID", mock.Anything, int64(1)).Return(&model.User{
		ID: 1, Role: model.RoleCustomer, IsActive: true,
	}, nil)
	rts.On("MarkUsed", mock.Anything, "rt-1", mock.Anything).Return(nil).Once()
	rts.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	uc := usecase.NewAuthUsecase(testConfig(), users, rts)

	out, err := uc.Refresh(context.Background(), "valid-token")
	assert.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshTokenPlain)

	rts.AssertExpectations(t)
}
