package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// accesstokenの有効期限
const accessTokenTTL = 15 * time.Minute

// refreshtokenの有効期限
const refreshTokenTTL = 14 * 24 * time.Hour

const bcryptCost = 12

type AuthUsecase struct {
	cfg    config.Config
	users  repository.UserRepository
	rtRepo repository.RefreshTokenRepository
}

func NewAuthUsecase(
	cfg config.Config,
	users repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
) *AuthUsecase {
	return &AuthUsecase{
		cfg:    cfg,
		users:  users,
		rtRepo: rtRepo,
	}
}

type UserDTO struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string

	//CUSTOMERかSELLER。ADMINは自己登録できない。
	Role string
}

type LoginResult struct {
	User              UserDTO `json:"user"`
	AccessToken       string  `json:"access_token"`
	ExpiresIn         int     `json:"expires_in"`
	RefreshTokenPlain string  `json:"-"`
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserDTO, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") || len(email) > 255 {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if len(in.Password) < 8 || len(in.Password) > 72 {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "invalid password")
	}
	if strings.TrimSpace(in.FullName) == "" {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "invalid full_name")
	}

	role := model.Role(strings.ToUpper(strings.TrimSpace(in.Role)))
	if role == "" {
		role = model.RoleCustomer
	}
	if role != model.RoleCustomer && role != model.RoleSeller {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	existing, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if existing != nil {
		return UserDTO{}, NewHTTPError(http.StatusConflict, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         role,
		IsActive:     true,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserDTO(user), nil
}

func (u *AuthUsecase) Login(ctx context.Context, email string, password string) (LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return LoginResult{}, NewHTTPError(http.StatusBadRequest, "email and password required")
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//存在しない/無効/パスワード不一致は全部同じ401
	if user == nil || !user.IsActive {
		return LoginResult{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	now := time.Now()
	access, err := u.issueAccessToken(user, now)
	if err != nil {
		return LoginResult{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	refreshPlain, err := u.issueRefreshToken(ctx, user.ID, now)
	if err != nil {
		return LoginResult{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	lastLogin := now
	user.LastLoginAt = &lastLogin
	if err := u.users.Update(ctx, user); err != nil {
		return LoginResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return LoginResult{
		User:              toUserDTO(user),
		AccessToken:       access,
		ExpiresIn:         int(accessTokenTTL.Seconds()),
		RefreshTokenPlain: refreshPlain,
	}, nil
}

// Refresh はリフレッシュトークンをローテーションして新しいペアを返す。
// 使用済みトークンの再提示はセキュリティ事故として401。
func (u *AuthUsecase) Refresh(ctx context.Context, refreshPlain string) (LoginResult, error) {
	refreshPlain = strings.TrimSpace(refreshPlain)
	if refreshPlain == "" {
		return LoginResult{}, NewHTTPError(http.StatusBadRequest, "refresh token required")
	}

	rt, err := u.rtRepo.FindByTokenHash(ctx, hashToken(refreshPlain))
	if err != nil {
		return LoginResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	now := time.Now()
	if rt == nil || rt.RevokedAt != nil || rt.UsedAt != nil || now.After(rt.ExpiresAt) {
		return LoginResult{}, NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	user, err := u.users.FindByID(ctx, rt.UserID)
	if err != nil {
		return LoginResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil || !user.IsActive {
		return LoginResult{}, NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	//ローテーション：古いのを使用済みにして新しいのを出す
	if err := u.rtRepo.MarkUsed(ctx, rt.ID, now); err != nil {
		return LoginResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	access, err := u.issueAccessToken(user, now)
	if err != nil {
		return LoginResult{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	refreshNew, err := u.issueRefreshToken(ctx, user.ID, now)
	if err != nil {
		return LoginResult{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return LoginResult{
		User:              toUserDTO(user),
		AccessToken:       access,
		ExpiresIn:         int(accessTokenTTL.Seconds()),
		RefreshTokenPlain: refreshNew,
	}, nil
}

// Logout は提示されたリフレッシュトークンを失効させる。
// トークンが見つからない/失効済みでも成功扱い（べき等）。
func (u *AuthUsecase) Logout(ctx context.Context, refreshPlain string) error {
	refreshPlain = strings.TrimSpace(refreshPlain)
	if refreshPlain == "" {
		return nil
	}

	rt, err := u.rtRepo.FindByTokenHash(ctx, hashToken(refreshPlain))
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if rt == nil || rt.RevokedAt != nil {
		return nil
	}

	if err := u.rtRepo.Revoke(ctx, rt.ID, time.Now()); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// ForceLogout はtoken_versionを+1して発行済みアクセストークンを全部無効化する。
// 管理者専用。以降のリクエストはTokenVersionGuardで弾かれる。
func (u *AuthUsecase) ForceLogout(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.users.IncrementTokenVersion(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AuthUsecase) issueAccessToken(user *model.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"role": string(user.Role),
		"tv":   user.TokenVersion,
		"iat":  now.Unix(),
		"exp":  now.Add(accessTokenTTL).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(u.cfg.JWTSecret))
}

func (u *AuthUsecase) issueRefreshToken(ctx context.Context, userID int64, now time.Time) (string, error) {
	//平文はランダム32バイト。DBにはsha256だけ置く。
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	plain := base64.RawURLEncoding.EncodeToString(buf)

	rt := &model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: hashToken(plain),
		ExpiresAt: now.Add(refreshTokenTTL),
		CreatedAt: now,
	}
	if err := u.rtRepo.Create(ctx, rt); err != nil {
		return "", err
	}
	return plain, nil
}

func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     string(u.Role),
		IsActive: u.IsActive,
	}
}
