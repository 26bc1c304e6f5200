package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"stockgap/internal/core/apperror"
	"stockgap/internal/core/id"
)

type fakeUserRepo struct {
	byEmail map[string]*User
	updates int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*User)}
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperror.NewNotFound("user", email)
}

func (f *fakeUserRepo) GetByID(_ context.Context, userID id.ID) (*User, error) {
	for _, u := range f.byEmail {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", userID.String())
}

func (f *fakeUserRepo) Exists(_ context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *User) error {
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *User) error {
	f.updates++
	f.byEmail[user.Email] = user
	return nil
}

func newTestService(repo *fakeUserRepo) *Service {
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	return NewService(repo, jwtService, DefaultServiceConfig())
}

func registerUser(t *testing.T, s *Service, email, password string) *User {
	t.Helper()
	user, err := s.Register(context.Background(), email, password, "Test Analyst")
	require.NoError(t, err)
	return user
}

func TestService_Register(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestService(repo)

	user := registerUser(t, s, "a@example.com", "s3cret-pass")

	assert.False(t, id.IsNil(user.ID))
	assert.Equal(t, "a@example.com", user.Email)
	assert.Equal(t, "Test Analyst", user.FullName)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsAdmin)

	// The stored hash verifies against the original password and is not
	// the password itself.
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass"))
	assert.NoError(t, err)
}

func TestService_Register_Validation(t *testing.T) {
	s := newTestService(newFakeUserRepo())

	_, err := s.Register(context.Background(), "", "s3cret-pass", "")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	_, err = s.Register(context.Background(), "a@example.com", "short", "")
	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Message, "8")
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	s := newTestService(newFakeUserRepo())
	registerUser(t, s, "a@example.com", "s3cret-pass")

	_, err := s.Register(context.Background(), "a@example.com", "another-pass", "")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestService(repo)
	registerUser(t, s, "a@example.com", "s3cret-pass")

	result, err := s.Login(context.Background(), "a@example.com", "s3cret-pass")
	require.NoError(t, err)

	assert.NotEmpty(t, result.AccessToken)
	assert.True(t, result.ExpiresAt.After(time.Now()))
	require.NotNil(t, result.User.LastLoginAt)

	// Token round-trips through the validator with the analyst role.
	userCtx, err := s.jwtService.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID.String(), userCtx.UserID)
	assert.Contains(t, userCtx.Roles, RoleAnalyst)
	assert.False(t, userCtx.IsAdmin)
}

func TestService_Login_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestService(repo)
	user := registerUser(t, s, "a@example.com", "s3cret-pass")

	_, err := s.Login(context.Background(), "a@example.com", "wrong-pass")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	assert.Equal(t, 1, user.FailedLoginAttempts)
}

func TestService_Login_UnknownEmailSameError(t *testing.T) {
	s := newTestService(newFakeUserRepo())

	_, err := s.Login(context.Background(), "nobody@example.com", "whatever")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	// Must not reveal whether the email exists.
	assert.False(t, strings.Contains(strings.ToLower(appErr.Message), "not found"))
}

func TestService_Login_LocksAfterRepeatedFailures(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestService(repo)
	registerUser(t, s, "a@example.com", "s3cret-pass")

	for i := 0; i < s.config.MaxLoginAttempts; i++ {
		_, err := s.Login(context.Background(), "a@example.com", "wrong-pass")
		require.Error(t, err)
	}

	// Even the correct password is rejected while locked.
	_, err := s.Login(context.Background(), "a@example.com", "s3cret-pass")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestService_Login_DisabledAccount(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestService(repo)
	user := registerUser(t, s, "a@example.com", "s3cret-pass")
	user.IsActive = false

	_, err := s.Login(context.Background(), "a@example.com", "s3cret-pass")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestService_Me(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestService(repo)
	user := registerUser(t, s, "a@example.com", "s3cret-pass")

	got, err := s.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = s.Me(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestJWTService_RejectsTamperedToken(t *testing.T) {
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	user := NewUser("a@example.com", "hash")

	token, _, err := jwtService.GenerateAccessToken(user)
	require.NoError(t, err)

	other := NewJWTService(DefaultJWTConfig("different-secret"))
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}
