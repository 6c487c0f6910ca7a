package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmanagement/internal/domain"
)

func newTestAuth(userRepo domain.UserRepository, emails domain.EmailService, clock domain.Clock) domain.AuthService {
	return NewAuthService(userRepo, fakeHasher{}, fakeTokenIssuer{}, emails, 24*time.Hour, clock, testLogger())
}

func TestAuthService_SignUp(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		phone    string
		seed     func(repo *fakeUserRepo)
		wantErr  error
	}{
		{name: "ok", userName: "Alice", email: "Alice@Example.com", password: "secret1", phone: "5551234567"},
		{name: "ok without phone", userName: "Alice", email: "alice@example.com", password: "secret1"},
		{name: "short name", userName: "A", email: "alice@example.com", password: "secret1", wantErr: domain.ErrValidation},
		{name: "bad email", userName: "Alice", email: "not-an-email", password: "secret1", wantErr: domain.ErrValidation},
		{name: "short password", userName: "Alice", email: "alice@example.com", password: "12345", wantErr: domain.ErrValidation},
		{name: "bad phone", userName: "Alice", email: "alice@example.com", password: "secret1", phone: "555", wantErr: domain.ErrValidation},
		{
			name: "duplicate email", userName: "Alice", email: "alice@example.com", password: "secret1",
			seed: func(repo *fakeUserRepo) {
				repo.add(&domain.User{Name: "Other", Email: "alice@example.com"})
			},
			wantErr: domain.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := newFakeUserRepo()
			if tt.seed != nil {
				tt.seed(userRepo)
			}
			emails := &fakeEmailService{}
			svc := newTestAuth(userRepo, emails, domain.FixedClock(now))

			user, err := svc.SignUp(context.Background(), tt.userName, tt.email, tt.password, tt.phone)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, emails.welcome)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, user.ID)
			assert.Equal(t, "alice@example.com", user.Email, "email lowercased")
			assert.Equal(t, "hashed:"+tt.password, user.PasswordHash)
			assert.Equal(t, 1, emails.welcome)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	userRepo := newFakeUserRepo()
	userRepo.add(&domain.User{ID: "u-1", Name: "Alice", Email: "alice@example.com", PasswordHash: "hashed:secret1"})
	svc := newTestAuth(userRepo, &fakeEmailService{}, domain.FixedClock(now))

	token, user, err := svc.Login(context.Background(), "  Alice@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "token-u-1", token)
	assert.Equal(t, "u-1", user.ID)

	_, _, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// Unknown account and bad password are indistinguishable to the caller.
	_, _, err = svc.Login(context.Background(), "nobody@example.com", "secret1")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUserService_UpdateProfile(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name    string
		userID  string
		newName *string
		phone   *string
		wantErr error
		check   func(t *testing.T, u *domain.User)
	}{
		{name: "unknown user", userID: "missing", newName: str("Bob"), wantErr: domain.ErrUserNotFound},
		{name: "short name", userID: "u-1", newName: str(" B "), wantErr: domain.ErrValidation},
		{name: "bad phone", userID: "u-1", phone: str("12"), wantErr: domain.ErrValidation},
		{
			name: "rename and clear phone", userID: "u-1", newName: str(" Bob "), phone: str(""),
			check: func(t *testing.T, u *domain.User) {
				assert.Equal(t, "Bob", u.Name)
				assert.Empty(t, u.Phone)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := newFakeUserRepo()
			userRepo.add(&domain.User{ID: "u-1", Name: "Alice", Email: "alice@example.com", Phone: "5551234567"})
			svc := NewUserService(userRepo, fakeHasher{}, 5*time.Second)

			user, err := svc.UpdateProfile(context.Background(), tt.userID, tt.newName, tt.phone)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, user)
		})
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	userRepo.add(&domain.User{ID: "u-1", Name: "Alice", Email: "alice@example.com", PasswordHash: "hashed:old-password"})
	svc := NewUserService(userRepo, fakeHasher{}, 5*time.Second)

	err := svc.ChangePassword(context.Background(), "u-1", "wrong", "new-password")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), "u-1", "old-password", "short")
	require.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, svc.ChangePassword(context.Background(), "u-1", "old-password", "new-password"))
	user, err := userRepo.GetByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "hashed:new-password", user.PasswordHash)
}
