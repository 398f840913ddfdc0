package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgauth "github.com/CAHEKA/servisRest/pkg/auth"
	"github.com/CAHEKA/servisRest/pkg/auth/session"
	"github.com/CAHEKA/servisRest/pkg/config"
	"github.com/CAHEKA/servisRest/pkg/db/models"
	pkgerrors "github.com/CAHEKA/servisRest/pkg/errors"
	"github.com/CAHEKA/servisRest/pkg/security"
)

type stubUserRepo struct {
	byUsername map[string]*models.User
	lastLogin  map[uuid.UUID]time.Time
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byUsername: map[string]*models.User{},
		lastLogin:  map[uuid.UUID]time.Time{},
	}
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.byUsername[user.Username] = user
	return user, nil
}

func (s *stubUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if user, ok := s.byUsername[username]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogin[id] = at
	return nil
}

type stubSessionManager struct {
	sessions map[string]string
	revoked  []string
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{sessions: map[string]string{}}
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	s.sessions[accessID] = token
	return token, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.sessions[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.sessions, oldAccessID)
	newID := session.NewAccessID()
	newToken := "refresh-" + newID
	s.sessions[newID] = newToken
	return newID, newToken, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	delete(s.sessions, accessID)
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "0123456789abcdef0123456789abcdef",
		Issuer:            "servisrest-test",
		ExpirationMinutes: 15,
	}
}

func newTestService(t *testing.T) (Service, *stubUserRepo, *stubSessionManager) {
	t.Helper()
	repo := newStubUserRepo()
	sess := newStubSessionManager()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sess,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
	})
	require.NoError(t, err)
	return svc, repo, sess
}

func TestRegister_NormalizesAndHashes(t *testing.T) {
	svc, repo, _ := newTestService(t)

	dto, err := svc.Register(context.Background(), RegisterRequest{
		Username: "  Alice  ",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", dto.Username)

	stored := repo.byUsername["alice"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)
	ok, err := security.VerifyPassword("correct horse", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegister_DuplicateUsernameConflicts(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "pw-one-two"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "ALICE", Password: "pw-one-two"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestLogin_IssuesTokenPair(t *testing.T) {
	svc, repo, sess := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "pw-one-two"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Username: "Alice", Password: "pw-one-two"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, registered.ID, resp.User.ID)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Contains(t, sess.sessions, claims.ID)

	assert.Contains(t, repo.lastLogin, registered.ID)
}

func TestLogin_RejectsBadCredentialsUniformly(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "pw-one-two"})
	require.NoError(t, err)

	cases := []LoginRequest{
		{Username: "alice", Password: "wrong"},
		{Username: "nobody", Password: "pw-one-two"},
		{Username: "", Password: "pw-one-two"},
	}
	for _, req := range cases {
		_, err := svc.Login(ctx, req)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
		assert.Contains(t, err.Error(), invalidCredentialsMessage)
	}

	// deactivated accounts read the same as bad credentials
	repo.byUsername["alice"].IsActive = false
	_, err = svc.Login(ctx, LoginRequest{Username: "alice", Password: "pw-one-two"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestRefresh_RotatesSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "pw-one-two"})
	require.NoError(t, err)
	login, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "pw-one-two"})
	require.NoError(t, err)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), login.AccessToken)
	require.NoError(t, err)

	ident := SessionIdentity{UserID: registered.ID, Username: "alice", AccessID: claims.ID}
	resp, err := svc.Refresh(ctx, ident, RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEqual(t, login.RefreshToken, resp.RefreshToken)

	// old session is gone
	_, err = svc.Refresh(ctx, ident, RefreshRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestLogout_RevokesSession(t *testing.T) {
	svc, _, sess := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "pw-one-two"})
	require.NoError(t, err)
	login, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "pw-one-two"})
	require.NoError(t, err)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), login.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.ID))
	assert.NotContains(t, sess.sessions, claims.ID)

	err = svc.Logout(ctx, "  ")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}
