package services

import (
	"testing"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/repositories"
	"github.com/guguinhass/AtlanticDivingCenterCRM/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo is an in-memory UserRepository for auth and user admin tests.
type fakeUserRepo struct {
	users  map[int64]*models.User
	hashes map[int64]string
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[int64]*models.User),
		hashes: make(map[int64]string),
		nextID: 1,
	}
}

func (r *fakeUserRepo) addUser(t *testing.T, username, password string, isAdmin bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: r.nextID, Username: username, IsAdmin: isAdmin}
	r.users[user.ID] = user
	r.hashes[user.ID] = string(hash)
	r.nextID++
	return user
}

func (r *fakeUserRepo) CreateUser(_ repositories.SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return 0, repositories.ErrDuplicateKey
		}
	}
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	r.hashes[user.ID] = hashedPassword
	return user.ID, nil
}

func (r *fakeUserRepo) FindUserByUsername(username string) (*models.User, string, error) {
	for id, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, r.hashes[id], nil
		}
	}
	return nil, "", repositories.ErrNotFound
}

func (r *fakeUserRepo) FindUserByID(userID int64) (*models.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetUsers() ([]models.User, error) {
	result := make([]models.User, 0, len(r.users))
	for id := int64(1); id < r.nextID; id++ {
		if user, ok := r.users[id]; ok {
			result = append(result, *user)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) DeleteUser(_ repositories.SQLExecutor, userID int64) error {
	if _, ok := r.users[userID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.users, userID)
	delete(r.hashes, userID)
	return nil
}

func TestLoginUser(t *testing.T) {
	repo := newFakeUserRepo()
	repo.addUser(t, "joana", "correct horse battery", true)
	service := NewAuthService(repo)

	resp, err := service.LoginUser(LoginRequest{Username: "joana", Password: "correct horse battery"})
	require.NoError(t, err)

	assert.Equal(t, "joana", resp.User.Username)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	claims, err := utils.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestLoginUserWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	repo.addUser(t, "joana", "right password", false)
	service := NewAuthService(repo)

	_, err := service.LoginUser(LoginRequest{Username: "joana", Password: "wrong password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUserUnknownUsername(t *testing.T) {
	service := NewAuthService(newFakeUserRepo())

	_, err := service.LoginUser(LoginRequest{Username: "ghost", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	user := repo.addUser(t, "staff", "long enough pw", false)
	service := NewAuthService(repo)

	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	require.NoError(t, err)

	resp, err := service.RefreshToken(RefreshTokenRequest{RefreshToken: refreshToken})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestRefreshTokenRejectsGarbage(t *testing.T) {
	service := NewAuthService(newFakeUserRepo())

	_, err := service.RefreshToken(RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenForDeletedUser(t *testing.T) {
	service := NewAuthService(newFakeUserRepo())

	refreshToken, err := utils.GenerateRefreshToken(12345)
	require.NoError(t, err)

	_, err = service.RefreshToken(RefreshTokenRequest{RefreshToken: refreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}
