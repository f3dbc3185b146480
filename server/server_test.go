package server

import (
	"context"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/galleried/galleria/config"
	errs "github.com/galleried/galleria/errors"
	"github.com/galleried/galleria/models"
	"github.com/galleried/galleria/services/jwt"
)

const testSecret = "test-secret"

// ---- service stubs: tests set only the functions they exercise ----

type stubMediaService struct {
	uploadFn       func(ctx context.Context, userID uint, params models.UploadMediaParams, fileHeader *multipart.FileHeader) (*models.EnrichedMedia, *errs.Error)
	getFeedFn      func(ctx context.Context, page, pageSize int, viewerID *uint) (*models.FeedResponse, *errs.Error)
	getUserMediaFn func(ctx context.Context, creatorID uint, viewerID *uint) ([]models.EnrichedMedia, *errs.Error)
	rateFn         func(ctx context.Context, mediaID string, userID uint, value int) (*models.RatingSummary, *errs.Error)
	listCommentsFn func(ctx context.Context, mediaID string) ([]models.CommentResponse, *errs.Error)
	postCommentFn  func(ctx context.Context, mediaID string, userID uint, content string) (*models.CommentResponse, *errs.Error)
	deleteFn       func(ctx context.Context, mediaID string, requesterID uint) *errs.Error
}

func (s *stubMediaService) UploadMedia(ctx context.Context, userID uint, params models.UploadMediaParams, fileHeader *multipart.FileHeader) (*models.EnrichedMedia, *errs.Error) {
	return s.uploadFn(ctx, userID, params, fileHeader)
}

func (s *stubMediaService) GetFeed(ctx context.Context, page, pageSize int, viewerID *uint) (*models.FeedResponse, *errs.Error) {
	return s.getFeedFn(ctx, page, pageSize, viewerID)
}

func (s *stubMediaService) GetUserMedia(ctx context.Context, creatorID uint, viewerID *uint) ([]models.EnrichedMedia, *errs.Error) {
	return s.getUserMediaFn(ctx, creatorID, viewerID)
}

func (s *stubMediaService) RateMedia(ctx context.Context, mediaID string, userID uint, value int) (*models.RatingSummary, *errs.Error) {
	return s.rateFn(ctx, mediaID, userID, value)
}

func (s *stubMediaService) ListComments(ctx context.Context, mediaID string) ([]models.CommentResponse, *errs.Error) {
	return s.listCommentsFn(ctx, mediaID)
}

func (s *stubMediaService) PostComment(ctx context.Context, mediaID string, userID uint, content string) (*models.CommentResponse, *errs.Error) {
	return s.postCommentFn(ctx, mediaID, userID, content)
}

func (s *stubMediaService) DeleteMedia(ctx context.Context, mediaID string, requesterID uint) *errs.Error {
	return s.deleteFn(ctx, mediaID, requesterID)
}

type stubAuthService struct {
	signupFn     func(request *models.SignupRequest) (*models.UserResponse, *errs.Error)
	loginFn      func(loginRequest *models.LoginRequest) (*models.LoginResponse, *errs.Error)
	logoutFn     func(ctx context.Context, accessToken string) *errs.Error
	getProfileFn func(userID uint) (*models.UserResponse, *errs.Error)
	getByNameFn  func(name string) (*models.UserResponse, *errs.Error)
	searchFn     func(query string) ([]models.UserResponse, *errs.Error)
}

func (s *stubAuthService) SignupUser(request *models.SignupRequest) (*models.UserResponse, *errs.Error) {
	return s.signupFn(request)
}

func (s *stubAuthService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *errs.Error) {
	return s.loginFn(loginRequest)
}

func (s *stubAuthService) LogoutUser(ctx context.Context, accessToken string) *errs.Error {
	return s.logoutFn(ctx, accessToken)
}

func (s *stubAuthService) GetUserProfile(userID uint) (*models.UserResponse, *errs.Error) {
	return s.getProfileFn(userID)
}

func (s *stubAuthService) GetUserByName(name string) (*models.UserResponse, *errs.Error) {
	return s.getByNameFn(name)
}

func (s *stubAuthService) SearchUsers(query string) ([]models.UserResponse, *errs.Error) {
	return s.searchFn(query)
}

// ---- fakes backing the authorization middleware ----

type fakeUserStore struct {
	users map[uint]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint]models.User{}}
}

func (f *fakeUserStore) addUser(id uint, name, roleName string) models.User {
	user := models.User{
		Model: models.Model{ID: id},
		Name:  name,
		Email: name + "@example.com",
		Role:  models.Role{ID: uuid.New(), Name: roleName},
	}
	f.users[id] = user
	return user
}

func (f *fakeUserStore) CreateUser(user *models.User) (*models.User, error) { return user, nil }
func (f *fakeUserStore) IsEmailExist(email string) error                    { return nil }
func (f *fakeUserStore) IsNameExist(name string) error                      { return nil }

func (f *fakeUserStore) FindUserByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			uu := u
			return &uu, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) FindUserByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	uu := u
	return &uu, nil
}

func (f *fakeUserStore) FindUserByName(name string) (*models.User, error) {
	for _, u := range f.users {
		if u.Name == name {
			uu := u
			return &uu, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) SearchUsersByName(query string) ([]models.User, error) {
	return nil, nil
}

func (f *fakeUserStore) FindRoleByID(roleID uuid.UUID) (*models.Role, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) FindRoleByName(name string) (*models.Role, error) {
	return &models.Role{ID: uuid.New(), Name: name}, nil
}

type fakeDenylist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{revoked: map[string]bool{}}
}

func (f *fakeDenylist) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[token] = true
	return nil
}

func (f *fakeDenylist) IsTokenInBlacklist(ctx context.Context, token string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[token]
}

// ---- fixture ----

type testEnv struct {
	router   *gin.Engine
	media    *stubMediaService
	auth     *stubAuthService
	users    *fakeUserStore
	denylist *fakeDenylist
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("GIN_MODE", "test")
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		media:    &stubMediaService{},
		auth:     &stubAuthService{},
		users:    newFakeUserStore(),
		denylist: newFakeDenylist(),
	}

	s := &Server{
		Config:         &config.Config{JWTSecret: testSecret},
		AuthRepository: env.users,
		TokenStore:     env.denylist,
		AuthService:    env.auth,
		MediaService:   env.media,
	}
	env.router = s.setupRouter()
	return env
}

func (e *testEnv) tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := jwt.GenerateToken(user.Email, testSecret, user.Role.Name, user.ID)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return token
}

func (e *testEnv) do(method, target, token string, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}
