package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tpv/internal/config"
	"tpv/internal/dto"
	"tpv/internal/handler"
	"tpv/internal/middleware"
	"tpv/internal/model"
	"tpv/internal/repository"
	"tpv/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── In-memory Repository Stub ─────────────────────────────────────────────────

type stubUsuarioRepo struct {
	users map[string]*model.Usuario
	seq   uint
}

func newStubRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: make(map[string]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if _, ok := r.users[u.Username]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.seq++
	u.ID = r.seq
	r.users[u.Username] = u
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	u, ok := r.users[username]
	if !ok || !u.Activo {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uint) (*model.Usuario, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	users := make([]model.Usuario, 0, len(r.users))
	for _, u := range r.users {
		if u.Activo {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (r *stubUsuarioRepo) ListAll(_ context.Context) ([]model.Usuario, error) {
	users := make([]model.Usuario, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, id uint) error {
	for _, u := range r.users {
		if u.ID == id {
			u.Activo = false
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

const testSecret = "test_jwt_secret_32_chars_minimum!"

func newTestCfg() *config.Config {
	return &config.Config{
		JWTSecret:          testSecret,
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
}

func seedUser(t *testing.T, repo *stubUsuarioRepo, username, password, rol string) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	repo.seq++
	u := &model.Usuario{
		ID: repo.seq, Username: username, Nombre: "Test User",
		PasswordHash: string(hash), Rol: rol, Activo: true,
	}
	repo.users[username] = u
	return u
}

func signToken(t *testing.T, userID uint, rol string, dur time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID, "username": "testuser", "rol": rol,
		"exp": time.Now().Add(dur).Unix(), "iat": time.Now().Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func doLoginRequest(t *testing.T, svc service.AuthService, req dto.LoginRequest) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	authH := handler.NewAuthHandler(svc)
	r.POST("/login", authH.Login)

	body, _ := json.Marshal(req)
	w := httptest.NewRecorder()
	httpReq, _ := http.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, httpReq)
	return w
}

// ── Tests: Login ──────────────────────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "admin", "password123", model.RolAdministrador)
	svc := service.NewAuthService(repo, newTestCfg())

	w := doLoginRequest(t, svc, dto.LoginRequest{Username: "admin", Password: "password123"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, model.RolAdministrador, resp.User.Rol)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "vendedor1", "correctpass", model.RolVendedor)
	svc := service.NewAuthService(repo, newTestCfg())

	w := doLoginRequest(t, svc, dto.LoginRequest{Username: "vendedor1", Password: "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_UserNotFound(t *testing.T) {
	repo := newStubRepo()
	svc := service.NewAuthService(repo, newTestCfg())

	w := doLoginRequest(t, svc, dto.LoginRequest{Username: "noexiste", Password: "anypass123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_ShortPassword_Rejected(t *testing.T) {
	repo := newStubRepo()
	svc := service.NewAuthService(repo, newTestCfg())

	w := doLoginRequest(t, svc, dto.LoginRequest{Username: "u", Password: "12"})
	// 422 Unprocessable Entity from bindAndValidate
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// ── Tests: Refresh ────────────────────────────────────────────────────────────

func TestRefresh_Success(t *testing.T) {
	repo := newStubRepo()
	u := seedUser(t, repo, "admin2", "pass1234", model.RolAdministrador)
	svc := service.NewAuthService(repo, newTestCfg())

	loginW := doLoginRequest(t, svc, dto.LoginRequest{Username: "admin2", Password: "pass1234"})
	require.Equal(t, http.StatusOK, loginW.Code)
	var loginResp dto.LoginResponse
	require.NoError(t, json.Unmarshal(loginW.Body.Bytes(), &loginResp))

	resp, err := svc.Refresh(context.Background(), loginResp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, u.Username, resp.User.Username)
}

func TestRefresh_InvalidToken(t *testing.T) {
	repo := newStubRepo()
	svc := service.NewAuthService(repo, newTestCfg())

	_, err := svc.Refresh(context.Background(), "this.is.garbage")
	assert.Error(t, err)
}

func TestRefresh_ExpiredToken(t *testing.T) {
	repo := newStubRepo()
	u := seedUser(t, repo, "vendedor2", "pass12345", model.RolVendedor)
	svc := service.NewAuthService(repo, newTestCfg())

	expired := signToken(t, u.ID, model.RolVendedor, -1*time.Second)
	_, err := svc.Refresh(context.Background(), expired)
	assert.Error(t, err)
}

func TestRefresh_InactiveUser(t *testing.T) {
	repo := newStubRepo()
	u := seedUser(t, repo, "baja", "pass12345", model.RolVendedor)
	svc := service.NewAuthService(repo, newTestCfg())

	tok := signToken(t, u.ID, model.RolVendedor, time.Hour)
	require.NoError(t, svc.DesactivarUsuario(context.Background(), u.ID))

	_, err := svc.Refresh(context.Background(), tok)
	assert.Error(t, err)
}

// ── Tests: User CRUD (service layer) ─────────────────────────────────────────

func TestCrearUsuario_Success(t *testing.T) {
	repo := newStubRepo()
	svc := service.NewAuthService(repo, newTestCfg())

	resp, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "nuevo", Nombre: "Nuevo User", Password: "securepass",
		Rol: model.RolVendedor,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RolVendedor, resp.Rol)
	assert.NotZero(t, resp.ID)
	assert.True(t, resp.Activo)

	stored := repo.users["nuevo"]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("securepass")))
}

func TestCrearUsuario_Duplicado(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "repetido", "pass1234", model.RolVendedor)
	svc := service.NewAuthService(repo, newTestCfg())

	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "repetido", Nombre: "Otro", Password: "securepass", Rol: model.RolVendedor,
	})
	assert.ErrorIs(t, err, service.ErrDuplicado)
}

func TestListarUsuarios(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "u1", "pass1234", model.RolVendedor)
	u2 := seedUser(t, repo, "u2", "pass1234", model.RolAdministrador)
	svc := service.NewAuthService(repo, newTestCfg())
	require.NoError(t, svc.DesactivarUsuario(context.Background(), u2.ID))

	activos, err := svc.ListarUsuarios(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, activos, 1)

	todos, err := svc.ListarUsuarios(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}

func TestDesactivarUsuario(t *testing.T) {
	repo := newStubRepo()
	u := seedUser(t, repo, "goodbye", "pass1234", model.RolVendedor)
	svc := service.NewAuthService(repo, newTestCfg())

	require.NoError(t, svc.DesactivarUsuario(context.Background(), u.ID))

	_, err := repo.FindByUsername(context.Background(), "goodbye")
	assert.Error(t, err, "soft-deleted user must not be findable")

	assert.ErrorIs(t, svc.DesactivarUsuario(context.Background(), 999), service.ErrNotFound)
}

func TestMe(t *testing.T) {
	repo := newStubRepo()
	u := seedUser(t, repo, "vendedor1", "pass1234", model.RolVendedor)
	svc := service.NewAuthService(repo, newTestCfg())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", middleware.JWTAuth(testSecret), handler.NewAuthHandler(svc).Me)

	w := doJSON(t, r, http.MethodGet, "/me", nil, signToken(t, u.ID, model.RolVendedor, time.Hour))
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.UsuarioResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "vendedor1", resp.Username)

	w = doJSON(t, r, http.MethodGet, "/me", nil, signToken(t, 404, model.RolVendedor, time.Hour))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
