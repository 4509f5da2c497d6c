package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-historico/internal/application/auth"
	"github.com/jhoicas/inventario-historico/internal/application/dto"
	"github.com/jhoicas/inventario-historico/internal/domain/entity"
	"github.com/jhoicas/inventario-historico/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/inventario-historico/internal/interfaces/http"
)

func buildLoginApp(t *testing.T) *fiber.App {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("clave-segura"), bcrypt.MinCost)
	require.NoError(t, err)
	users := memory.NewUsers(
		entity.User{ID: "u-1", Email: "bodega@example.com", PasswordHash: string(hash), Role: entity.RoleBodeguero, Active: true},
		entity.User{ID: "u-2", Email: "baja@example.com", PasswordHash: string(hash), Role: entity.RoleConsulta},
	)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 5, Issuer: "test"}),
		JWTSecret: testJWTSecret,
	})
	return app
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_TokenSirveParaRutasProtegidas(t *testing.T) {
	app := buildLoginApp(t)
	app.Get("/api/whoami", func(c *fiber.Ctx) error {
		return c.SendString(apphttp.GetRole(c))
	})
	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: "bodega@example.com", Password: "clave-segura"})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, entity.RoleBodeguero, out.User.Role)

	me := doJSON(t, app, http.MethodGet, "/api/whoami", "Bearer "+out.Token, nil)
	defer me.Body.Close()
	require.Equal(t, http.StatusOK, me.StatusCode)
	role, err := io.ReadAll(me.Body)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleBodeguero, string(role))
}

func TestLogin_CredencialesInvalidas401(t *testing.T) {
	app := buildLoginApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: "bodega@example.com", Password: "otra"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Code)
}

func TestLogin_CuentaInactiva403(t *testing.T) {
	app := buildLoginApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: "baja@example.com", Password: "clave-segura"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLogin_CamposVacios400(t *testing.T) {
	app := buildLoginApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}

func TestLogin_EmailMalFormado400(t *testing.T) {
	app := buildLoginApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: "bodega", Password: "clave-segura"})
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := decodeError(t, resp)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Message, "email: email")
}
