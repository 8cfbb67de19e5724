package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/almacen-api/pkg/jwt"
)

func newAuthFixture(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	store := memory.NewStore()
	return auth.NewAuthUseCase(memory.NewUserRepository(store), auth.JWTConfig{
		Secret:     "test-secret",
		ExpMinutes: 60,
		Issuer:     "almacen-api-test",
	})
}

func TestRegister_HasheaYAsignaRolPorDefecto(t *testing.T) {
	uc := newAuthFixture(t)

	out, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@acme.co", Password: "s3creta"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleOperator, out.Role, "sin rol explícito se asigna operator")
	assert.Equal(t, "active", out.Status)

	// Email duplicado.
	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "ana@acme.co", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	// Rol desconocido.
	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "x@acme.co", Password: "p", Role: "superuser"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_TokenConRolVerificable(t *testing.T) {
	uc := newAuthFixture(t)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "admin@acme.co", Password: "s3creta", Role: entity.RoleAdmin,
	})
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: "admin@acme.co", Password: "s3creta"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	userID, role, err := pkgjwt.Parse("test-secret", out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newAuthFixture(t)

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@acme.co", Password: "s3creta"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@acme.co", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(dto.LoginRequest{Email: "nadie@acme.co", Password: "s3creta"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
