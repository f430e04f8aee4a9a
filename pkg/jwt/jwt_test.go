package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/AgroOrdenes-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse_ConRole(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u-1", "agronomo", "agro-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, role, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "agronomo", role)
}

func TestTokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u-1", "admin", "agro-test", -1)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestSecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u-1", "admin", "agro-test", 60)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u-1", "admin", "agro-test", 60)
	assert.Error(t, err)
	_, _, err = pkgjwt.Parse("", "x")
	assert.Error(t, err)
}

func TestParse_RechazaOtroAlgoritmoYTokenSinExpiracion(t *testing.T) {
	exp := gojwt.NewNumericDate(time.Now().Add(time.Hour))

	hs512, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, pkgjwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: exp},
		UserID:           "u-1",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, _, err = pkgjwt.Parse(testSecret, hs512)
	assert.Error(t, err)

	sinExp, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, pkgjwt.Claims{UserID: "u-1"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, _, err = pkgjwt.Parse(testSecret, sinExp)
	assert.Error(t, err)
}

func TestParse_UsuarioDesdeSubject(t *testing.T) {
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, pkgjwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   "u-9",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "operario",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	userID, role, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-9", userID)
	assert.Equal(t, "operario", role)

	_, err = pkgjwt.Generate(testSecret, "", "admin", "agro-test", 60)
	assert.Error(t, err)
}
