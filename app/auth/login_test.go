package auth

import (
	"bitwise74/roommate-api/internal/model"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginSuccess(t *testing.T) {
	d, _ := newTestDeps(t)
	r := newTestRouter(d)

	signupUser(t, r, "Alice", "a@x.com", "pw123456")

	w := doJSON(t, r, http.MethodPost, "/api/users/login", gin.H{
		"email":    "a@x.com",
		"password": "pw123456",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := parseBody(t, w)
	assert.Equal(t, "Login successful", body["message"])
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, "Alice", body["name"])

	tokenStr, ok := body["token"].(string)
	require.True(t, ok, "no token in response")

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	var user model.User
	require.NoError(t, d.DB.Where("email = ?", "a@x.com").First(&user).Error)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "a@x.com", claims["email"])
	assert.Equal(t, user.ID, claims["user_id"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	iat, err := claims.GetIssuedAt()
	require.NoError(t, err)
	assert.Equal(t, tokenValidity, exp.Sub(iat.Time))
}

func TestLoginFailureIsGeneric(t *testing.T) {
	d, _ := newTestDeps(t)
	r := newTestRouter(d)

	signupUser(t, r, "Alice", "a@x.com", "pw123456")

	wrongPass := doJSON(t, r, http.MethodPost, "/api/users/login", gin.H{
		"email":    "a@x.com",
		"password": "wrongwrong",
	})
	unknownUser := doJSON(t, r, http.MethodPost, "/api/users/login", gin.H{
		"email":    "nobody@x.com",
		"password": "pw123456",
	})

	// Both cases must be indistinguishable to the caller
	require.Equal(t, http.StatusForbidden, wrongPass.Code)
	require.Equal(t, http.StatusForbidden, unknownUser.Code)

	b1 := parseBody(t, wrongPass)
	b2 := parseBody(t, unknownUser)
	assert.Equal(t, "Authentication failed. Email or password is incorrect.", b1["message"])
	assert.Equal(t, b1["message"], b2["message"])
	assert.Equal(t, b1["success"], b2["success"])
}

func TestLoginStoreFailure(t *testing.T) {
	d, _ := newTestDeps(t)
	r := newTestRouter(d)

	signupUser(t, r, "Alice", "a@x.com", "pw123456")

	// Kill the connection so the lookup fails with something other
	// than a missing record
	sqlDB, err := d.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := doJSON(t, r, http.MethodPost, "/api/users/login", gin.H{
		"email":    "a@x.com",
		"password": "pw123456",
	})

	// A store outage is not an authentication failure
	require.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())

	body := parseBody(t, w)
	assert.Equal(t, "Internal Server Error", body["message"])
	assert.Equal(t, false, body["success"])
}

func TestLoginEmptyFields(t *testing.T) {
	d, _ := newTestDeps(t)
	r := newTestRouter(d)

	w := doJSON(t, r, http.MethodPost, "/api/users/login", gin.H{
		"email": "a@x.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}
