package middleware

import (
	"bitwise74/roommate-api/internal/model"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newJWTTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	viper.Set("jwt.secret", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.User{}))

	r := gin.New()
	r.Use(NewRequestIDMiddleware())
	r.GET("/protected", NewJWTMiddleware(db), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("userID"))
	})

	return r, db
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTMiddleware(t *testing.T) {
	r, db := newJWTTestRouter(t)

	require.NoError(t, db.Create(&model.User{
		ID:           "u1",
		Name:         "Alice",
		Email:        "a@x.com",
		PasswordHash: "x",
		Verified:     true,
	}).Error)

	require.NoError(t, db.Create(&model.User{
		ID:           "u2",
		Name:         "Bob",
		Email:        "b@x.com",
		PasswordHash: "x",
	}).Error)

	valid := jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}

	t.Run("valid token", func(t *testing.T) {
		w := get(r, signToken(t, valid))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "u1", w.Body.String())
	})

	t.Run("no token", func(t *testing.T) {
		w := get(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := get(r, "not.a.token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		w := get(r, signToken(t, jwt.MapClaims{
			"user_id": "u1",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		}))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unverified user", func(t *testing.T) {
		w := get(r, signToken(t, jwt.MapClaims{
			"user_id": "u2",
			"exp":     time.Now().Add(time.Hour).Unix(),
		}))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		w := get(r, signToken(t, jwt.MapClaims{
			"user_id": "gone",
			"exp":     time.Now().Add(time.Hour).Unix(),
		}))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("wrong signature", func(t *testing.T) {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, valid).SignedString([]byte("other-secret"))
		require.NoError(t, err)

		w := get(r, s)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
