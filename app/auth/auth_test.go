package auth

import (
	"bitwise74/roommate-api/internal"
	"bitwise74/roommate-api/internal/model"
	"bitwise74/roommate-api/pkg/middleware"
	"bitwise74/roommate-api/pkg/security"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type sentMail struct {
	to   string
	name string
	otp  string
	ttl  time.Duration
}

// fakeMailer captures the plaintext codes the handlers would have
// mailed out so tests can verify against them
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendOTP(to, name, otp string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.sent = append(f.sent, sentMail{to: to, name: name, otp: otp, ttl: ttl})
	return nil
}

func (f *fakeMailer) last(t *testing.T) sentMail {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	require.NotEmpty(t, f.sent, "no mail was sent")
	return f.sent[len(f.sent)-1]
}

func newTestDeps(t *testing.T) (*internal.Deps, *fakeMailer) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	viper.Set("jwt.secret", "test-secret")
	viper.Set("otp.length", 4)
	viper.Set("otp.expiry", time.Hour)
	viper.Set("resend.cooldown", time.Minute)
	viper.Set("resend.daily_limit", 5)

	// A named in-memory database per test so tests can't see each
	// other's rows
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.User{}, model.OTPRecord{}, model.ResendRequest{}))

	m := &fakeMailer{}

	return &internal.Deps{
		DB:     db,
		Argon:  security.New(),
		Mailer: m,
	}, m
}

func newTestRouter(d *internal.Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.NewRequestIDMiddleware())

	jwt := middleware.NewJWTMiddleware(d.DB)

	r.GET("/api/users", jwt, func(c *gin.Context) { Fetch(c, d) })
	r.POST("/api/users", func(c *gin.Context) { Signup(c, d) })
	r.POST("/api/users/login", func(c *gin.Context) { Login(c, d) })
	r.POST("/api/users/verify", func(c *gin.Context) { Verify(c, d) })
	r.POST("/api/users/verify/resend", func(c *gin.Context) { Resend(c, d) })

	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	return out
}

func signupUser(t *testing.T, r http.Handler, name, email, password string) {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/users", gin.H{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
