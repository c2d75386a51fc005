package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foliosite/folio/internal/cloudinary"
	"github.com/foliosite/folio/internal/lastfm"
	"github.com/foliosite/folio/internal/models"
	"github.com/foliosite/folio/internal/profanity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Post{},
		&models.Project{},
		&models.Log{},
		&models.Comment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fakeProfanity flags any message containing "darn".
func fakeProfanity(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		flagged := strings.Contains(body.Message, "darn")
		json.NewEncoder(w).Encode(map[string]any{
			"isProfanity": flagged,
			"score":       0.99,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// fakeCloudinary answers destroy calls with the given result string and
// upload calls with a fixed hosted location.
func fakeCloudinary(t *testing.T, destroyResult string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/image/destroy"):
			json.NewEncoder(w).Encode(map[string]string{"result": destroyResult})
		case strings.HasSuffix(r.URL.Path, "/image/upload"):
			json.NewEncoder(w).Encode(map[string]string{
				"secure_url": "https://res.example.com/demo/image/upload/v1/projects/uploaded.png",
				"public_id":  "projects/uploaded",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

type testApp struct {
	db     *gorm.DB
	env    *Env
	router *gin.Engine
}

func newTestApp(t *testing.T, destroyResult string) *testApp {
	t.Helper()
	db := openTestDB(t)

	images := cloudinary.NewClient("demo", "key", "secret")
	images.BaseURL = fakeCloudinary(t, destroyResult).URL

	env := &Env{
		DB:        db,
		Profanity: profanity.NewClient(fakeProfanity(t).URL),
		Images:    images,
		Music:     lastfm.NewClient("listener", "key"),
	}

	router := gin.New()
	SetupRoutes(router, env, "")
	return &testApp{db: db, env: env, router: router}
}

func seedUser(t *testing.T, db *gorm.DB, role string) (models.User, string) {
	t.Helper()
	user := models.User{
		Name:          "Visitor",
		Email:         uuid.NewString() + "@example.com",
		EmailVerified: true,
		Role:          role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token := uuid.NewString()
	session := models.Session{
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour),
		UserID:    user.ID,
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return user, token
}

var requestIP atomic.Int64

// do issues a JSON request from a fresh client IP so the per-IP rate limiter
// never interferes unless a test reuses an address on purpose.
func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	n := requestIP.Add(1)
	return a.doFrom(t, fmt.Sprintf("10.1.%d.%d:4000", n/250, n%250), method, path, token, body)
}

func (a *testApp) doFrom(t *testing.T, remoteAddr, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = remoteAddr
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}
