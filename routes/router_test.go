package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avezhov/pulse/cache"
	"github.com/avezhov/pulse/config"
	"github.com/avezhov/pulse/models"
	"github.com/avezhov/pulse/utils"
)

func newTestRouter(t *testing.T) (*gorm.DB, *cache.MemoryStore, http.Handler) {
	t.Helper()

	config.SetForTesting(config.AppConfig{
		AppPort:             "0",
		JWTSecret:           "test-secret",
		GinMode:             "test",
		GinPath:             filepath.Join(t.TempDir(), "gin.log"),
		LogLevel:            "error",
		PageSize:            10,
		FeedCacheTTLSeconds: 20,
		RateLimitPerMinute:  600,
		AllowedOrigins:      []string{"*"},
		AdminUsernames:      []string{"admin"},
		UploadDir:           t.TempDir(),
		UploadTTLMinutes:    60,
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
		&models.UploadedImage{},
	))

	store := cache.NewMemoryStore()
	return db, store, SetupRouter(db, store)
}

func authHeader(t *testing.T, userID uint, username string) string {
	t.Helper()
	token, err := utils.GenerateToken(userID, username, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, r http.Handler, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLandingFeedCacheStaleness(t *testing.T) {
	db, _, r := newTestRouter(t)

	author := models.User{Username: "vera"}
	require.NoError(t, db.Create(&author).Error)
	post := models.Post{AuthorID: author.ID, Text: "original text", PubDate: time.Now()}
	require.NoError(t, db.Create(&post).Error)

	// Miss: feed rendered and stored.
	first := doJSON(t, r, http.MethodGet, "/api/v1/posts", "", nil)
	require.Equal(t, http.StatusOK, first.Code)
	blobA := first.Body.Bytes()
	assert.Contains(t, string(blobA), "original text")

	// Mutate underneath the cache.
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).Update("text", "mutated text").Error)

	// Hit within TTL: identical stale blob, mutation invisible.
	second := doJSON(t, r, http.MethodGet, "/api/v1/posts", "", nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, blobA, second.Body.Bytes())

	// Out-of-band clear, then a fresh render reflects the mutation.
	cleared := doJSON(t, r, http.MethodPost, "/api/v1/admin/cache/clear", authHeader(t, 99, "admin"), nil)
	require.Equal(t, http.StatusOK, cleared.Code)

	third := doJSON(t, r, http.MethodGet, "/api/v1/posts", "", nil)
	require.Equal(t, http.StatusOK, third.Code)
	blobB := third.Body.Bytes()
	assert.NotEqual(t, blobA, blobB)
	assert.Contains(t, string(blobB), "mutated text")
}

func TestCacheClearRequiresAdmin(t *testing.T) {
	_, _, r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/admin/cache/clear", authHeader(t, 5, "mortal"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/admin/cache/clear", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	db, _, r := newTestRouter(t)

	admin := authHeader(t, 1, "admin")
	w := doJSON(t, r, http.MethodPost, "/api/v1/admin/groups", admin, map[string]string{
		"title": "Cooking", "slug": "cooking", "description": "recipes",
	})
	require.Equal(t, http.StatusOK, w.Code)

	ann := authHeader(t, 2, "ann")
	w = doJSON(t, r, http.MethodPost, "/api/v1/posts", ann, map[string]string{
		"text": "my first recipe", "group_slug": "cooking",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Listed under the group
	w = doJSON(t, r, http.MethodGet, "/api/v1/groups/cooking/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "my first recipe")

	// Unknown group slug is a 404
	w = doJSON(t, r, http.MethodGet, "/api/v1/groups/nonexistent-slug/posts", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// A stranger cannot edit
	var created models.Post
	require.NoError(t, db.First(&created).Error)
	bob := authHeader(t, 3, "bob")
	w = doJSON(t, r, http.MethodPut, "/api/v1/posts/1", bob, map[string]string{"text": "hijack"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Writes require identity
	w = doJSON(t, r, http.MethodPost, "/api/v1/posts", "", map[string]string{"text": "anon"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFollowFeedOverHTTP(t *testing.T) {
	db, _, r := newTestRouter(t)

	author := models.User{Username: "vera"}
	require.NoError(t, db.Create(&author).Error)
	require.NoError(t, db.Create(&models.Post{AuthorID: author.ID, Text: "from vera", PubDate: time.Now()}).Error)

	reader := authHeader(t, 42, "reader")

	// Nothing followed yet
	w := doJSON(t, r, http.MethodGet, "/api/v1/feed", reader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "from vera")

	w = doJSON(t, r, http.MethodPost, "/api/v1/follows/vera", reader, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Following twice is fine
	w = doJSON(t, r, http.MethodPost, "/api/v1/follows/vera", reader, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/feed", reader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "from vera")

	w = doJSON(t, r, http.MethodDelete, "/api/v1/follows/vera", reader, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/feed", reader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "from vera")
}

func TestImageUploadOverHTTP(t *testing.T) {
	db, _, r := newTestRouter(t)
	ann := authHeader(t, 7, "ann")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "pic.png")
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", ann)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Code)
	require.True(t, strings.HasPrefix(resp.Data.URL, "/static/uploads/"))

	// Stored on disk under the random name the URL carries.
	stored := filepath.Join(config.Get().UploadDir, filepath.Base(resp.Data.URL))
	assert.FileExists(t, stored)

	var record models.UploadedImage
	require.NoError(t, db.Where("url = ?", resp.Data.URL).First(&record).Error)
	assert.Equal(t, uint(7), record.AuthorID)
	assert.Equal(t, stored, record.FilePath)
	assert.True(t, record.ExpireAt.After(time.Now()))

	// Unsupported extension is rejected before anything is stored.
	buf.Reset()
	mw = multipart.NewWriter(&buf)
	part, err = mw.CreateFormFile("image", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("text"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req = httptest.NewRequest(http.MethodPost, "/api/v1/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", ann)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Identity required.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/upload", strings.NewReader(""))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
