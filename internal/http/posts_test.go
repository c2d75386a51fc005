package http

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/foliosite/folio/internal/models"
)

type postPage struct {
	Items      []models.Post `json:"items"`
	NextCursor *string       `json:"nextCursor"`
}

func seedPostRows(t *testing.T, app *testApp, n int, pinned map[int]bool) {
	t.Helper()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		post := models.Post{
			ID:        fmt.Sprintf("post-%02d", i),
			Title:     fmt.Sprintf("Post %d", i),
			Content:   "content",
			IsPinned:  pinned[i],
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := app.db.Create(&post).Error; err != nil {
			t.Fatalf("seed post: %v", err)
		}
	}
}

func TestListPostsPaginates(t *testing.T) {
	app := newTestApp(t, "ok")
	seedPostRows(t, app, 15, nil)

	w := app.do(t, http.MethodGet, "/api/posts?limit=10&sort=newest", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	page := decodeBody[postPage](t, w)
	if len(page.Items) != 10 {
		t.Fatalf("expected 10 items, got %d", len(page.Items))
	}
	if page.Items[0].ID != "post-15" {
		t.Errorf("expected newest first, got %s", page.Items[0].ID)
	}
	if page.NextCursor == nil {
		t.Fatal("expected next cursor")
	}

	w = app.do(t, http.MethodGet, "/api/posts?limit=10&sort=newest&cursor="+*page.NextCursor, "", nil)
	rest := decodeBody[postPage](t, w)
	if len(rest.Items) != 5 {
		t.Fatalf("expected 5 remaining items, got %d", len(rest.Items))
	}
	if rest.NextCursor != nil {
		t.Fatal("expected exhausted list")
	}
}

func TestListPostsPinnedFirstOnOldestSort(t *testing.T) {
	app := newTestApp(t, "ok")
	// The pinned post is also the most recently created one.
	seedPostRows(t, app, 6, map[int]bool{6: true})

	w := app.do(t, http.MethodGet, "/api/posts?sort=oldest", "", nil)
	page := decodeBody[postPage](t, w)
	if len(page.Items) != 6 {
		t.Fatalf("expected 6 items, got %d", len(page.Items))
	}
	if page.Items[0].ID != "post-06" {
		t.Errorf("expected pinned post first despite oldest sort, got %s", page.Items[0].ID)
	}
	if page.Items[1].ID != "post-01" {
		t.Errorf("expected unpinned tier in oldest order, got %s", page.Items[1].ID)
	}
}

func TestListPostsRejectsBadLimit(t *testing.T) {
	app := newTestApp(t, "ok")

	for _, limit := range []string{"0", "101", "-3"} {
		w := app.do(t, http.MethodGet, "/api/posts?limit="+limit, "", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("limit %s: expected 400, got %d", limit, w.Code)
		}
	}
}

func TestCreatePostRequiresAdmin(t *testing.T) {
	app := newTestApp(t, "ok")
	_, userToken := seedUser(t, app.db, models.RoleUser)
	_, adminToken := seedUser(t, app.db, models.RoleAdmin)

	body := map[string]string{"title": "Hello", "content": "World"}

	if w := app.do(t, http.MethodPost, "/api/posts", "", body); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: expected 401, got %d", w.Code)
	}
	if w := app.do(t, http.MethodPost, "/api/posts", userToken, body); w.Code != http.StatusForbidden {
		t.Errorf("user: expected 403, got %d", w.Code)
	}

	w := app.do(t, http.MethodPost, "/api/posts", adminToken, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("admin: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	post := decodeBody[models.Post](t, w)
	if post.ID == "" || post.Title != "Hello" || !post.IsPublished {
		t.Errorf("unexpected created post: %+v", post)
	}
}

func TestCreatePostValidation(t *testing.T) {
	app := newTestApp(t, "ok")
	_, adminToken := seedUser(t, app.db, models.RoleAdmin)

	w := app.do(t, http.MethodPost, "/api/posts", adminToken, map[string]string{"title": "", "content": "x"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty title, got %d", w.Code)
	}
}

func TestUpdatePostRefreshesRow(t *testing.T) {
	app := newTestApp(t, "ok")
	_, adminToken := seedUser(t, app.db, models.RoleAdmin)
	seedPostRows(t, app, 1, nil)

	w := app.do(t, http.MethodPut, "/api/posts/post-01", adminToken, map[string]string{"title": "New", "content": "Body"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var stored models.Post
	if err := app.db.First(&stored, "id = ?", "post-01").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Title != "New" {
		t.Errorf("title not updated: %q", stored.Title)
	}
	if !stored.UpdatedAt.After(stored.CreatedAt) {
		t.Errorf("updatedAt not refreshed: %v", stored.UpdatedAt)
	}
}

func TestUpdatePostNotFound(t *testing.T) {
	app := newTestApp(t, "ok")
	_, adminToken := seedUser(t, app.db, models.RoleAdmin)

	w := app.do(t, http.MethodPut, "/api/posts/missing", adminToken, map[string]string{"title": "a", "content": "b"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeletePost(t *testing.T) {
	app := newTestApp(t, "ok")
	_, adminToken := seedUser(t, app.db, models.RoleAdmin)
	seedPostRows(t, app, 1, nil)

	if w := app.do(t, http.MethodDelete, "/api/posts/missing", adminToken, nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", w.Code)
	}

	if w := app.do(t, http.MethodDelete, "/api/posts/post-01", adminToken, nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var count int64
	app.db.Model(&models.Post{}).Count(&count)
	if count != 0 {
		t.Errorf("expected post deleted, %d rows remain", count)
	}
}

func TestTogglePinTwiceRestoresState(t *testing.T) {
	app := newTestApp(t, "ok")
	_, adminToken := seedUser(t, app.db, models.RoleAdmin)
	seedPostRows(t, app, 1, nil)

	w := app.do(t, http.MethodPost, "/api/posts/post-01/pin", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("first toggle: expected 200, got %d", w.Code)
	}
	if post := decodeBody[models.Post](t, w); !post.IsPinned {
		t.Fatal("expected post pinned after first toggle")
	}

	w = app.do(t, http.MethodPost, "/api/posts/post-01/pin", adminToken, nil)
	if post := decodeBody[models.Post](t, w); post.IsPinned {
		t.Fatal("expected pin restored after second toggle")
	}

	if w := app.do(t, http.MethodPost, "/api/posts/missing/pin", adminToken, nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", w.Code)
	}
}

func TestGetPostDetail(t *testing.T) {
	app := newTestApp(t, "ok")
	seedPostRows(t, app, 1, nil)

	w := app.do(t, http.MethodGet, "/api/posts/post-01", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if post := decodeBody[models.Post](t, w); post.ID != "post-01" {
		t.Errorf("unexpected post %+v", post)
	}

	if w := app.do(t, http.MethodGet, "/api/posts/missing", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
