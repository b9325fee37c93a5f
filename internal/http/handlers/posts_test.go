package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/pcblog/internal/auth"
	"github.com/geocoder89/pcblog/internal/authz"
	"github.com/geocoder89/pcblog/internal/domain/post"
	"github.com/geocoder89/pcblog/internal/http/handlers"
	"github.com/geocoder89/pcblog/internal/storage"
	"github.com/geocoder89/pcblog/internal/utils"
)

// Fake repository implementations of the handlers.PostStore interface

type fakePostsRepo struct {
	listFn       func(ctx context.Context, filter post.ListFilter) ([]post.Post, error)
	listByUserFn func(ctx context.Context, ownerID int64) ([]post.Post, error)
	getFn        func(ctx context.Context, id int64) (post.Post, error)
	createFn     func(ctx context.Context, ownerID int64, f post.Fields) (post.Post, error)
	updateFn     func(ctx context.Context, id int64, f post.Fields) (post.Post, error)
	deleteFn     func(ctx context.Context, id int64) error
}

func (f *fakePostsRepo) List(ctx context.Context, filter post.ListFilter) ([]post.Post, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakePostsRepo) ListByUser(ctx context.Context, ownerID int64) ([]post.Post, error) {
	if f.listByUserFn != nil {
		return f.listByUserFn(ctx, ownerID)
	}
	return nil, nil
}

func (f *fakePostsRepo) GetByID(ctx context.Context, id int64) (post.Post, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return post.Post{}, post.ErrNotFound
}

func (f *fakePostsRepo) Create(ctx context.Context, ownerID int64, fields post.Fields) (post.Post, error) {
	if f.createFn != nil {
		return f.createFn(ctx, ownerID, fields)
	}
	return post.Post{ID: 1, UserID: ownerID, Name: fields.Name, ImageURL: fields.ImageURL}, nil
}

func (f *fakePostsRepo) Update(ctx context.Context, id int64, fields post.Fields) (post.Post, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, fields)
	}
	return post.Post{ID: id, Name: fields.Name, ImageURL: fields.ImageURL}, nil
}

func (f *fakePostsRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

// fakeAuthorizer answers with err for every post
type fakeAuthorizer struct {
	err error
}

func (f fakeAuthorizer) Authorize(ctx context.Context, postID int64, id auth.Identity) error {
	return f.err
}

type fakeImages struct {
	url     string
	err     error
	saved   int
	deleted []string
}

func (f *fakeImages) Driver() string { return "fake" }

func (f *fakeImages) Delete(ctx context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeImages) Save(ctx context.Context, r io.Reader) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	if f.err != nil {
		return "", f.err
	}
	f.saved++
	return f.url, nil
}

var owner = auth.Identity{ID: 1, Name: "Ada", Email: "ada@example.com"}

func multipartBody(t *testing.T, fields map[string]string, file []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}

	if file != nil {
		fw, err := mw.CreateFormFile("image", "rig.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(file); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}

	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	return &buf, mw.FormDataContentType()
}

func strPtr(s string) *string { return &s }

func TestListPostsHandler(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	all := []post.Post{
		{ID: 3, Name: "c", CreatedAt: base.Add(2 * time.Minute)},
		{ID: 2, Name: "b", CreatedAt: base.Add(time.Minute)},
		{ID: 1, Name: "a", CreatedAt: base},
	}

	t.Run("empty list is an empty array", func(t *testing.T) {
		h := handlers.NewPostsHandler(&fakePostsRepo{}, fakeAuthorizer{}, &fakeImages{})
		r := setupRouter(http.MethodGet, "/api/pcs", h.List)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pcs", nil))

		if w.Code != http.StatusOK || w.Body.String() != "[]" {
			t.Fatalf("expected 200 [], got %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("limit sets next cursor", func(t *testing.T) {
		var gotFilter post.ListFilter
		repo := &fakePostsRepo{
			listFn: func(ctx context.Context, filter post.ListFilter) ([]post.Post, error) {
				gotFilter = filter
				return all[:filter.Limit], nil
			},
		}
		h := handlers.NewPostsHandler(repo, fakeAuthorizer{}, &fakeImages{})
		r := setupRouter(http.MethodGet, "/api/pcs", h.List)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pcs?limit=2", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if gotFilter.Limit != 3 {
			t.Fatalf("expected repo to be asked for limit+1 rows, got %d", gotFilter.Limit)
		}

		var items []post.Post
		if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}

		next := w.Header().Get("X-Next-Cursor")
		c, err := utils.DecodePostCursor(next)
		if err != nil {
			t.Fatalf("bad next cursor %q: %v", next, err)
		}
		if c.ID != 2 || !c.CreatedAt.Equal(all[1].CreatedAt) {
			t.Fatalf("cursor should point at the last returned item, got %+v", c)
		}
	})

	t.Run("cursor is passed to the store", func(t *testing.T) {
		cursor, _ := utils.EncodePostCursor(all[1].CreatedAt, 2)

		var gotFilter post.ListFilter
		repo := &fakePostsRepo{
			listFn: func(ctx context.Context, filter post.ListFilter) ([]post.Post, error) {
				gotFilter = filter
				return all[2:], nil
			},
		}
		h := handlers.NewPostsHandler(repo, fakeAuthorizer{}, &fakeImages{})
		r := setupRouter(http.MethodGet, "/api/pcs", h.List)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pcs?limit=2&cursor="+cursor, nil))

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if gotFilter.AfterID != 2 || !gotFilter.AfterCreatedAt.Equal(all[1].CreatedAt) {
			t.Fatalf("unexpected filter %+v", gotFilter)
		}
		if w.Header().Get("X-Next-Cursor") != "" {
			t.Fatalf("last page must not carry a next cursor")
		}
	})

	for _, q := range []string{"limit=0", "limit=101", "limit=abc", "cursor=not-a-cursor"} {
		t.Run("bad query "+q, func(t *testing.T) {
			h := handlers.NewPostsHandler(&fakePostsRepo{}, fakeAuthorizer{}, &fakeImages{})
			r := setupRouter(http.MethodGet, "/api/pcs", h.List)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pcs?"+q, nil))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestListMyPostsHandler(t *testing.T) {
	var gotOwner int64
	repo := &fakePostsRepo{
		listByUserFn: func(ctx context.Context, ownerID int64) ([]post.Post, error) {
			gotOwner = ownerID
			return []post.Post{{ID: 9, UserID: ownerID}}, nil
		},
	}
	h := handlers.NewPostsHandler(repo, fakeAuthorizer{}, &fakeImages{})
	r := setupAuthedRouter(http.MethodGet, "/api/pcs/my", owner, h.ListMine)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pcs/my", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotOwner != owner.ID {
		t.Fatalf("listed posts of %d, want %d", gotOwner, owner.ID)
	}
}

func TestGetPostHandler(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		repoSetUp      func(*fakePostsRepo)
		wantStatusCode int
	}{
		{
			name: "found",
			path: "/api/pcs/5",
			repoSetUp: func(f *fakePostsRepo) {
				f.getFn = func(ctx context.Context, id int64) (post.Post, error) {
					return post.Post{ID: id, Name: "Rig"}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "not found",
			path:           "/api/pcs/5",
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "invalid id",
			path:           "/api/pcs/abc",
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "store failure",
			path: "/api/pcs/5",
			repoSetUp: func(f *fakePostsRepo) {
				f.getFn = func(ctx context.Context, id int64) (post.Post, error) {
					return post.Post{}, errors.New("db down")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakePostsRepo{}
			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewPostsHandler(repo, fakeAuthorizer{}, &fakeImages{})
			r := setupRouter(http.MethodGet, "/api/pcs/:id", h.Get)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != tt.wantStatusCode {
				t.Fatalf("expected status %d, got %d, body=%s", tt.wantStatusCode, w.Code, w.Body.String())
			}
		})
	}
}

func TestGetPostHandler_ETag(t *testing.T) {
	updatedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakePostsRepo{
		getFn: func(ctx context.Context, id int64) (post.Post, error) {
			return post.Post{ID: id, Name: "Rig", UpdatedAt: updatedAt}, nil
		},
	}
	h := handlers.NewPostsHandler(repo, fakeAuthorizer{}, &fakeImages{})
	r := setupRouter(http.MethodGet, "/api/pcs/:id", h.Get)

	get := func(ifNoneMatch string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/pcs/5", nil)
		if ifNoneMatch != "" {
			req.Header.Set("If-None-Match", ifNoneMatch)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	etag := get("").Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected an ETag header")
	}

	if w := get(etag); w.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", w.Code)
	}
	if w := get(`"other", ` + strings.TrimPrefix(etag, "W/")); w.Code != http.StatusNotModified {
		t.Fatalf("expected 304 for a strong copy inside a list, got %d", w.Code)
	}

	// an update bumps updated_at and invalidates the old tag
	updatedAt = updatedAt.Add(time.Second)

	w := get(etag)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after an update, got %d", w.Code)
	}
	if w.Header().Get("ETag") == etag {
		t.Fatalf("etag should change when the post changes")
	}
}

func TestCreatePostHandler(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		var gotOwner int64
		var gotFields post.Fields
		repo := &fakePostsRepo{
			createFn: func(ctx context.Context, ownerID int64, f post.Fields) (post.Post, error) {
				gotOwner, gotFields = ownerID, f
				return post.Post{ID: 10, UserID: ownerID, Name: f.Name}, nil
			},
		}
		h := handlers.NewPostsHandler(repo, fakeAuthorizer{}, &fakeImages{})
		r := setupAuthedRouter(http.MethodPost, "/api/pcs", owner, h.Create)

		w := doJSON(r, http.MethodPost, "/api/pcs", `{"name":"Rig","description":"short","full_description":"long"}`)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d, body=%s", w.Code, w.Body.String())
		}
		if gotOwner != owner.ID {
			t.Fatalf("post created for %d, want %d", gotOwner, owner.ID)
		}
		if gotFields.Name != "Rig" || gotFields.FullDescription != "long" || gotFields.ImageURL != nil {
			t.Fatalf("unexpected fields %+v", gotFields)
		}

		var resp struct {
			Message string    `json:"message"`
			PC      post.Post `json:"pc"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if resp.PC.ID != 10 || resp.Message == "" {
			t.Fatalf("unexpected response %+v", resp)
		}
	})

	t.Run("multipart with image", func(t *testing.T) {
		images := &fakeImages{url: "/images/abc.png"}
		var gotFields post.Fields
		repo := &fakePostsRepo{
			createFn: func(ctx context.Context, ownerID int64, f post.Fields) (post.Post, error) {
				gotFields = f
				return post.Post{ID: 11, UserID: ownerID, Name: f.Name, ImageURL: f.ImageURL}, nil
			},
		}
		h := handlers.NewPostsHandler(repo, fakeAuthorizer{}, images)
		r := setupAuthedRouter(http.MethodPost, "/api/pcs", owner, h.Create)

		body, ct := multipartBody(t, map[string]string{"name": "Rig"}, []byte("png bytes"))
		req := httptest.NewRequest(http.MethodPost, "/api/pcs", body)
		req.Header.Set("Content-Type", ct)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d, body=%s", w.Code, w.Body.String())
		}
		if images.saved != 1 {
			t.Fatalf("expected the image to be saved once, got %d", images.saved)
		}
		if gotFields.ImageURL == nil || *gotFields.ImageURL != "/images/abc.png" {
			t.Fatalf("image url not passed to the store: %+v", gotFields.ImageURL)
		}
	})

	t.Run("rejects non image upload", func(t *testing.T) {
		images := &fakeImages{err: storage.ErrNotImage}
		created := false
		repo := &fakePostsRepo{
			createFn: func(ctx context.Context, ownerID int64, f post.Fields) (post.Post, error) {
				created = true
				return post.Post{}, nil
			},
		}
		h := handlers.NewPostsHandler(repo, fakeAuthorizer{}, images)
		r := setupAuthedRouter(http.MethodPost, "/api/pcs", owner, h.Create)

		body, ct := multipartBody(t, map[string]string{"name": "Rig"}, []byte("#!/bin/sh"))
		req := httptest.NewRequest(http.MethodPost, "/api/pcs", body)
		req.Header.Set("Content-Type", ct)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if got := errorCode(t, w); got != "invalid_image" {
			t.Fatalf("expected invalid_image, got %q", got)
		}
		if created {
			t.Fatalf("post must not be created when the upload is rejected")
		}
	})

	t.Run("store failure removes the upload", func(t *testing.T) {
		images := &fakeImages{url: "/images/abc.png"}
		repo := &fakePostsRepo{
			createFn: func(ctx context.Context, ownerID int64, f post.Fields) (post.Post, error) {
				return post.Post{}, errors.New("db down")
			},
		}
		h := handlers.NewPostsHandler(repo, fakeAuthorizer{}, images)
		r := setupAuthedRouter(http.MethodPost, "/api/pcs", owner, h.Create)

		body, ct := multipartBody(t, map[string]string{"name": "Rig"}, []byte("png bytes"))
		req := httptest.NewRequest(http.MethodPost, "/api/pcs", body)
		req.Header.Set("Content-Type", ct)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		if len(images.deleted) != 1 || images.deleted[0] != "/images/abc.png" {
			t.Fatalf("expected the stored image to be removed, deleted=%v", images.deleted)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		h := handlers.NewPostsHandler(&fakePostsRepo{}, fakeAuthorizer{}, &fakeImages{})
		r := setupAuthedRouter(http.MethodPost, "/api/pcs", owner, h.Create)

		w := doJSON(r, http.MethodPost, "/api/pcs", `{"description":"no name"}`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestUpdatePostHandler(t *testing.T) {
	existing := post.Post{ID: 5, UserID: owner.ID, Name: "Old", ImageURL: strPtr("/images/old.png")}

	tests := []struct {
		name           string
		authzErr       error
		body           string
		file           []byte
		wantStatusCode int
		wantImage      *string
	}{
		{
			name:           "keeps the current image",
			body:           `{"name":"New"}`,
			wantStatusCode: http.StatusOK,
			wantImage:      existing.ImageURL,
		},
		{
			name:           "image url from the body",
			body:           `{"name":"New","image_url":"https://cdn.example.com/x.png"}`,
			wantStatusCode: http.StatusOK,
			wantImage:      strPtr("https://cdn.example.com/x.png"),
		},
		{
			name:           "empty image url clears the image",
			body:           `{"name":"New","image_url":""}`,
			wantStatusCode: http.StatusOK,
			wantImage:      nil,
		},
		{
			name:           "uploaded file replaces the image",
			file:           []byte("png bytes"),
			wantStatusCode: http.StatusOK,
			wantImage:      strPtr("/images/new.png"),
		},
		{
			name:           "not the owner",
			authzErr:       authz.ErrForbidden,
			body:           `{"name":"New"}`,
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "not the owner with an invalid body",
			authzErr:       authz.ErrForbidden,
			body:           `{"description":"x"}`,
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "missing post",
			authzErr:       post.ErrNotFound,
			body:           `{"name":"New"}`,
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "invalid body",
			body:           `{"description":"x"}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated := false
			var gotFields post.Fields
			repo := &fakePostsRepo{
				getFn: func(ctx context.Context, id int64) (post.Post, error) { return existing, nil },
				updateFn: func(ctx context.Context, id int64, f post.Fields) (post.Post, error) {
					updated = true
					gotFields = f
					return post.Post{ID: id, UserID: owner.ID, Name: f.Name, ImageURL: f.ImageURL}, nil
				},
			}
			images := &fakeImages{url: "/images/new.png"}

			h := handlers.NewPostsHandler(repo, fakeAuthorizer{err: tt.authzErr}, images)
			r := setupAuthedRouter(http.MethodPut, "/api/pcs/:id", owner, h.Update)

			var w *httptest.ResponseRecorder
			if tt.file != nil {
				body, ct := multipartBody(t, map[string]string{"name": "New"}, tt.file)
				req := httptest.NewRequest(http.MethodPut, "/api/pcs/5", body)
				req.Header.Set("Content-Type", ct)
				w = httptest.NewRecorder()
				r.ServeHTTP(w, req)
			} else {
				w = doJSON(r, http.MethodPut, "/api/pcs/5", tt.body)
			}

			if w.Code != tt.wantStatusCode {
				t.Fatalf("expected status %d, got %d, body=%s", tt.wantStatusCode, w.Code, w.Body.String())
			}

			if tt.wantStatusCode != http.StatusOK {
				if updated {
					t.Fatalf("store must not be updated")
				}
				if images.saved != 0 {
					t.Fatalf("nothing should be uploaded")
				}
				return
			}

			if gotFields.Name != "New" {
				t.Fatalf("unexpected name %q", gotFields.Name)
			}

			switch {
			case tt.wantImage == nil && gotFields.ImageURL != nil:
				t.Fatalf("expected no image, got %q", *gotFields.ImageURL)
			case tt.wantImage != nil && (gotFields.ImageURL == nil || *gotFields.ImageURL != *tt.wantImage):
				t.Fatalf("expected image %q, got %v", *tt.wantImage, gotFields.ImageURL)
			}
		})
	}
}

func TestUpdatePostHandler_StoreFailureRemovesUpload(t *testing.T) {
	repo := &fakePostsRepo{
		updateFn: func(ctx context.Context, id int64, f post.Fields) (post.Post, error) {
			return post.Post{}, errors.New("db down")
		},
	}
	images := &fakeImages{url: "/images/new.png"}

	h := handlers.NewPostsHandler(repo, fakeAuthorizer{}, images)
	r := setupAuthedRouter(http.MethodPut, "/api/pcs/:id", owner, h.Update)

	body, ct := multipartBody(t, map[string]string{"name": "New"}, []byte("png bytes"))
	req := httptest.NewRequest(http.MethodPut, "/api/pcs/5", body)
	req.Header.Set("Content-Type", ct)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if len(images.deleted) != 1 || images.deleted[0] != "/images/new.png" {
		t.Fatalf("expected the new image to be removed, deleted=%v", images.deleted)
	}
}

func TestDeletePostHandler(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		authzErr       error
		wantStatusCode int
		wantDeleted    bool
	}{
		{name: "owner deletes", path: "/api/pcs/5", wantStatusCode: http.StatusOK, wantDeleted: true},
		{name: "missing post is a no-op", path: "/api/pcs/5", authzErr: post.ErrNotFound, wantStatusCode: http.StatusOK},
		{name: "not the owner", path: "/api/pcs/5", authzErr: authz.ErrForbidden, wantStatusCode: http.StatusForbidden},
		{name: "lookup failure", path: "/api/pcs/5", authzErr: errors.New("db down"), wantStatusCode: http.StatusInternalServerError},
		{name: "invalid id", path: "/api/pcs/-1", wantStatusCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted := false
			repo := &fakePostsRepo{
				deleteFn: func(ctx context.Context, id int64) error {
					deleted = true
					return nil
				},
			}

			h := handlers.NewPostsHandler(repo, fakeAuthorizer{err: tt.authzErr}, &fakeImages{})
			r := setupAuthedRouter(http.MethodDelete, "/api/pcs/:id", owner, h.Delete)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, tt.path, nil))

			if w.Code != tt.wantStatusCode {
				t.Fatalf("expected status %d, got %d, body=%s", tt.wantStatusCode, w.Code, w.Body.String())
			}
			if deleted != tt.wantDeleted {
				t.Fatalf("deleted=%v, want %v", deleted, tt.wantDeleted)
			}
		})
	}
}
