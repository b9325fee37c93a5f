package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/pcblog/internal/auth"
	"github.com/geocoder89/pcblog/internal/authz"
	"github.com/geocoder89/pcblog/internal/domain/post"
	"github.com/geocoder89/pcblog/internal/http/middlewares"
	"github.com/geocoder89/pcblog/internal/storage"
	"github.com/geocoder89/pcblog/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	maxPageLimit     = 100
	nextCursorHeader = "X-Next-Cursor"
)

type PostStore interface {
	List(ctx context.Context, filter post.ListFilter) ([]post.Post, error)
	ListByUser(ctx context.Context, ownerID int64) ([]post.Post, error)
	GetByID(ctx context.Context, id int64) (post.Post, error)
	Create(ctx context.Context, ownerID int64, f post.Fields) (post.Post, error)
	Update(ctx context.Context, id int64, f post.Fields) (post.Post, error)
	Delete(ctx context.Context, id int64) error
}

type PostAuthorizer interface {
	Authorize(ctx context.Context, postID int64, id auth.Identity) error
}

type PostsHandler struct {
	posts  PostStore
	authz  PostAuthorizer
	images storage.ImageStore
}

func NewPostsHandler(posts PostStore, authorizer PostAuthorizer, images storage.ImageStore) *PostsHandler {
	return &PostsHandler{
		posts:  posts,
		authz:  authorizer,
		images: images,
	}
}

func (h *PostsHandler) List(ctx *gin.Context) {
	filter, ok := parseListFilter(ctx)
	if !ok {
		return
	}

	pageLimit := filter.Limit

	// fetch one extra row to know whether another page exists
	if pageLimit > 0 {
		filter.Limit = pageLimit + 1
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	items, err := h.posts.List(cctx, filter)

	if err != nil {
		RespondInternal(ctx, "Could not list posts", err)
		return
	}

	if pageLimit > 0 && len(items) > pageLimit {
		items = items[:pageLimit]
		last := items[len(items)-1]

		next, err := utils.EncodePostCursor(last.CreatedAt, last.ID)
		if err != nil {
			RespondInternal(ctx, "Could not list posts", err)
			return
		}
		ctx.Header(nextCursorHeader, next)
	}

	if items == nil {
		items = []post.Post{}
	}

	ctx.JSON(http.StatusOK, items)
}

func (h *PostsHandler) ListMine(ctx *gin.Context) {
	id, ok := middlewares.IdentityFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	items, err := h.posts.ListByUser(cctx, id.ID)

	if err != nil {
		RespondInternal(ctx, "Could not list posts", err)
		return
	}

	if items == nil {
		items = []post.Post{}
	}

	ctx.JSON(http.StatusOK, items)
}

func (h *PostsHandler) Get(ctx *gin.Context) {
	id, ok := parsePostID(ctx)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	p, err := h.posts.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			RespondNotFound(ctx, "PC not found")
			return
		}
		RespondInternal(ctx, "Could not fetch post", err)
		return
	}

	respondPost(ctx, p)
}

func (h *PostsHandler) Create(ctx *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	var req post.CreatePostRequest

	if !Bind(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 10*time.Second)
	defer cancel()

	imageURL, ok := h.saveUpload(cctx, ctx)
	if !ok {
		return
	}

	p, err := h.posts.Create(cctx, identity.ID, req.Fields(imageURL))

	if err != nil {
		h.discardUpload(cctx, imageURL)
		RespondInternal(ctx, "Could not create post", err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "PC created successfully",
		"pc":      p,
	})
}

func (h *PostsHandler) Update(ctx *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	id, ok := parsePostID(ctx)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 10*time.Second)
	defer cancel()

	// ownership is checked before the body is read or anything is uploaded
	if !h.authorize(cctx, ctx, id, identity) {
		return
	}

	var req post.UpdatePostRequest

	if !Bind(ctx, &req) {
		return
	}

	uploaded, ok := h.saveUpload(cctx, ctx)
	if !ok {
		return
	}

	imageURL := uploaded

	switch {
	case uploaded != nil:
		// a freshly uploaded file wins
	case req.ImageURL != nil:
		if *req.ImageURL != "" {
			imageURL = req.ImageURL
		}
	default:
		current, err := h.posts.GetByID(cctx, id)
		if err != nil {
			if errors.Is(err, post.ErrNotFound) {
				RespondNotFound(ctx, "PC not found")
				return
			}
			RespondInternal(ctx, "Could not update post", err)
			return
		}
		imageURL = current.ImageURL
	}

	p, err := h.posts.Update(cctx, id, req.Fields(imageURL))

	if err != nil {
		h.discardUpload(cctx, uploaded)

		if errors.Is(err, post.ErrNotFound) {
			RespondNotFound(ctx, "PC not found")
			return
		}
		RespondInternal(ctx, "Could not update post", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "PC updated successfully",
		"pc":      p,
	})
}

func (h *PostsHandler) Delete(ctx *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	id, ok := parsePostID(ctx)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	err := h.authz.Authorize(cctx, id, identity)

	switch {
	case errors.Is(err, post.ErrNotFound):
		// deleting something that is already gone is not an error
		ctx.JSON(http.StatusOK, gin.H{"message": "PC deleted successfully"})
		return
	case errors.Is(err, authz.ErrForbidden):
		RespondForbidden(ctx, "You can only delete your own PCs")
		return
	case err != nil:
		RespondInternal(ctx, "Could not delete post", err)
		return
	}

	if err := h.posts.Delete(cctx, id); err != nil {
		RespondInternal(ctx, "Could not delete post", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "PC deleted successfully"})
}

func (h *PostsHandler) authorize(cctx context.Context, ctx *gin.Context, id int64, identity auth.Identity) bool {
	err := h.authz.Authorize(cctx, id, identity)

	switch {
	case err == nil:
		return true
	case errors.Is(err, post.ErrNotFound):
		RespondNotFound(ctx, "PC not found")
	case errors.Is(err, authz.ErrForbidden):
		RespondForbidden(ctx, "You can only modify your own PCs")
	default:
		RespondInternal(ctx, "Could not update post", err)
	}

	return false
}

// saveUpload stores the optional "image" file. A nil URL with ok=true means no file was sent.
func (h *PostsHandler) saveUpload(cctx context.Context, ctx *gin.Context) (*string, bool) {
	fh, err := ctx.FormFile("image")

	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, true
		}
		RespondBadRequest(ctx, "Could not read uploaded image", gin.H{"image": err.Error()})
		return nil, false
	}

	if h.images == nil {
		RespondBadRequest(ctx, "Image uploads are disabled", nil)
		return nil, false
	}

	f, err := fh.Open()

	if err != nil {
		RespondInternal(ctx, "Could not read uploaded image", err)
		return nil, false
	}

	defer f.Close()

	url, err := h.images.Save(cctx, f)

	if err != nil {
		if errors.Is(err, storage.ErrNotImage) {
			RespondError(ctx, http.StatusBadRequest, "invalid_image", "Only image files are allowed", nil)
			return nil, false
		}
		RespondInternal(ctx, "Could not store uploaded image", err)
		return nil, false
	}

	return &url, true
}

// discardUpload removes an image whose post was never written.
func (h *PostsHandler) discardUpload(cctx context.Context, url *string) {
	if url == nil {
		return
	}

	// the request context may already be done when the store call timed out
	dctx, cancel := context.WithTimeout(context.WithoutCancel(cctx), 5*time.Second)
	defer cancel()

	if err := h.images.Delete(dctx, *url); err != nil {
		slog.WarnContext(cctx, "orphaned upload", "url", *url, "err", err)
	}
}

func parsePostID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil || id <= 0 {
		RespondError(ctx, http.StatusBadRequest, "invalid_id", "PC id must be a positive integer", nil)
		return 0, false
	}

	return id, true
}

func parseListFilter(ctx *gin.Context) (post.ListFilter, bool) {
	var filter post.ListFilter

	if raw := ctx.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)

		if err != nil || limit < 1 || limit > maxPageLimit {
			RespondBadRequest(ctx, "Invalid query parameters", gin.H{
				"limit": "must be an integer between 1 and " + strconv.Itoa(maxPageLimit),
			})
			return filter, false
		}
		filter.Limit = limit
	}

	if raw := ctx.Query("cursor"); raw != "" {
		c, err := utils.DecodePostCursor(raw)

		if err != nil {
			RespondBadRequest(ctx, "Invalid query parameters", gin.H{"cursor": "is not a valid cursor"})
			return filter, false
		}
		filter.AfterCreatedAt = c.CreatedAt
		filter.AfterID = c.ID
	}

	return filter, true
}
