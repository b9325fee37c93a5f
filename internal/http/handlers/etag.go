package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/geocoder89/pcblog/internal/domain/post"
	"github.com/gin-gonic/gin"
)

// postETag changes whenever the post is written, updated_at is bumped on every update.
func postETag(p post.Post) string {
	return `W/"` + strconv.FormatInt(p.ID, 10) + "-" + strconv.FormatInt(p.UpdatedAt.UnixNano(), 36) + `"`
}

// respondPost answers 304 when the client already holds the current version.
func respondPost(ctx *gin.Context, p post.Post) {
	etag := postETag(p)
	ctx.Header("ETag", etag)

	if etagMatches(ctx.GetHeader("If-None-Match"), etag) {
		ctx.Status(http.StatusNotModified)
		return
	}

	ctx.JSON(http.StatusOK, p)
}

func etagMatches(header, etag string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}

	// If-None-Match uses weak comparison
	want := strings.TrimPrefix(etag, "W/")
	for _, part := range strings.Split(header, ",") {
		if strings.TrimPrefix(strings.TrimSpace(part), "W/") == want {
			return true
		}
	}

	return false
}
