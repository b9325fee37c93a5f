package utils

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

// PostCursor marks the last post of a page in (created_at DESC, id DESC) order.
type PostCursor struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        int64     `json:"id"`
}

func EncodePostCursor(createdAt time.Time, id int64) (string, error) {
	b, err := json.Marshal(PostCursor{CreatedAt: createdAt, ID: id})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func DecodePostCursor(cursor string) (PostCursor, error) {
	if cursor == "" {
		return PostCursor{}, errors.New("empty cursor")
	}

	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return PostCursor{}, err
	}

	var c PostCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return PostCursor{}, err
	}
	if c.ID <= 0 || c.CreatedAt.IsZero() {
		return PostCursor{}, errors.New("invalid cursor payload")
	}
	return c, nil
}
