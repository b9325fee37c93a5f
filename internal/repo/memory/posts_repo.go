package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/geocoder89/pcblog/internal/domain/post"
)

// PostsRepo keeps posts in a map and resolves owner names through the users repo,
// the same join the postgres repo does.
type PostsRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]post.Post
	users  *UsersRepo
	now    func() time.Time
}

func NewPostsRepo(users *UsersRepo) *PostsRepo {
	return &PostsRepo{
		items: make(map[int64]post.Post),
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *PostsRepo) Create(_ context.Context, ownerID int64, f post.Fields) (post.Post, error) {
	now := r.now()

	r.mu.Lock()
	r.nextID++
	p := post.Post{
		ID:              r.nextID,
		UserID:          ownerID,
		Name:            f.Name,
		Description:     f.Description,
		FullDescription: f.FullDescription,
		ImageURL:        cloneString(f.ImageURL),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.items[p.ID] = p
	r.mu.Unlock()

	return r.withOwner(p), nil
}

func (r *PostsRepo) List(_ context.Context, filter post.ListFilter) ([]post.Post, error) {
	r.mu.RLock()
	out := make([]post.Post, 0, len(r.items))
	for _, p := range r.items {
		if filter.HasCursor() && !before(p, filter.AfterCreatedAt, filter.AfterID) {
			continue
		}
		out = append(out, p)
	}
	r.mu.RUnlock()

	sortNewestFirst(out)

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}

	for i := range out {
		out[i] = r.withOwner(out[i])
	}
	return out, nil
}

func (r *PostsRepo) ListByUser(_ context.Context, ownerID int64) ([]post.Post, error) {
	r.mu.RLock()
	out := make([]post.Post, 0)
	for _, p := range r.items {
		if p.UserID == ownerID {
			out = append(out, p)
		}
	}
	r.mu.RUnlock()

	sortNewestFirst(out)

	for i := range out {
		out[i] = r.withOwner(out[i])
	}
	return out, nil
}

func (r *PostsRepo) GetByID(_ context.Context, id int64) (post.Post, error) {
	r.mu.RLock()
	p, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return post.Post{}, post.ErrNotFound
	}
	return r.withOwner(p), nil
}

func (r *PostsRepo) Update(_ context.Context, id int64, f post.Fields) (post.Post, error) {
	r.mu.Lock()
	p, ok := r.items[id]
	if !ok {
		r.mu.Unlock()
		return post.Post{}, post.ErrNotFound
	}

	p.Name = f.Name
	p.Description = f.Description
	p.FullDescription = f.FullDescription
	p.ImageURL = cloneString(f.ImageURL)
	p.UpdatedAt = r.now()
	r.items[id] = p
	r.mu.Unlock()

	return r.withOwner(p), nil
}

// Delete is idempotent: removing a missing id is not an error.
func (r *PostsRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	delete(r.items, id)
	r.mu.Unlock()

	return nil
}

func (r *PostsRepo) OwnerOf(_ context.Context, id int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return 0, post.ErrNotFound
	}
	return p.UserID, nil
}

func (r *PostsRepo) withOwner(p post.Post) post.Post {
	if r.users != nil {
		p.OwnerName = r.users.nameOf(p.UserID)
	}
	return p
}

func sortNewestFirst(ps []post.Post) {
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.After(ps[j].CreatedAt)
		}
		return ps[i].ID > ps[j].ID
	})
}

// before reports whether p sorts strictly after the cursor in newest-first order.
func before(p post.Post, createdAt time.Time, id int64) bool {
	if p.CreatedAt.Equal(createdAt) {
		return p.ID < id
	}
	return p.CreatedAt.Before(createdAt)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
