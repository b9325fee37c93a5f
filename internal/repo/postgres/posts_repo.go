package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/pcblog/internal/domain/post"
	"github.com/geocoder89/pcblog/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewPostsRepo(pool *pgxpool.Pool, prom *observability.Prom) *PostsRepo {
	return &PostsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *PostsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

const selectPosts = `SELECT p.id,
		p.user_id,
		p.name,
		p.description,
		p.full_description,
		p.image_url,
		u.name AS owner_name,
		p.created_at,
		p.updated_at
	FROM posts p
	JOIN users u ON u.id = p.user_id`

// newest first, id breaks ties so pagination is stable
const orderPosts = ` ORDER BY p.created_at DESC, p.id DESC`

func scanPost(row pgx.Row) (post.Post, error) {
	var p post.Post
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Description,
		&p.FullDescription,
		&p.ImageURL,
		&p.OwnerName,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (r *PostsRepo) List(ctx context.Context, filter post.ListFilter) ([]post.Post, error) {
	query := selectPosts
	var args []interface{}

	if filter.HasCursor() {
		query += ` WHERE (p.created_at, p.id) < ($1, $2)`
		args = append(args, filter.AfterCreatedAt, filter.AfterID)
	}

	query += orderPosts

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, filter.Limit)
	}

	return r.query(ctx, "posts.list", query, args...)
}

func (r *PostsRepo) ListByUser(ctx context.Context, ownerID int64) ([]post.Post, error) {
	return r.query(ctx, "posts.list_by_user", selectPosts+` WHERE p.user_id = $1`+orderPosts, ownerID)
}

func (r *PostsRepo) query(ctx context.Context, op, query string, args ...interface{}) ([]post.Post, error) {
	output := make([]post.Post, 0)

	err := r.observe(op, func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanPost(rows)
			if err != nil {
				return err
			}
			output = append(output, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *PostsRepo) GetByID(ctx context.Context, id int64) (post.Post, error) {
	var p post.Post

	err := r.observe("posts.get_by_id", func() error {
		var err error
		p, err = scanPost(r.pool.QueryRow(ctx, selectPosts+` WHERE p.id = $1`, id))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return post.Post{}, post.ErrNotFound
		}
		return post.Post{}, err
	}

	return p, nil
}

func (r *PostsRepo) Create(ctx context.Context, ownerID int64, f post.Fields) (post.Post, error) {
	var p post.Post

	err := r.observe("posts.create", func() error {
		var err error
		p, err = scanPost(r.pool.QueryRow(ctx,
			`WITH p AS (
				INSERT INTO posts (user_id, name, description, full_description, image_url)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING *
			)
			SELECT p.id, p.user_id, p.name, p.description, p.full_description, p.image_url,
				u.name, p.created_at, p.updated_at
			FROM p JOIN users u ON u.id = p.user_id`,
			ownerID, f.Name, f.Description, f.FullDescription, f.ImageURL,
		))
		return err
	})

	if err != nil {
		return post.Post{}, err
	}

	return p, nil
}

// Update overwrites the mutable columns. id and user_id are never touched.
func (r *PostsRepo) Update(ctx context.Context, id int64, f post.Fields) (post.Post, error) {
	var p post.Post

	err := r.observe("posts.update", func() error {
		var err error
		p, err = scanPost(r.pool.QueryRow(ctx,
			`WITH p AS (
				UPDATE posts
				SET name = $2,
					description = $3,
					full_description = $4,
					image_url = $5,
					updated_at = NOW()
				WHERE id = $1
				RETURNING *
			)
			SELECT p.id, p.user_id, p.name, p.description, p.full_description, p.image_url,
				u.name, p.created_at, p.updated_at
			FROM p JOIN users u ON u.id = p.user_id`,
			id, f.Name, f.Description, f.FullDescription, f.ImageURL,
		))
		return err
	})

	if err != nil {
		// if there are no rows matching the id
		if errors.Is(err, pgx.ErrNoRows) {
			return post.Post{}, post.ErrNotFound
		}
		return post.Post{}, err
	}

	return p, nil
}

// Delete removes the row permanently. Zero affected rows is not an error.
func (r *PostsRepo) Delete(ctx context.Context, id int64) error {
	return r.observe("posts.delete", func() error {
		_, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
		return err
	})
}

func (r *PostsRepo) OwnerOf(ctx context.Context, id int64) (int64, error) {
	var ownerID int64

	err := r.observe("posts.owner_of", func() error {
		return r.pool.QueryRow(ctx, `SELECT user_id FROM posts WHERE id = $1`, id).Scan(&ownerID)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, post.ErrNotFound
		}
		return 0, err
	}

	return ownerID, nil
}
