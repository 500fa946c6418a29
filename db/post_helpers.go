package db

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const selectPosts = `SELECT p.id, p.author_id, p.title, p.subtitle, p.date, p.body, p.img_url, u.name AS author_name
FROM blog_posts p
JOIN users u ON u.id = p.author_id`

// ListPosts returns every post in storage order.
func ListPosts(ctx context.Context) ([]*Post, error) {
	posts := []*Post{}
	err := Conn.SelectContext(ctx, &posts, selectPosts+" ORDER BY p.id")

	if err != nil {
		return nil, errors.Wrap(err, "error listing posts")
	}

	return posts, nil
}

func GetPost(ctx context.Context, postId int64) (*Post, error) {
	var post Post
	err := Conn.GetContext(ctx, &post, Conn.Rebind(selectPosts+" WHERE p.id = ?"), postId)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, errors.Wrap(err, "error getting post")
	}

	return &post, nil
}

// CreatePost inserts post and sets its Id. Title uniqueness is left to the database.
func CreatePost(ctx context.Context, post *Post) error {
	query := Conn.Rebind(`INSERT INTO blog_posts (author_id, title, subtitle, date, body, img_url)
	VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)

	err := Conn.QueryRowxContext(ctx, query, post.AuthorId, post.Title, post.Subtitle, post.Date, post.Body, post.ImgUrl).Scan(&post.Id)

	if err != nil {
		if IsNonUniqueErr(err) {
			return errors.Wrapf(ErrDuplicateTitle, "%q", post.Title)
		}
		return errors.Wrap(err, "error creating post")
	}

	return nil
}

// UpdatePost overwrites the editable fields. Author and date never change.
func UpdatePost(ctx context.Context, post *Post) error {
	query := Conn.Rebind(`UPDATE blog_posts SET title = ?, subtitle = ?, body = ?, img_url = ? WHERE id = ?`)

	res, err := Conn.ExecContext(ctx, query, post.Title, post.Subtitle, post.Body, post.ImgUrl, post.Id)

	if err != nil {
		if IsNonUniqueErr(err) {
			return errors.Wrapf(ErrDuplicateTitle, "%q", post.Title)
		}
		return errors.Wrap(err, "error updating post")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "error updating post")
	}
	if n == 0 {
		return errors.Wrapf(ErrPostNotFound, "id %d", post.Id)
	}

	return nil
}

// DeletePost removes the post and all of its comments in one transaction.
func DeletePost(ctx context.Context, postId int64) error {
	return WithTx(ctx, "delete post", func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM comments WHERE post_id = ?"), postId)
		if err != nil {
			return errors.Wrap(err, "error deleting post comments")
		}

		res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM blog_posts WHERE id = ?"), postId)
		if err != nil {
			return errors.Wrap(err, "error deleting post")
		}

		n, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "error deleting post")
		}
		if n == 0 {
			return errors.Wrapf(ErrPostNotFound, "id %d", postId)
		}

		return nil
	})
}
