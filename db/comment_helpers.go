package db

import (
	"context"

	"github.com/pkg/errors"
)

func ListComments(ctx context.Context, postId int64) ([]*Comment, error) {
	comments := []*Comment{}

	query := Conn.Rebind(`SELECT c.id, c.text, c.author_id, c.post_id, u.name AS author_name, u.email AS author_email
	FROM comments c
	JOIN users u ON u.id = c.author_id
	WHERE c.post_id = ?
	ORDER BY c.id`)

	err := Conn.SelectContext(ctx, &comments, query, postId)

	if err != nil {
		return nil, errors.Wrap(err, "error listing comments")
	}

	return comments, nil
}

func CreateComment(ctx context.Context, comment *Comment) error {
	query := Conn.Rebind("INSERT INTO comments (text, author_id, post_id) VALUES (?, ?, ?) RETURNING id")

	err := Conn.QueryRowxContext(ctx, query, comment.Text, comment.AuthorId, comment.PostId).Scan(&comment.Id)

	if err != nil {
		return errors.Wrap(err, "error creating comment")
	}

	return nil
}
