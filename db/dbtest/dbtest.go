// Package dbtest connects the db package to a throwaway, fully migrated
// in-memory sqlite database for tests.
package dbtest

import (
	"testing"

	"blog-server/db"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Setup(t *testing.T) {
	t.Helper()

	dbUrl := "sqlite://file:" + uuid.NewString() + "?mode=memory&cache=shared"
	require.NoError(t, db.Connect(dbUrl))
	require.NoError(t, db.MigrationsUp())

	t.Cleanup(func() {
		db.Close()
	})
}

// CreateUser inserts a user directly, bypassing password hashing.
func CreateUser(t *testing.T, email, name, role string) *db.User {
	t.Helper()

	tx, err := db.Conn.Beginx()
	require.NoError(t, err)

	user, err := db.CreateUser(t.Context(), tx, email, "not-a-hash", name, role)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	return user
}

func CreatePost(t *testing.T, author *db.User, title string) *db.Post {
	t.Helper()

	post := &db.Post{
		AuthorId: author.Id,
		Title:    title,
		Subtitle: title + " subtitle",
		Date:     "June 15, 2024",
		Body:     "<p>" + title + " body</p>",
		ImgUrl:   "https://example.com/" + uuid.NewString() + ".png",
	}
	require.NoError(t, db.CreatePost(t.Context(), post))

	return post
}

func NumComments(t *testing.T, postId int64) int {
	t.Helper()

	var count int
	require.NoError(t, db.Conn.Get(&count, db.Conn.Rebind("SELECT COUNT(*) FROM comments WHERE post_id = ?"), postId))

	return count
}
