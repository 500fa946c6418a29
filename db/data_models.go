package db

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// PostDateFormat is how a post's creation date is stored and displayed.
const PostDateFormat = "January 02, 2006"

type User struct {
	Id       int64  `db:"id"`
	Email    string `db:"email"`
	Password string `db:"password"`
	Name     string `db:"name"`
	Role     string `db:"role"`
}

func (user *User) IsAdmin() bool {
	return user != nil && user.Role == RoleAdmin
}

type Post struct {
	Id       int64  `db:"id"`
	AuthorId int64  `db:"author_id"`
	Title    string `db:"title"`
	Subtitle string `db:"subtitle"`
	Date     string `db:"date"`
	Body     string `db:"body"`
	ImgUrl   string `db:"img_url"`

	// joined from users, read-only
	AuthorName string `db:"author_name"`
}

type Comment struct {
	Id       int64  `db:"id"`
	Text     string `db:"text"`
	AuthorId int64  `db:"author_id"`
	PostId   int64  `db:"post_id"`

	// joined from users, read-only
	AuthorName  string `db:"author_name"`
	AuthorEmail string `db:"author_email"`
}
