package catalog

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const CollectionBookList = "booklist"

type BookListEntry struct {
	BookID        string `json:"bookid" bson:"bookid"`
	ReviewContent string `json:"reviewContent" bson:"reviewContent"`
}

func (e BookListEntry) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.BookID, validation.Required),
	)
}

type Like struct {
	User string `json:"user" bson:"user"`
}

type BookList struct {
	ID          string          `json:"_id" bson:"_id"`
	Title       string          `json:"title" bson:"title"`
	User        string          `json:"user" bson:"user"`
	Username    string          `json:"username" bson:"username"`
	Description string          `json:"description" bson:"description"`
	Books       []BookListEntry `json:"books" bson:"books"`
	Likes       []Like          `json:"likes" bson:"likes"`
	Slug        string          `json:"slug" bson:"slug"`
	CreateDate  time.Time       `json:"createDate" bson:"createDate"`
	UpdateDate  time.Time       `json:"updateDate" bson:"updateDate"`
}

// ToggleLike adds userID to the likes or removes it if already present, and
// reports whether the list is liked afterwards.
func (b *BookList) ToggleLike(userID string) bool {
	for i, l := range b.Likes {
		if l.User == userID {
			b.Likes = append(b.Likes[:i], b.Likes[i+1:]...)
			return false
		}
	}
	b.Likes = append([]Like{{User: userID}}, b.Likes...)
	return true
}

type CreateBookListRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Books       []BookListEntry `json:"books"`
}

func (r CreateBookListRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.Books),
	)
}
