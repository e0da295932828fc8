package catalog

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const CollectionBook = "book"

type Book struct {
	ID          string    `json:"_id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	ISBN        string    `json:"isbn" bson:"isbn"`
	Authors     []string  `json:"authors" bson:"authors"`
	Description string    `json:"description" bson:"description"`
	Category    string    `json:"category" bson:"category"`
	Price       float64   `json:"price" bson:"price"`
	PublishDate time.Time `json:"publishDate" bson:"publishDate"`
	Slug        string    `json:"slug" bson:"slug"`
	CreateDate  time.Time `json:"createDate" bson:"createDate"`
	UpdateDate  time.Time `json:"updateDate" bson:"updateDate"`
}

// BookRequest is the body of both create and update; update replaces every field.
type BookRequest struct {
	Title       string    `json:"title"`
	ISBN        string    `json:"isbn"`
	Authors     []string  `json:"authors"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	PublishDate time.Time `json:"publishDate"`
}

func (r BookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.ISBN, validation.Required, is.ISBN),
		validation.Field(&r.Authors, validation.Required, validation.Each(validation.Required)),
		validation.Field(&r.Category, validation.Required),
		validation.Field(&r.Price, validation.Min(0.0)),
	)
}
