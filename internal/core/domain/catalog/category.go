package catalog

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const CollectionCategory = "category"

type SubCategory struct {
	SubID   string `json:"subid" bson:"subid"`
	SubName string `json:"subname" bson:"subname"`
}

type Category struct {
	ID            string        `json:"_id" bson:"_id"`
	Name          string        `json:"name" bson:"name"`
	Slug          string        `json:"slug" bson:"slug"`
	SubCategories []SubCategory `json:"subCategories" bson:"subCategories"`
	CreateDate    time.Time     `json:"createDate" bson:"createDate"`
	UpdateDate    time.Time     `json:"updateDate" bson:"updateDate"`
}

// HasSub reports whether id is already listed as a sub-category.
func (c *Category) HasSub(id string) bool {
	for _, s := range c.SubCategories {
		if s.SubID == id {
			return true
		}
	}
	return false
}

// CategoryWithBooks is a parent category together with its books, as served
// by the category list endpoint.
type CategoryWithBooks struct {
	ID            string        `json:"_id"`
	Slug          string        `json:"slug"`
	Name          string        `json:"name"`
	SubCategories []SubCategory `json:"subCategories"`
	Books         []Book        `json:"books"`
}

// CategoryDetail is one category and one page of its books.
type CategoryDetail struct {
	ID            string        `json:"id"`
	Slug          string        `json:"slug"`
	Name          string        `json:"name"`
	SubCategories []SubCategory `json:"subCategories"`
	Books         []Book        `json:"books"`
}

// BookPage selects and orders the books shown with a category. A zero
// PublishSort or PriceSort leaves that field unsorted.
type BookPage struct {
	Page        int64
	PageSize    int64
	PublishSort int
	PriceSort   int
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

func (r CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 30)),
	)
}

// AddSubCategoryRequest names the sub-category by slug or by id. Slug wins
// when both are set.
type AddSubCategoryRequest struct {
	Slug string `json:"slug"`
	ID   string `json:"id"`
}

func (r AddSubCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Slug, validation.When(strings.TrimSpace(r.ID) == "", validation.Required.Error("slug or id is required"))),
	)
}

// ParentsOnly drops every category that appears as another category's
// sub-category, keeping the input order.
func ParentsOnly(categories []Category) []Category {
	subNames := make(map[string]struct{})
	for _, c := range categories {
		for _, s := range c.SubCategories {
			subNames[s.SubName] = struct{}{}
		}
	}
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if _, isSub := subNames[c.Name]; isSub {
			continue
		}
		out = append(out, c)
	}
	return out
}
