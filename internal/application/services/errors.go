package services

import "errors"

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryExists     = errors.New("category name has existed")
	ErrInvalidSubCategory = errors.New("a category cannot be its own sub-category")
	ErrBookNotFound       = errors.New("book not found")
	ErrBookListNotFound   = errors.New("booklist not found")
	ErrForbidden          = errors.New("forbidden")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
