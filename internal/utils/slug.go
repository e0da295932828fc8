package utils

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
)

const maxSlugAttempts = 50

// UniqueSlug slugifies text and appends -2, -3, ... until taken reports the
// candidate free.
func UniqueSlug(ctx context.Context, text string, taken func(ctx context.Context, candidate string) (bool, error)) (string, error) {
	base := slug.Make(text)
	if base == "" {
		base = "item"
	}
	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		used, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxSlugAttempts)
}
