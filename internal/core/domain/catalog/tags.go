package catalog

// Cache tags. A write invalidates every tag whose cached reads it can change.
const TagCategories = "categories"

const TagBookLists = "booklists"

func CategoryTag(id string) string { return "category:" + id }

func CategorySlugTag(slug string) string { return "category-slug:" + slug }

func BookTag(id string) string { return "book:" + id }

func BookListTag(id string) string { return "booklist:" + id }
