package entity

// Category is one of the fixed classification buckets. Classification
// always resolves to exactly one of these.
type Category string

const (
	CategoryImage      Category = "image"
	CategoryVideo      Category = "video"
	CategoryAudio      Category = "audio"
	CategoryDocument   Category = "document"
	CategoryArchive    Category = "archive"
	CategoryExecutable Category = "executable"
	CategoryUnknown    Category = "unknown"
)

// Categories returns all buckets in a stable display order.
func Categories() []Category {
	return []Category{
		CategoryImage,
		CategoryVideo,
		CategoryAudio,
		CategoryDocument,
		CategoryArchive,
		CategoryExecutable,
		CategoryUnknown,
	}
}

func (c Category) String() string {
	return string(c)
}
