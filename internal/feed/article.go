package feed

import "time"

const (
	MaxTitleLen = 200
	// Descriptions carrying inline image markup get the larger cap.
	MaxDescLen      = 500
	MaxRichDescLen  = 1000
	DefaultMIMEType = "image/jpeg"
)

// Image is an optional featured image attached to an article.
type Image struct {
	Src string
	Alt string
}

// Article is one feed entry. Link and GUID are always non-empty and
// PubDate is always set; callers rely on both.
type Article struct {
	Title       string
	Link        string
	Description string
	PubDate     time.Time
	GUID        string
	Image       *Image
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n])
}
