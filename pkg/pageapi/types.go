package pageapi

// Article is a stored content entry: a frontmatter block plus a free-form
// body, addressed by (folder, filename).
type Article struct {
	Folder      string
	Filename    string
	Title       string
	Frontmatter string // raw key/value lines, without delimiters
	Body        string
}

// Image is a persisted image asset. MimeType is always the type sniffed from
// the decoded bytes; DeclaredType is the untrusted client claim from the data
// URI, kept for logging only.
type Image struct {
	Folder       string
	Filename     string
	MimeType     string
	DeclaredType string
	Size         int64
	URL          string
}

// Default filenames applied when a request omits one.
const (
	DefaultCreateFilename = "item.md"
	DefaultUpdateFilename = "post.md"
)

// MaxImageBytes is the default decoded-size limit for uploads.
const MaxImageBytes = 5 * 1024 * 1024
