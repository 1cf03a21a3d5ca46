package pageapi

// Request DTOs. These double as the JSON bodies of the HTTP endpoints.

// CreateArticleRequest contains parameters for creating an article. Folder
// and Filename fall back to configured defaults when empty; Title falls back
// to a title extracted from a frontmatter block embedded in Content.
type CreateArticleRequest struct {
	Folder   string `json:"folder,omitempty"`
	Filename string `json:"filename,omitempty"`
	Content  string `json:"content"`
	Title    string `json:"title,omitempty"`
}

// UpdateArticleRequest contains parameters for updating an article. Content
// and Title are pointers so that "field absent" and "field empty" stay
// distinguishable; at least one must be supplied.
type UpdateArticleRequest struct {
	Folder   string  `json:"folder"`
	Filename string  `json:"filename,omitempty"`
	Content  *string `json:"content,omitempty"`
	Title    *string `json:"title,omitempty"`
}

// UploadImageRequest contains parameters for uploading an image. Image is a
// base64 data URI (data:image/<subtype>;base64,<payload>); the declared
// subtype is never trusted.
type UploadImageRequest struct {
	Folder   string `json:"folder,omitempty"`
	Image    string `json:"image"`
	Filename string `json:"filename"`
}
