package transport

// ProjectResponse is a portfolio project with display-ready image URLs.
type ProjectResponse struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Images      []string `json:"images"`
}

// ProjectListResponse is the filtered gallery.
type ProjectListResponse struct {
	Category string            `json:"category"`
	Items    []ProjectResponse `json:"items"`
	Total    int               `json:"total"`
}

// CategoryResponse is a category with its project count.
type CategoryResponse struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// ImageResponse is one carousel position of a project.
type ImageResponse struct {
	ProjectID   int    `json:"projectId"`
	Index       int    `json:"index"`
	Total       int    `json:"total"`
	URL         string `json:"url"`
	IsFirst     bool   `json:"isFirst"`
	IsLast      bool   `json:"isLast"`
	HasMultiple bool   `json:"hasMultiple"`
	Prev        *int   `json:"prev,omitempty"`
	Next        *int   `json:"next,omitempty"`
}

// RefreshResponse reports the reloaded gallery.
type RefreshResponse struct {
	Projects   int `json:"projects"`
	Categories int `json:"categories"`
}
