package service

import "dumarte_backend/internal/gallery/repository"

// Carousel tracks the image shown for the selected project. Navigation never
// wraps around.
type Carousel struct {
	project *repository.Project
	current int
}

// Open selects project and shows its first image.
func (c *Carousel) Open(project repository.Project) {
	c.project = &project
	c.current = 0
}

// Close clears the selection.
func (c *Carousel) Close() {
	c.project = nil
	c.current = 0
}

// Project returns the selected project, if any.
func (c *Carousel) Project() (repository.Project, bool) {
	if c.project == nil {
		return repository.Project{}, false
	}
	return *c.project, true
}

// Index returns the current image position.
func (c *Carousel) Index() int { return c.current }

func (c *Carousel) count() int {
	if c.project == nil {
		return 0
	}
	return len(c.project.Images)
}

// Prev moves one image back unless already at the first.
func (c *Carousel) Prev() {
	if c.current > 0 {
		c.current--
	}
}

// Next moves one image forward unless already at the last.
func (c *Carousel) Next() {
	if c.current < c.count()-1 {
		c.current++
	}
}

// GoTo jumps to image i. Out-of-range positions are ignored and reported false.
func (c *Carousel) GoTo(i int) bool {
	if i < 0 || i >= c.count() {
		return false
	}
	c.current = i
	return true
}

// IsFirst reports whether the first image is shown.
func (c *Carousel) IsFirst() bool { return c.current == 0 }

// IsLast reports whether the last image is shown. A project without images is
// both first and last.
func (c *Carousel) IsLast() bool {
	return c.current == max(0, c.count()-1)
}

// HasMultiple reports whether there is anything to navigate.
func (c *Carousel) HasMultiple() bool { return c.count() > 1 }

// CurrentURL returns the reference of the current image, or "".
func (c *Carousel) CurrentURL() string {
	if c.current < c.count() {
		return c.project.Images[c.current]
	}
	return ""
}
