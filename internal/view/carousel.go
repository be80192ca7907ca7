// Package view holds the state machines behind the storefront and admin
// widgets. Handlers rebuild them from request parameters and render the result.
package view

import "time"

// ControlsAutoHide is how long carousel controls stay visible after a touch ends.
// The product page hands it to static/app.js, which shows the controls on
// hover or touch and hides them again.
const ControlsAutoHide = 3 * time.Second

// Carousel is the image position on a product page. The position travels in
// the page URL, so every request builds a fresh Carousel.
type Carousel struct {
	index int
	count int
}

// NewCarousel starts at index start, wrapped into range.
func NewCarousel(count, start int) Carousel {
	c := Carousel{count: count}
	c.index = c.wrap(start)
	return c
}

func (c Carousel) wrap(i int) int {
	if c.count <= 0 {
		return 0
	}
	return ((i % c.count) + c.count) % c.count
}

// Index is the current image index in [0, count).
func (c Carousel) Index() int { return c.index }

// Count is the number of images.
func (c Carousel) Count() int { return c.count }

// HasControls reports whether navigation makes sense at all.
func (c Carousel) HasControls() bool {
	return c.count > 1
}

// NextIndex is the index of the following image, wrapping to the first.
func (c Carousel) NextIndex() int {
	return c.wrap(c.index + 1)
}

// PrevIndex is the index of the previous image, wrapping to the last.
func (c Carousel) PrevIndex() int {
	return c.wrap(c.index - 1)
}
