package view

// Keys understood by the lightbox and the order dialog.
const (
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyEscape     = "Escape"
)

// Lightbox is the full-screen image preview.
type Lightbox struct {
	index int
	count int
	open  bool
}

// OpenLightbox opens the preview at index, wrapped into range.
func OpenLightbox(count, index int) *Lightbox {
	l := &Lightbox{count: count, open: true}
	l.index = l.wrap(index)
	return l
}

func (l *Lightbox) wrap(i int) int {
	if l.count <= 0 {
		return 0
	}
	return ((i % l.count) + l.count) % l.count
}

func (l *Lightbox) Index() int   { return l.index }
func (l *Lightbox) IsOpen() bool { return l.open }

// Next shows the following image, wrapping around.
func (l *Lightbox) Next() {
	if l.open {
		l.index = l.wrap(l.index + 1)
	}
}

// Prev shows the previous image, wrapping around.
func (l *Lightbox) Prev() {
	if l.open {
		l.index = l.wrap(l.index - 1)
	}
}

// Close dismisses the preview.
func (l *Lightbox) Close() {
	l.open = false
}

// ClickBackdrop dismisses the preview.
func (l *Lightbox) ClickBackdrop() {
	l.Close()
}

// HandleKey applies a keyboard key and reports whether it was recognised.
func (l *Lightbox) HandleKey(key string) bool {
	switch key {
	case KeyArrowLeft:
		l.Prev()
	case KeyArrowRight:
		l.Next()
	case KeyEscape:
		l.Close()
	default:
		return false
	}
	return true
}
