// Package accordion tracks which entry of a collapsible list is open.
package accordion

// Controller holds at most one expanded index. The zero value has nothing open.
type Controller struct {
	index    int
	expanded bool
}

// New returns a controller with nothing expanded.
func New() *Controller {
	return &Controller{}
}

// Restore returns a controller with entry i open, or nothing open when ok is false.
func Restore(i int, ok bool) *Controller {
	return &Controller{index: i, expanded: ok}
}

// Toggle closes entry i if it is the open one, otherwise opens it in place of
// whatever was open before.
func (c *Controller) Toggle(i int) {
	if c.expanded && c.index == i {
		c.index, c.expanded = 0, false
		return
	}
	c.index, c.expanded = i, true
}

// Expanded returns the open index.
func (c *Controller) Expanded() (int, bool) {
	return c.index, c.expanded
}

// IsOpen reports whether entry i is the open one.
func (c *Controller) IsOpen(i int) bool {
	return c.expanded && c.index == i
}

// Next returns the state Toggle(i) would produce without mutating c.
func (c *Controller) Next(i int) (int, bool) {
	next := *c
	next.Toggle(i)
	return next.Expanded()
}
