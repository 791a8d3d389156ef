package entities

// Category is a topic grouping of questions shown as one menu entry.
type Category struct {
	ID   int
	Name string
	Rule string // explanatory text, formatted by the presentation layer
}
