package components

// Body holds the creature's mass proxy and its heritable colour tag.
type Body struct {
	Size   float64 `inspect:"bar,max:2"`
	Colour float64 `inspect:"bar,max:1"`
}
