package components

// Position is a creature's location in tile coordinates, always inside the terrain.
type Position struct {
	X, Y float64
}

// Motion is a creature's heading and speed. Speed is reassigned every tick,
// not integrated.
type Motion struct {
	Heading float64 `inspect:"angle"`
	Speed   float64 `inspect:"bar,max:1"`
}
