package main

//go:generate go run github.com/plus3/keystone/cmd/ecs-kindgen

//ecs:component
type Position struct {
	X, Y float64
}

//ecs:component
type Velocity struct {
	DX, DY float64
}

// Lifetime counts down frames until the entity is registered for destruction.
//
//ecs:component
type Lifetime struct {
	Frames int
}

//ecs:component
type Health struct {
	Current int
	Max     int
}
