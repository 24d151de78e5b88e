// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Pokemon represents one record in a trainer's collection.
//
// The `json:"..."` tags control the wire shape. Types and Sprites are plain
// Go values here; the sqlite repository is responsible for encoding them to
// JSON text columns and decoding them back on read.
//
// Types is an ordered list of type tags ("Electric", "Flying", ...).
// Sprites maps a label such as "front_default" to an image URL — arbitrary
// labels are permitted, the server never interprets them.
//
// TrainerID is the owning user's ID. It is set on creation and never changes:
// there is no sharing or transfer operation, and every query in the
// repository is scoped by it. The JSON field name is trainer_id (snake_case)
// because that's the shape the clients were built against.
type Pokemon struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Types     []string          `json:"types"`
	Sprites   map[string]string `json:"sprites"`
	TrainerID string            `json:"trainer_id"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
