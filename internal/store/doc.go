// Package store defines the persistence ports the core depends on, together
// with the shared error taxonomy all implementations map their failures into.
//
// The interfaces are deliberately narrow (get, put, conditional update) so
// that the core never owns storage mechanics and an in-memory fake can stand
// in for the real database in tests.
package store
