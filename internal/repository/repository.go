// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., memory) inside this directory.
package repository

import "errors"

// ErrNotFound is returned by repositories when no row matches the given ID.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when creating a row whose ID is already taken.
var ErrConflict = errors.New("already exists")
