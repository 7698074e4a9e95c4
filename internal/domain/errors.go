// Package domain defines the sentinel errors shared across service and HTTP
// layers. Callers match them with errors.Is; the HTTP boundary maps each one
// to a status code exactly once.
package domain

import "errors"

var (
	// Registration conflicts. The matched field decides the message only,
	// both map to the same 400 outcome.
	ErrUsernameTaken = errors.New("El usuario ya existe")
	ErrEmailTaken    = errors.New("El email ya está registrado")

	// Login failure. Deliberately identical whether the username is unknown
	// or the password is wrong.
	ErrInvalidCredentials = errors.New("Usuario o contraseña incorrectos")

	// Missing, malformed, expired or otherwise unusable bearer token.
	ErrUnauthenticated = errors.New("No se pudo validar las credenciales")

	// Resource lookups.
	ErrNotFound = errors.New("Vehículo no encontrado")

	// Field constraint violations. Wrapped with the offending field, e.g.
	// fmt.Errorf("%w: el año debe estar entre 1901 y 2099", ErrValidation).
	ErrValidation = errors.New("datos inválidos")
)
