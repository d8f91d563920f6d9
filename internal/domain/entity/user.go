package entity

import "time"

// User representa un usuario registrado. Es dueño de sus espacios.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Verified     bool   // pasa a true una sola vez, al verificar el OTP
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
