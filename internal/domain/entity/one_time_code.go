package entity

import "time"

// OneTimeCode código de verificación de email. Puede haber varios por email;
// solo el de ExpiresAt más reciente se considera al verificar.
type OneTimeCode struct {
	ID        string
	Email     string
	Code      string
	ExpiresAt time.Time
}

// IsExpired indica si el código ya no es válido en el instante now.
func (c *OneTimeCode) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
