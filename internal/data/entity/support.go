package entity

import "github.com/google/uuid"

type SupportRequest struct {
	BaseSimple
	UserID  uuid.UUID `db:"user_id"`
	Message string    `db:"message"`
}
