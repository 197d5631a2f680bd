package school

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type School struct {
	ID        int       `json:"id" db:"id"`
	OwnerID   int       `json:"owner_id" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	City      string    `json:"city" db:"city"`
	Goal      float64   `json:"goal" db:"goal"` // fundraising goal; 0 = unset
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC; campaign start
}

// Event is the only mutable (and deletable) entity on the platform.
type Event struct {
	ID        int       `json:"id" db:"id"`
	SchoolID  int       `json:"school_id" db:"school_id"`
	Title     string    `json:"title" db:"title"`
	Location  string    `json:"location" db:"location"`
	Date      time.Time `json:"date" db:"date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

type NewSchool struct {
	Name string `json:"name" validate:"required"`
	City string `json:"city" validate:"required"`
	Goal string `json:"goal" validate:"omitempty,amount"`
}

func (ns NewSchool) Validate(validate *validator.Validate) error {
	return validate.Struct(ns)
}

type NewEvent struct {
	Title    string    `json:"title" validate:"required"`
	Location string    `json:"location"`
	Date     time.Time `json:"date" validate:"required"`
}

func (ne NewEvent) Validate(validate *validator.Validate) error {
	return validate.Struct(ne)
}

// UpdateEvent supports partial updates; nil fields are left untouched.
type UpdateEvent struct {
	Title    *string    `json:"title"`
	Location *string    `json:"location"`
	Date     *time.Time `json:"date"`
}

func (ue UpdateEvent) Validate(validate *validator.Validate) error {
	return validate.Struct(ue)
}
