package student

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Student struct {
	ID        int       `json:"id" db:"id"`
	OwnerID   int       `json:"owner_id" db:"owner_id"`
	SchoolID  int       `json:"school_id" db:"school_id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Grade     string    `json:"grade" db:"grade"`
	Goal      float64   `json:"goal" db:"goal"` // personal fundraising goal; 0 = unset
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

type Donation struct {
	ID        int       `json:"id" db:"id"`
	StudentID int       `json:"student_id" db:"student_id"`
	DonorName string    `json:"donor_name" db:"donor_name"`
	Amount    float64   `json:"amount" db:"amount"`
	Reference string    `json:"reference" db:"reference"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

type NewStudent struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Grade     string `json:"grade" validate:"required"`
	Goal      string `json:"goal" validate:"omitempty,amount"`
}

func (ns NewStudent) Validate(validate *validator.Validate) error {
	return validate.Struct(ns)
}

type NewDonation struct {
	DonorName  string `json:"donor_name"`
	DonorEmail string `json:"donor_email" validate:"omitempty,email"`
	Amount     string `json:"amount" validate:"required,amount"`
}

func (nd NewDonation) Validate(validate *validator.Validate) error {
	return validate.Struct(nd)
}
