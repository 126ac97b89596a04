package model

import "time"

type Profile struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	Name         string    `db:"name"`
	AgeRange     string    `db:"age_range"`
	Denomination string    `db:"denomination"`
	Church       string    `db:"church"`
	Goal         string    `db:"goal"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
