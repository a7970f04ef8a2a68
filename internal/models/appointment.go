package models

import "time"

// Appointment is a reserved (date, time) cell in the single-resource
// calendar. Dates are canonical YYYY-MM-DD, times canonical 24-hour HH:MM;
// no two appointments share both.
type Appointment struct {
	ID        string    `db:"id" json:"id"`
	Date      string    `db:"date" json:"date"`
	Time      string    `db:"time" json:"time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AppointmentFilter narrows appointment listings.
type AppointmentFilter struct {
	Date     string
	FromDate string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
