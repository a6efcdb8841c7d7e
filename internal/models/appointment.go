package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusCreated     AppointmentStatus = "created"
	StatusRescheduled AppointmentStatus = "rescheduled"
	StatusApproved    AppointmentStatus = "approved"
	StatusRejected    AppointmentStatus = "rejected"
	StatusExpired     AppointmentStatus = "expired"
	StatusRemoved     AppointmentStatus = "removed"
)

// Valid reports whether s is a member of the status enumeration.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusRescheduled, StatusApproved, StatusRejected, StatusExpired, StatusRemoved:
		return true
	}
	return false
}

// Pending reports whether the appointment can still be rescheduled, signed or
// expired.
func (s AppointmentStatus) Pending() bool {
	return s == StatusCreated || s == StatusRescheduled
}

// Terminal reports whether no further status transition is possible.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusExpired || s == StatusRemoved
}

// Removable reports whether the appointment may be deleted.
func (s AppointmentStatus) Removable() bool {
	return s == StatusRejected || s == StatusExpired
}

// Appointment represents a scheduled appointment between a sender and a
// recipient, mediated by a manager sign-off.
type Appointment struct {
	BaseModel
	Sender    string            `gorm:"size:255;index" json:"sender"`
	Recipient string            `gorm:"size:255;index" json:"recipient"`
	Name      string            `gorm:"size:48" json:"name"`
	Date      Date              `gorm:"type:date" json:"date"`
	Time      TimeOfDay         `gorm:"type:varchar(8)" json:"time"`
	Status    AppointmentStatus `gorm:"size:20;default:'created'" json:"status"`
}

// ScheduledAt combines the date and time-of-day fields into the scheduling
// instant used for ordering and expiration comparisons.
func (a *Appointment) ScheduledAt() time.Time {
	d := a.Date.Date
	t := a.Time.Time
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.Local)
}
