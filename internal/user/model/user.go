package model

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type BoatType string

const (
	BoatSail  BoatType = "sail"
	BoatMotor BoatType = "motor"
)

func (b BoatType) Valid() bool {
	return b == BoatSail || b == BoatMotor
}

type Location struct {
	Lat float64 `json:"lat" db:"lat"`
	Lng float64 `json:"lng" db:"lng"`
}

type User struct {
	ID               string     `json:"id" db:"id"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
	Email            string     `json:"email" db:"email"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	Role             Role       `json:"role" db:"role"`
	IsBlocked        bool       `json:"is_blocked" db:"is_blocked"`
	IsSkipper        bool       `json:"is_skipper" db:"is_skipper"`
	SkipperFirstName *string    `json:"skipper_first_name,omitempty" db:"skipper_first_name"`
	SkipperLastName  *string    `json:"skipper_last_name,omitempty" db:"skipper_last_name"`
	BoatName         string     `json:"boat_name" db:"boat_name"`
	BoatType         BoatType   `json:"boat_type" db:"boat_type"`
	Phone            string     `json:"phone" db:"phone"`
	Location         *Location  `json:"location,omitempty"`
	IsOnline         *bool      `json:"is_online,omitempty" db:"is_online"`
	LastSeen         *time.Time `json:"last_seen,omitempty" db:"last_seen"`
}

// SkipperName returns the display name used on SOS requests, set only when a
// dedicated skipper is registered for the boat.
func (u User) SkipperName() *string {
	if !u.IsSkipper || u.SkipperFirstName == nil || u.SkipperLastName == nil {
		return nil
	}
	name := fmt.Sprintf("%s %s", *u.SkipperFirstName, *u.SkipperLastName)
	return &name
}

// ProfileUpdate carries the owner-writable profile fields. Role and IsBlocked
// are deliberately absent: those move only through admin moderation.
type ProfileUpdate struct {
	IsSkipper        *bool     `json:"is_skipper,omitempty"`
	SkipperFirstName *string   `json:"skipper_first_name,omitempty"`
	SkipperLastName  *string   `json:"skipper_last_name,omitempty"`
	BoatName         *string   `json:"boat_name,omitempty"`
	BoatType         *BoatType `json:"boat_type,omitempty"`
	Phone            *string   `json:"phone,omitempty"`
}
