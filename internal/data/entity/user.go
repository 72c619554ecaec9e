package entity

import "time"

type User struct {
	Base
	Email           string     `db:"email"`
	Name            string     `db:"name"`
	PasswordHash    string     `db:"password"`
	Phone           *string    `db:"phone"`
	IsEmailVerified bool       `db:"is_email_verified"`
	IsPhoneVerified bool       `db:"is_phone_verified"`
	LastLogin       *time.Time `db:"last_login"`
}
