package models

import "time"

type User struct {
	Id           string         `db:"id"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	FirstName    string         `db:"first_name"`
	LastName     string         `db:"last_name"`
	Phone        string         `db:"phone"`
	Bio          string         `db:"bio"`
	Plan         string         `db:"plan"`
	Preferences  map[string]any `db:"preferences"`
	CreatedAt    time.Time      `db:"created_at"`
}

// ProfileUpdate carries the profile columns that may be changed, nil means unchanged
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Username  *string
	Email     *string
	Phone     *string
	Bio       *string
}

func (pu ProfileUpdate) IsEmpty() bool {
	return pu.FirstName == nil && pu.LastName == nil && pu.Username == nil &&
		pu.Email == nil && pu.Phone == nil && pu.Bio == nil
}
