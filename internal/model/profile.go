package model

import "time"

type Profile struct {
	ID               string    `db:"id" json:"id"`
	UserID           string    `db:"user_id" json:"user_id"`
	Name             string    `db:"name" json:"name"`
	ZipCode          string    `db:"zip_code" json:"zip_code"`
	Gender           string    `db:"gender" json:"gender"`
	Timezone         string    `db:"timezone" json:"timezone"`
	AgeGroup         string    `db:"age_group" json:"age_group"`
	Interests        []string  `db:"-" json:"interests"`
	Goals            []string  `db:"-" json:"goals"`
	ProfileCompleted bool      `db:"profile_completed" json:"profile_completed"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Account is the user with its profile, as returned by the auth endpoints.
type Account struct {
	*User
	Profile *Profile `json:"profile"`
}
