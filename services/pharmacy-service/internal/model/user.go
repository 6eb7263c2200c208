package model

import "time"

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	IsSuperuser  bool
	DateJoined   time.Time
}

type Action string

const (
	ActionSignup Action = "signup"
	ActionLogin  Action = "login"
	ActionLogout Action = "logout"
)

func (a Action) Valid() bool {
	switch a {
	case ActionSignup, ActionLogin, ActionLogout:
		return true
	}
	return false
}

// Activity is one account event joined with the user it belongs to.
type Activity struct {
	ID        int64
	UserID    string
	Username  string
	Email     string
	Action    Action
	Timestamp time.Time
}

type Branch struct {
	ID        int64
	Name      string
	Address   string
	Phone     string
	Latitude  *float64
	Longitude *float64
}
