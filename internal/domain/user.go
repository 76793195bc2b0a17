package domain

// User is the acting (signed-in) user of the process.
type User struct {
	ID        string
	Name      string
	AvatarURL string
}
