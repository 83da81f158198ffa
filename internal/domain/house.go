package domain

type House struct {
	ID      string
	OwnerID string
}

type User struct {
	ID    string
	Email string
}
