package model

// Category groups contacts ("Trabalho", "Família", ...)
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DefaultCategories is the seeded reference list, in id order.
var DefaultCategories = []string{"Outros", "Trabalho", "Família", "Amigos"}
