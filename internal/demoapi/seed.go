package demoapi

import (
	"fmt"

	"github.com/dmitrijs2005/userconsole/internal/client/models"
)

// SeedUsers returns the twelve records the public demo service ships with.
func SeedUsers() []models.User {
	names := [][3]string{
		{"george.bluth", "George", "Bluth"},
		{"janet.weaver", "Janet", "Weaver"},
		{"emma.wong", "Emma", "Wong"},
		{"eve.holt", "Eve", "Holt"},
		{"charles.morris", "Charles", "Morris"},
		{"tracey.ramos", "Tracey", "Ramos"},
		{"michael.lawson", "Michael", "Lawson"},
		{"lindsay.ferguson", "Lindsay", "Ferguson"},
		{"tobias.funke", "Tobias", "Funke"},
		{"byron.fields", "Byron", "Fields"},
		{"george.edwards", "George", "Edwards"},
		{"rachel.howell", "Rachel", "Howell"},
	}

	users := make([]models.User, len(names))
	for i, n := range names {
		id := i + 1
		users[i] = models.User{
			ID:        id,
			Email:     n[0] + "@reqres.in",
			FirstName: n[1],
			LastName:  n[2],
			AvatarURL: fmt.Sprintf("https://reqres.in/img/faces/%d-image.jpg", id),
		}
	}
	return users
}
