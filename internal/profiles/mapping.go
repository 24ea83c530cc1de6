package profiles

import (
	"github.com/JaimeStill/umai/pkg/query"
	"github.com/JaimeStill/umai/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "profiles", "p").
	Project("id", "ID").
	Project("email", "Email").
	Project("is_admin", "IsAdmin")

func scanProfile(s repository.Scanner) (Profile, error) {
	var p Profile
	err := s.Scan(&p.ID, &p.Email, &p.IsAdmin)
	return p, err
}
