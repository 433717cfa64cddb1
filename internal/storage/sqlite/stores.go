package sqlite

import (
	"database/sql"

	"github.com/sandevgo/alexbot/internal/core"
)

func NewStores(db *sql.DB) core.Stores {
	return core.Stores{
		Profiles: NewProfilesRepo(db),
		History:  NewHistoryRepo(db),
		Sessions: NewSessionsRepo(db),
	}
}
