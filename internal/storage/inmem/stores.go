// Package inmem holds volatile, process-lifetime implementations of the keyed stores.
package inmem

import "github.com/sandevgo/alexbot/internal/core"

func NewStores() core.Stores {
	return core.Stores{
		Profiles: NewProfileStore(),
		History:  NewHistoryStore(),
		Sessions: NewSessionStore(),
	}
}
