// Package policy holds the authorization predicates shared by the
// service layer and the UI, so role checks live in one place.
package policy

import (
	"github.com/dvolkov/dvchat/internal/auth"
	"github.com/dvolkov/dvchat/internal/store"
)

// CanDelete reports whether actor may delete msg: the message's owner
// always can, and admin or developer roles can moderate any message.
func CanDelete(actor auth.Profile, msg store.Message) bool {
	if msg.FromMe {
		return true
	}
	return actor.IsAdmin || actor.IsDev
}
