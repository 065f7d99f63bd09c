package permission

import "net/http"

var writeActions = ActionIn(ActionUpdate, ActionPartialUpdate, ActionDestroy, ActionCreate)

// OwnerOrReadOnly: reads pass, writes need the author
var OwnerOrReadOnly = Policy{
	Object: Or(IsReadMethod, IsAuthor),
}

// AuthorOrStaffOrReadOnly: author, reads, moderators and admins pass
var AuthorOrStaffOrReadOnly = Policy{
	Object: Or(IsAuthor, IsReadMethod, IsModerator, IsAdmin),
}

// MutateRequiresAuthorOrStaff lets any GET through, including anonymous ones.
// PUT, PATCH and DELETE need an authenticated author, moderator or admin.
// Every other method is denied.
var MutateRequiresAuthorOrStaff = Policy{
	Object: Or(
		And(
			MethodIn(http.MethodPut, http.MethodPatch, http.MethodDelete),
			IsAuthenticated,
			Or(IsAuthor, IsAdmin, IsModerator),
		),
		MethodIn(http.MethodGet),
	),
}

// RoleGatedWrite passes authenticated write actions for identities matching role.
// It never passes list or retrieve, so it is only useful OR-ed with a policy
// that allows reads.
func RoleGatedWrite(role Predicate) Policy {
	return Policy{
		View: And(IsAuthenticated, writeActions, role),
	}
}

// AnonymousReadOnly: anonymous callers may list and retrieve
var AnonymousReadOnly = Policy{
	View: And(Not(IsAuthenticated), ActionIn(ActionList, ActionRetrieve)),
}

var Authenticated = Policy{
	View: IsAuthenticated,
}

var AuthenticatedOrReadOnly = Policy{
	View: Or(IsReadMethod, IsAuthenticated),
}

// AdminOrReadOnly: reads pass, writes need admin authority
var AdminOrReadOnly = Policy{
	View: Or(IsReadMethod, And(IsAuthenticated, IsAdmin)),
}

// ElevatedOnlyWrite: safe methods pass, everything else needs a superuser
var ElevatedOnlyWrite = Policy{
	View: Or(IsReadMethod, IsSuperuser),
}

var AdminOnly = Policy{
	View:   And(IsAuthenticated, IsAdmin),
	Object: And(IsAuthenticated, IsAdmin),
}

// Per-endpoint policies

// Catalog guards categories and genres
var Catalog = AllOf(ElevatedOnlyWrite, AuthenticatedOrReadOnly)

// Titles guards the title collection and title detail
var Titles = AdminOrReadOnly

// AuthoredCollection guards review and comment list/create.
// For authenticated callers the last member subsumes the role-gated ones.
var AuthoredCollection = AnyOf(
	AnonymousReadOnly,
	RoleGatedWrite(IsAdmin),
	RoleGatedWrite(IsModerator),
	Authenticated,
)

// AuthoredDetail guards a single review or comment
var AuthoredDetail = MutateRequiresAuthorOrStaff

// Users guards the admin user management endpoints
var Users = AdminOnly

// Self guards /users/me/
var Self = Authenticated
