// Package permission decides whether a request may act on a resource.
//
// Checks are plain predicates over (Request, Target) combined with And, Or and
// Not. A Policy pairs a view-level predicate, evaluated before anything is
// loaded from storage, with an object-level predicate, evaluated once the
// target entity has been resolved. A nil predicate allows.
package permission

import (
	"net/http"

	"yamdb/internal/apperror"
	"yamdb/internal/microservices/http-api/models"
)

type Action string

const (
	ActionList          Action = "list"
	ActionRetrieve      Action = "retrieve"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionPartialUpdate Action = "partial_update"
	ActionDestroy       Action = "destroy"
)

// Request is what the resolver knows about the caller.
// A nil Identity is an anonymous caller.
type Request struct {
	Method   string
	Action   Action
	Identity *models.User
}

func (r Request) Authenticated() bool {
	return r.Identity != nil
}

// Target is an authored entity checked at object level
type Target interface {
	OwnerID() string
}

type Predicate func(req Request, target Target) bool

// Allow and Deny are the constant predicates
var (
	Allow Predicate = func(Request, Target) bool { return true }
	Deny  Predicate = func(Request, Target) bool { return false }
)

// And is true when every predicate is true; evaluation stops at the first false.
func And(preds ...Predicate) Predicate {
	return func(req Request, target Target) bool {
		for _, p := range preds {
			if !p(req, target) {
				return false
			}
		}
		return true
	}
}

// Or is true when any predicate is true; evaluation stops at the first true.
func Or(preds ...Predicate) Predicate {
	return func(req Request, target Target) bool {
		for _, p := range preds {
			if p(req, target) {
				return true
			}
		}
		return false
	}
}

func Not(pred Predicate) Predicate {
	return func(req Request, target Target) bool {
		return !pred(req, target)
	}
}

// Atomic checks

func IsAuthenticated(req Request, _ Target) bool {
	return req.Authenticated()
}

// IsReadMethod matches the safe methods GET, HEAD and OPTIONS
func IsReadMethod(req Request, _ Target) bool {
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func IsAuthor(req Request, target Target) bool {
	if !req.Authenticated() || target == nil {
		return false
	}
	return target.OwnerID() == req.Identity.ID
}

func IsAdmin(req Request, _ Target) bool {
	return models.IsAdmin(req.Identity)
}

func IsModerator(req Request, _ Target) bool {
	return models.IsModerator(req.Identity)
}

func IsSuperuser(req Request, _ Target) bool {
	return req.Authenticated() && req.Identity.IsSuperuser
}

func ActionIn(actions ...Action) Predicate {
	return func(req Request, _ Target) bool {
		for _, a := range actions {
			if req.Action == a {
				return true
			}
		}
		return false
	}
}

func MethodIn(methods ...string) Predicate {
	return func(req Request, _ Target) bool {
		for _, m := range methods {
			if req.Method == m {
				return true
			}
		}
		return false
	}
}

// Policy is a two-layer permission: View before lookup, Object after
type Policy struct {
	View   Predicate
	Object Predicate
}

func (p Policy) allowsView(req Request) bool {
	return p.View == nil || p.View(req, nil)
}

func (p Policy) allowsObject(req Request, target Target) bool {
	return p.Object == nil || p.Object(req, target)
}

// AnyOf grants when any policy grants. At object level a member only counts
// if its own view layer also passed.
func AnyOf(policies ...Policy) Policy {
	return Policy{
		View: func(req Request, _ Target) bool {
			for _, p := range policies {
				if p.allowsView(req) {
					return true
				}
			}
			return false
		},
		Object: func(req Request, target Target) bool {
			for _, p := range policies {
				if p.allowsView(req) && p.allowsObject(req, target) {
					return true
				}
			}
			return false
		},
	}
}

// AllOf grants only when every policy grants on both layers
func AllOf(policies ...Policy) Policy {
	return Policy{
		View: func(req Request, _ Target) bool {
			for _, p := range policies {
				if !p.allowsView(req) {
					return false
				}
			}
			return true
		},
		Object: func(req Request, target Target) bool {
			for _, p := range policies {
				if !p.allowsObject(req, target) {
					return false
				}
			}
			return true
		},
	}
}

// AllowsView evaluates the view layer only
func (p Policy) AllowsView(req Request) bool {
	return p.allowsView(req)
}

// Authorize evaluates the view layer and, when target is non-nil, the object layer.
func (p Policy) Authorize(req Request, target Target) bool {
	if !p.allowsView(req) {
		return false
	}
	if target == nil {
		return true
	}
	return p.allowsObject(req, target)
}

// Check is Authorize returning an AuthorizationError on denial
func (p Policy) Check(req Request, target Target) error {
	if p.Authorize(req, target) {
		return nil
	}
	return apperror.Authorization(apperror.CodePermissionDenied)
}
