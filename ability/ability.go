// Package ability is the capability policy engine. An Ability is built from
// the acting user at request time and queried with Can / CanSubject. Rules
// are partitioned by role and start from an implicit deny; instance-scoped
// rules carry an ownership predicate closed over the actor.
package ability

import "github.com/Isayas7/book-rent-backend/model"

type Action string

const (
	Get    Action = "get"
	Upload Action = "upload"
	Update Action = "update"
	Delete Action = "delete"
	Change Action = "change"
	Return Action = "return"
)

type Resource string

const (
	Book          Resource = "Book"
	Rental        Resource = "Rental"
	Owner         Resource = "Owner"
	Owners        Resource = "Owners"
	OwnerStatus   Resource = "OwnerStatus"
	BookStatus    Resource = "BookStatus"
	AllBooks      Resource = "AllBooks"
	OwnBooks      Resource = "OwnBooks"
	OwnSingleBook Resource = "OwnSingleBook"
	Revenue       Resource = "Revenue"
	OwnRevenue    Resource = "OwnRevenue"
	AllFreeBooks  Resource = "AllFreeBooks"
	OwnFreeBooks  Resource = "OwnFreeBooks"
)

// rule grants action on resource; owns, when set, must hold for the subject.
type rule struct {
	action   Action
	resource Resource
	owns     func(subject any) bool
}

type Ability struct {
	rules []rule
}

// For builds the ability for an actor. A nil actor has no rules and is
// denied everything.
func For(u *model.User) Ability {
	if u == nil {
		return Ability{}
	}

	// Any authenticated user may return rentals they created.
	rules := []rule{{
		action:   Return,
		resource: Rental,
		owns: func(subject any) bool {
			r, ok := subject.(*model.Rental)
			return ok && r.RenterID == u.ID
		},
	}}

	switch u.Role {
	case model.RoleAdmin:
		for _, g := range []struct {
			a Action
			r Resource
		}{
			{Get, Owners},
			{Change, OwnerStatus},
			{Get, AllBooks},
			{Change, BookStatus},
			{Get, Revenue},
			{Get, AllFreeBooks},
			{Delete, Owner},
		} {
			rules = append(rules, rule{action: g.a, resource: g.r})
		}

	case model.RoleOwner:
		ownsBook := func(subject any) bool {
			b, ok := subject.(*model.Book)
			return ok && b.OwnerID == u.ID
		}
		rules = append(rules,
			rule{action: Upload, resource: Book},
			rule{action: Update, resource: Book, owns: ownsBook},
			rule{action: Delete, resource: Book, owns: ownsBook},
			rule{action: Get, resource: OwnBooks},
			rule{action: Get, resource: OwnRevenue},
			rule{action: Get, resource: OwnFreeBooks},
			rule{action: Get, resource: OwnSingleBook},
		)
	}

	return Ability{rules: rules}
}

// Can reports whether any rule grants action on the resource type,
// ignoring instance scoping.
func (a Ability) Can(action Action, resource Resource) bool {
	for _, r := range a.rules {
		if r.action == action && r.resource == resource {
			return true
		}
	}
	return false
}

// CanSubject reports whether a rule grants action on the given resource
// instance. Instance-scoped rules apply their ownership predicate.
func (a Ability) CanSubject(action Action, resource Resource, subject any) bool {
	for _, r := range a.rules {
		if r.action != action || r.resource != resource {
			continue
		}
		if r.owns == nil || r.owns(subject) {
			return true
		}
	}
	return false
}
