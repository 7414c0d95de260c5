// Package authctx carries the authenticated actor through the request
// context. The JWT carries only id and role; services load anything more
// they need from the database.
package authctx

import (
	"github.com/labstack/echo/v4"

	"github.com/Isayas7/book-rent-backend/model"
)

const key = "actor"

func Set(c echo.Context, u *model.User) { c.Set(key, u) }

// User returns the authenticated actor, or nil on unauthenticated requests.
func User(c echo.Context) *model.User {
	u, _ := c.Get(key).(*model.User)
	return u
}
