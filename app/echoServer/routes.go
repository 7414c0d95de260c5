package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Isayas7/book-rent-backend/app/echoServer/authctx"
	"github.com/Isayas7/book-rent-backend/app/echoServer/controller/auth"
	"github.com/Isayas7/book-rent-backend/app/echoServer/controller/book"
	"github.com/Isayas7/book-rent-backend/app/echoServer/controller/rental"
	"github.com/Isayas7/book-rent-backend/app/echoServer/controller/user"
	"github.com/Isayas7/book-rent-backend/model"
)

type C struct {
	Auth      *auth.Controller
	Book      *book.Controller
	Rental    *rental.Controller
	User      *user.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/api")
	pub.POST("/auth/register", c.Auth.Register)
	pub.POST("/auth/login", c.Auth.Login)
	pub.POST("/auth/logout", c.Auth.Logout)
	pub.GET("/book/free-list", c.Book.Browse)

	// Auth
	authed := e.Group("/api")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "cookie:token",
	}))
	authed.Use(actorFromClaims)

	// Books
	authed.POST("/book/create", c.Book.Create)
	authed.PUT("/book/:id", c.Book.Update)
	authed.DELETE("/book/:id", c.Book.Delete)
	authed.GET("/book/own-books", c.Book.OwnBooks)
	authed.GET("/book/all-books", c.Book.AllBooks)
	authed.GET("/book/single/:id", c.Book.OwnSingle)
	authed.GET("/book/free-books", c.Book.FreeBooks)
	authed.GET("/book/free-owner-books", c.Book.OwnFreeBooks)
	authed.PUT("/book/status/:id", c.Book.ChangeStatus)

	// Rentals and revenue
	authed.POST("/rental/rent/:id", c.Rental.Rent)
	authed.PUT("/rental/return/:id", c.Rental.Return)
	authed.GET("/rental/my-rentals", c.Rental.MyRentals)
	authed.GET("/rental/own-rental", c.Rental.OwnRevenue)
	authed.GET("/rental/rental-statics", c.Rental.Statistics)

	// Owner administration
	authed.GET("/user/owner-list", c.User.Owners)
	authed.PUT("/user/status/:id", c.User.ChangeStatus)
	authed.DELETE("/user/:id", c.User.Delete)
}

// actorFromClaims converts verified JWT claims into the actor the
// services run their policy checks against.
func actorFromClaims(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		tok, ok := ctx.Get("user").(*jwt.Token)
		if !ok || tok == nil {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}

		sub, ok := claims["sub"].(float64)
		if !ok {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		role, ok := claims["role"].(string)
		if !ok {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}

		authctx.Set(ctx, &model.User{
			ID:   int64(sub),
			Role: model.UserRole(role),
		})
		return next(ctx)
	}
}
