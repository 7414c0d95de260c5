// Package main Book Rent API.
//
// @title           Book Rent API
// @version         1.0
// @description     book lending marketplace (owners, renters, admins, rentals, revenue).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/Isayas7/book-rent-backend/app/echoServer"
	authctrl "github.com/Isayas7/book-rent-backend/app/echoServer/controller/auth"
	bookctrl "github.com/Isayas7/book-rent-backend/app/echoServer/controller/book"
	rentalctrl "github.com/Isayas7/book-rent-backend/app/echoServer/controller/rental"
	userctrl "github.com/Isayas7/book-rent-backend/app/echoServer/controller/user"
	"github.com/Isayas7/book-rent-backend/app/echoServer/validation"
	"github.com/Isayas7/book-rent-backend/config"
	bookrepo "github.com/Isayas7/book-rent-backend/repository/book"
	"github.com/Isayas7/book-rent-backend/repository/imagehost"
	rentalrepo "github.com/Isayas7/book-rent-backend/repository/rental"
	userrepo "github.com/Isayas7/book-rent-backend/repository/user"
	authsvc "github.com/Isayas7/book-rent-backend/service/auth"
	booksvc "github.com/Isayas7/book-rent-backend/service/book"
	rentalsvc "github.com/Isayas7/book-rent-backend/service/rental"
	revenuesvc "github.com/Isayas7/book-rent-backend/service/revenue"
	usersvc "github.com/Isayas7/book-rent-backend/service/user"
	"github.com/Isayas7/book-rent-backend/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *pgxpool.Pool
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ur := userrepo.New(db)
	br := bookrepo.New(db)
	rr := rentalrepo.New(db)
	ir := imagehost.NewHTTP(cfg.ImageHostURL, cfg.ImageHostKey)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	bs := booksvc.New(br, ir)
	rs := rentalsvc.New(db, rr)
	vs := revenuesvc.New(rr)
	us := usersvc.New(db, ur)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	rentalC := &rentalctrl.Controller{Svc: rs, Revenue: vs, V: v, Log: log}
	userC := &userctrl.Controller{Svc: us, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:   authC,
		Book:   bookC,
		Rental: rentalC,
		User:   userC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "env", cfg.Env, "port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
