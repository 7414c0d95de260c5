package rental

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Isayas7/book-rent-backend/app/echoServer/authctx"
	rentalsvc "github.com/Isayas7/book-rent-backend/service/rental"
	revenuesvc "github.com/Isayas7/book-rent-backend/service/revenue"
)

type Controller struct {
	Svc     rentalsvc.Service
	Revenue revenuesvc.Service
	V       *validator.Validate
	Log     *slog.Logger
}

// POST /api/rental/rent/:id
func (h *Controller) Rent(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req RentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	rental, err := h.Svc.Rent(c.Request().Context(), authctx.User(c), id, req.Quantity)
	if err != nil {
		switch rentalsvc.Code(err) {
		case rentalsvc.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		case rentalsvc.ErrNoStock:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "there are not enough books available"})
		case rentalsvc.ErrNotApproved:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "book or owner not approved"})
		case rentalsvc.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		default:
			h.Log.Error("rental create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create rental"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "rental created successfully",
		"rental":  rental,
	})
}

// PUT /api/rental/return/:id
func (h *Controller) Return(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	if err := h.Svc.Return(c.Request().Context(), authctx.User(c), id); err != nil {
		switch rentalsvc.Code(err) {
		case rentalsvc.ErrRentalNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "rental not found"})
		case rentalsvc.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case rentalsvc.ErrNotBorrowed:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid operation"})
		default:
			h.Log.Error("rental return", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "returned"})
}

// GET /api/rental/my-rentals
func (h *Controller) MyRentals(c echo.Context) error {
	actor := authctx.User(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	rows, err := h.Svc.MyHistory(c.Request().Context(), actor.ID)
	if err != nil {
		h.Log.Error("rental history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /api/rental/own-rental  (owner revenue statistics)
func (h *Controller) OwnRevenue(c echo.Context) error {
	stats, err := h.Revenue.ForOwner(c.Request().Context(), authctx.User(c))
	if err != nil {
		return h.mapRevenueError(c, "own revenue", err)
	}
	return c.JSON(http.StatusOK, stats)
}

// GET /api/rental/rental-statics  (global revenue statistics, admin)
func (h *Controller) Statistics(c echo.Context) error {
	stats, err := h.Revenue.Global(c.Request().Context(), authctx.User(c))
	if err != nil {
		return h.mapRevenueError(c, "rental statistics", err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Controller) mapRevenueError(c echo.Context, op string, err error) error {
	if errors.Is(err, revenuesvc.ErrForbidden) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	h.Log.Error(op, "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
}
