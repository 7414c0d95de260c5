package user

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Isayas7/book-rent-backend/app/echoServer/authctx"
	"github.com/Isayas7/book-rent-backend/model"
	usersvc "github.com/Isayas7/book-rent-backend/service/user"
)

type Controller struct {
	Svc usersvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /api/user/owner-list  (admin)
func (h *Controller) Owners(c echo.Context) error {
	rows, err := h.Svc.Owners(c.Request().Context(), authctx.User(c))
	if err != nil {
		return h.mapError(c, "list owners", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// PUT /api/user/status/:id  (admin changes owner approval status)
func (h *Controller) ChangeStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req ChangeStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	if err := h.Svc.ChangeStatus(c.Request().Context(), authctx.User(c), id, model.ApprovalStatus(req.Status)); err != nil {
		return h.mapError(c, "change owner status", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "status updated"})
}

// DELETE /api/user/:id  (admin deletes an owner and their books)
func (h *Controller) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.DeleteOwner(c.Request().Context(), authctx.User(c), id); err != nil {
		return h.mapError(c, "delete owner", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "owner deleted"})
}

func (h *Controller) mapError(c echo.Context, op string, err error) error {
	switch usersvc.Code(err) {
	case usersvc.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	case usersvc.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
