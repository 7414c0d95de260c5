package book

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Isayas7/book-rent-backend/app/echoServer/authctx"
	"github.com/Isayas7/book-rent-backend/model"
	booksvc "github.com/Isayas7/book-rent-backend/service/book"
)

type Controller struct {
	Svc booksvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /api/book/create  (owner, multipart with optional cover)
func (h *Controller) Create(c echo.Context) error {
	req, err := bindBookForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid form"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	cover, file, err := openCover(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid cover"})
	}
	if file != nil {
		defer file.Close()
	}

	b, err := h.Svc.Create(c.Request().Context(), authctx.User(c), toInput(req), cover)
	if err != nil {
		return h.mapError(c, "book create", err)
	}
	return c.JSON(http.StatusCreated, b)
}

// PUT /api/book/:id  (owner of the book)
func (h *Controller) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	req, err := bindBookForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid form"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	cover, file, err := openCover(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid cover"})
	}
	if file != nil {
		defer file.Close()
	}

	b, err := h.Svc.Update(c.Request().Context(), authctx.User(c), id, toInput(req), cover)
	if err != nil {
		return h.mapError(c, "book update", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book updated successfully", "book": b})
}

// DELETE /api/book/:id  (owner of the book)
func (h *Controller) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), authctx.User(c), id); err != nil {
		return h.mapError(c, "book delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book deleted"})
}

// GET /api/book  (any authenticated user: the rentable catalog)
func (h *Controller) Browse(c echo.Context) error {
	rows, err := h.Svc.Rentable(c.Request().Context())
	if err != nil {
		return h.mapError(c, "book browse", err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /api/book/own-books  (owner)
func (h *Controller) OwnBooks(c echo.Context) error {
	rows, err := h.Svc.OwnBooks(c.Request().Context(), authctx.User(c), filterFromQuery(c, false))
	if err != nil {
		return h.mapError(c, "own books", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /api/book/all-books  (admin)
func (h *Controller) AllBooks(c echo.Context) error {
	rows, err := h.Svc.AllBooks(c.Request().Context(), authctx.User(c), filterFromQuery(c, true))
	if err != nil {
		return h.mapError(c, "all books", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /api/book/single/:id  (owner)
func (h *Controller) OwnSingle(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	b, err := h.Svc.OwnSingle(c.Request().Context(), authctx.User(c), id)
	if err != nil {
		return h.mapError(c, "own single book", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": b})
}

// PUT /api/book/status/:id  (admin)
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
		return h.mapError(c, "book status", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book is " + req.Status + " successfully"})
}

// GET /api/book/free-books  (admin)
func (h *Controller) FreeBooks(c echo.Context) error {
	counts, err := h.Svc.FreeSummary(c.Request().Context(), authctx.User(c))
	if err != nil {
		return h.mapError(c, "free books", err)
	}
	return c.JSON(http.StatusOK, counts)
}

// GET /api/book/free-owner-books  (owner)
func (h *Controller) OwnFreeBooks(c echo.Context) error {
	counts, err := h.Svc.OwnFreeSummary(c.Request().Context(), authctx.User(c))
	if err != nil {
		return h.mapError(c, "free owner books", err)
	}
	return c.JSON(http.StatusOK, counts)
}

func (h *Controller) mapError(c echo.Context, op string, err error) error {
	switch booksvc.Code(err) {
	case booksvc.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	case booksvc.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
	case booksvc.ErrDuplicate:
		return c.JSON(http.StatusConflict, echo.Map{"message": "the book already exists"})
	case booksvc.ErrBadInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request data"})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.ErrBadRequest
	}
	return id, nil
}

func bindBookForm(c echo.Context) (BookFormReq, error) {
	var req BookFormReq
	req.Name = c.FormValue("book_name")
	req.Author = c.FormValue("author")
	req.Category = c.FormValue("category")

	if v := c.FormValue("quantity"); v != "" {
		q, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, err
		}
		req.Quantity = q
	}
	if v := c.FormValue("rent_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, err
		}
		req.RentPrice = p
	}
	return req, nil
}

// openCover returns the optional multipart cover. The caller closes the file.
func openCover(c echo.Context) (*booksvc.Cover, multipart.File, error) {
	fh, err := c.FormFile("cover")
	if err != nil {
		// Absent cover is fine.
		return nil, nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &booksvc.Cover{Filename: fh.Filename, Content: f}, f, nil
}

func toInput(req BookFormReq) booksvc.BookInput {
	return booksvc.BookInput{
		Name:      req.Name,
		Author:    req.Author,
		Category:  req.Category,
		Quantity:  req.Quantity,
		RentPrice: req.RentPrice,
	}
}

func filterFromQuery(c echo.Context, withOwner bool) model.BookFilter {
	var f model.BookFilter

	if v := c.QueryParam("id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.ID = &id
		}
	}
	if v := c.QueryParam("book_name"); v != "" {
		f.Name = &v
	}
	if v := c.QueryParam("author"); v != "" {
		f.Author = &v
	}
	if v := c.QueryParam("category"); v != "" {
		f.Category = &v
	}
	if v := c.QueryParam("quantity"); v != "" {
		if q, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.Quantity = &q
		}
	}
	if v := c.QueryParam("rent_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.RentPrice = &p
		}
	}
	if withOwner {
		if v := c.QueryParam("owner_email"); v != "" {
			f.OwnerEmail = &v
		}
		if v := c.QueryParam("location"); v != "" {
			f.OwnerLocation = &v
		}
	}
	if v := c.QueryParam("globalFilter"); v != "" {
		f.Global = &v
	}
	return f
}
