package book

type BookFormReq struct {
	Name      string  `form:"book_name" validate:"required"`
	Author    string  `form:"author" validate:"required"`
	Category  string  `form:"category" validate:"required"`
	Quantity  int64   `form:"quantity" validate:"gte=0"`
	RentPrice float64 `form:"rent_price" validate:"gte=0"`
}

type ChangeStatusReq struct {
	Status string `json:"status" validate:"required,oneof=PENDING APPROVED REJECTED"`
}
