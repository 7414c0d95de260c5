package rental

type RentReq struct {
	Quantity int64 `json:"quantity" validate:"required,gt=0"`
}
