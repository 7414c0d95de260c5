package user

type ChangeStatusReq struct {
	Status string `json:"status" validate:"required,oneof=PENDING APPROVED REJECTED"`
}
