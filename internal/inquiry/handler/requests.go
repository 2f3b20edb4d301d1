package handler

import (
	"hamon/internal/inquiry/models"
	"hamon/internal/inquiry/service"
	id "hamon/pkg/domain"
)

type CreateInquiryRequest struct {
	UserID   string  `json:"userId" validate:"required,cuid"`
	SwordID  *string `json:"swordId,omitempty" validate:"omitempty,cuid"`
	Interest string  `json:"interest" validate:"required,oneof=KATANA WAKIZASHI TANTO CUSTOM CONSULTATION"`
	Message  string  `json:"message" validate:"required,min=10,max=1000"`
}

func (r *CreateInquiryRequest) ToCommand() service.CreateCommand {
	cmd := service.CreateCommand{
		UserID:   id.UserID(r.UserID),
		Interest: models.Interest(r.Interest),
		Message:  r.Message,
	}
	if r.SwordID != nil {
		sid := id.SwordID(*r.SwordID)
		cmd.SwordID = &sid
	}
	return cmd
}

type ListInquiriesRequest struct {
	UserID string `query:"userId" validate:"omitempty,cuid"`
}
