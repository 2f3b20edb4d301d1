package models

import (
	"time"

	catalogmodels "hamon/internal/catalog/models"
	id "hamon/pkg/domain"
)

// Interest is what the customer is asking about.
type Interest string

const (
	InterestKatana       Interest = "KATANA"
	InterestWakizashi    Interest = "WAKIZASHI"
	InterestTanto        Interest = "TANTO"
	InterestCustom       Interest = "CUSTOM"
	InterestConsultation Interest = "CONSULTATION"
)

// Inquiry is a customer question, optionally about one sword. Sword is
// filled in on reads and is nil when the sword has since been removed.
type Inquiry struct {
	ID        id.InquiryID         `json:"id"`
	UserID    id.UserID            `json:"userId"`
	SwordID   *id.SwordID          `json:"swordId"`
	Interest  Interest             `json:"interest"`
	Message   string               `json:"message"`
	CreatedAt time.Time            `json:"createdAt"`
	Sword     *catalogmodels.Sword `json:"sword"`
}

// NewInquiry builds a new inquiry stamped with now.
func NewInquiry(userID id.UserID, swordID *id.SwordID, interest Interest, message string, now time.Time) *Inquiry {
	return &Inquiry{
		ID:        id.NewInquiryID(),
		UserID:    userID,
		SwordID:   swordID,
		Interest:  interest,
		Message:   message,
		CreatedAt: now,
	}
}
