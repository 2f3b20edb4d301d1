package testutil

import (
	"time"

	catalogmodels "hamon/internal/catalog/models"
	contactmodels "hamon/internal/contact/models"
	inquirymodels "hamon/internal/inquiry/models"
	id "hamon/pkg/domain"
)

// TestIDs provides convenient pre-generated IDs for tests.
// Use these for deterministic test data.
var TestIDs = struct {
	SwordID1 id.SwordID
	SwordID2 id.SwordID
	UserID1  id.UserID
	UserID2  id.UserID
}{
	SwordID1: id.SwordID("ckatana0000000001"),
	SwordID2: id.SwordID("ckatana0000000002"),
	UserID1:  id.UserID("cuser00000000001"),
	UserID2:  id.UserID("cuser00000000002"),
}

// FixedTime is a microsecond-aligned instant, so values survive a Postgres
// round trip unchanged.
var FixedTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// SwordBuilder provides a fluent interface for building test swords.
type SwordBuilder struct {
	sword *catalogmodels.Sword
}

// NewSwordBuilder creates a new SwordBuilder with sensible defaults.
func NewSwordBuilder() *SwordBuilder {
	return &SwordBuilder{
		sword: &catalogmodels.Sword{
			ID:             id.NewSwordID(),
			Name:           "Test Katana",
			NameJapanese:   "試し刀",
			Category:       catalogmodels.CategoryKatana,
			Price:          1000,
			Description:    "A test blade with a long description",
			Craftsman:      "Test Smith",
			Era:            "Reiwa",
			Image:          "https://example.com/katana.jpg",
			Specifications: map[string]any{"bladeLength": "70cm"},
			Available:      true,
			CreatedAt:      FixedTime,
			UpdatedAt:      FixedTime,
		},
	}
}

func (b *SwordBuilder) WithID(swordID id.SwordID) *SwordBuilder {
	b.sword.ID = swordID
	return b
}

func (b *SwordBuilder) WithName(name string) *SwordBuilder {
	b.sword.Name = name
	return b
}

func (b *SwordBuilder) WithCategory(category catalogmodels.Category) *SwordBuilder {
	b.sword.Category = category
	return b
}

func (b *SwordBuilder) WithPrice(price float64) *SwordBuilder {
	b.sword.Price = price
	return b
}

func (b *SwordBuilder) WithDescription(description string) *SwordBuilder {
	b.sword.Description = description
	return b
}

func (b *SwordBuilder) CreatedAt(t time.Time) *SwordBuilder {
	b.sword.CreatedAt = t
	b.sword.UpdatedAt = t
	return b
}

func (b *SwordBuilder) Unavailable() *SwordBuilder {
	b.sword.Available = false
	return b
}

func (b *SwordBuilder) Build() *catalogmodels.Sword {
	return b.sword
}

// InquiryBuilder provides a fluent interface for building test inquiries.
type InquiryBuilder struct {
	inquiry *inquirymodels.Inquiry
}

// NewInquiryBuilder creates a general inquiry from TestIDs.UserID1.
func NewInquiryBuilder() *InquiryBuilder {
	return &InquiryBuilder{
		inquiry: inquirymodels.NewInquiry(TestIDs.UserID1, nil, inquirymodels.InterestConsultation,
			"I would like to learn more", FixedTime),
	}
}

func (b *InquiryBuilder) WithUserID(userID id.UserID) *InquiryBuilder {
	b.inquiry.UserID = userID
	return b
}

func (b *InquiryBuilder) ForSword(swordID id.SwordID) *InquiryBuilder {
	b.inquiry.SwordID = &swordID
	return b
}

func (b *InquiryBuilder) WithInterest(interest inquirymodels.Interest) *InquiryBuilder {
	b.inquiry.Interest = interest
	return b
}

func (b *InquiryBuilder) CreatedAt(t time.Time) *InquiryBuilder {
	b.inquiry.CreatedAt = t
	return b
}

func (b *InquiryBuilder) Build() *inquirymodels.Inquiry {
	return b.inquiry
}

// SubmissionBuilder provides a fluent interface for building contact submissions.
type SubmissionBuilder struct {
	sub *contactmodels.Submission
}

func NewSubmissionBuilder() *SubmissionBuilder {
	return &SubmissionBuilder{
		sub: &contactmodels.Submission{
			ID:        id.NewSubmissionID(),
			Name:      "Test Customer",
			Email:     "customer@example.com",
			Interest:  contactmodels.InterestKatana,
			Message:   "I would like a katana",
			CreatedAt: FixedTime,
		},
	}
}

func (b *SubmissionBuilder) WithPhone(phone string) *SubmissionBuilder {
	b.sub.Phone = &phone
	return b
}

func (b *SubmissionBuilder) WithInterest(interest contactmodels.Interest) *SubmissionBuilder {
	b.sub.Interest = interest
	return b
}

func (b *SubmissionBuilder) Build() *contactmodels.Submission {
	return b.sub
}
