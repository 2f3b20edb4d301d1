package models

import (
	"time"

	id "hamon/pkg/domain"
)

// Interest is the lowercase interest enumeration of the contact form.
type Interest string

const (
	InterestKatana       Interest = "katana"
	InterestWakizashi    Interest = "wakizashi"
	InterestTanto        Interest = "tanto"
	InterestCustom       Interest = "custom"
	InterestConsultation Interest = "consultation"
)

// Submission is one accepted contact form.
type Submission struct {
	ID        id.SubmissionID
	Name      string
	Email     string
	Phone     *string
	Interest  Interest
	Message   string
	CreatedAt time.Time
}
