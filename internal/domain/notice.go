package domain

import "time"

// Source identifies the site a notice was collected from.
type Source int

const (
	SchoolNews Source = iota + 1
	StudentAffairs
	AcademicAffairs
)

// Label is the human-readable source name shown in digests.
func (s Source) Label() string {
	switch s {
	case SchoolNews:
		return "学校新闻网"
	case StudentAffairs:
		return "学生处"
	case AcademicAffairs:
		return "教务处"
	default:
		return "未知来源"
	}
}

// String is the stable identifier used in logs and config.
func (s Source) String() string {
	switch s {
	case SchoolNews:
		return "school-news"
	case StudentAffairs:
		return "student-affairs"
	case AcademicAffairs:
		return "academic-affairs"
	default:
		return "unknown"
	}
}

// NewsItem is a normalized announcement. Link is absolute and Date is a
// calendar date at UTC midnight.
type NewsItem struct {
	Title  string
	Link   string
	Date   time.Time
	Source Source
}

// Recipient is a single digest delivery target.
type Recipient struct {
	Name  string `json:"name" yaml:"name" validate:"omitempty,max=128"`
	Email string `json:"email" yaml:"email" validate:"required,email"`
}

// Digest is a rendered document ready for delivery.
type Digest struct {
	Subject     string
	Body        string
	Count       int
	GeneratedAt time.Time
}

// DeliveryFailure is one recipient the digest could not be sent to.
type DeliveryFailure struct {
	Email string
	Err   error
}

// DeliveryReport records per-recipient outcomes of one delivery, one entry per
// attempt in recipient order.
type DeliveryReport struct {
	Delivered []string
	Failed    []DeliveryFailure
}

// OK reports whether at least one recipient received the digest.
func (r DeliveryReport) OK() bool {
	return len(r.Delivered) > 0
}

// Attempted is the number of recipients a delivery was tried for.
func (r DeliveryReport) Attempted() int {
	return len(r.Delivered) + len(r.Failed)
}
