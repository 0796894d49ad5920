package entity

import "time"

// BookingStatus is persisted as its string value.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// bookingTransitions lists every legal move. Statuses absent as keys are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:  {BookingStatusAccepted, BookingStatusCancelled},
	BookingStatusAccepted: {BookingStatusCompleted, BookingStatusCancelled},
}

// IsValid reports whether s belongs to the status enumeration.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusAccepted, BookingStatusCompleted, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition may leave s.
func (s BookingStatus) IsTerminal() bool {
	_, ok := bookingTransitions[s]

	return !ok
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// BookingRole selects which side of a booking a listing is filtered on.
type BookingRole string

const (
	BookingRoleAny      BookingRole = ""
	BookingRoleCustomer BookingRole = "customer"
	BookingRoleProvider BookingRole = "provider"
)

// DefaultBookingDurationHours applies when a booking request omits the duration.
const DefaultBookingDurationHours = 1

// Booking reserves a provider's skill for a customer.
type Booking struct {
	ID            uint64
	CustomerID    uint64
	ProviderID    uint64
	SkillID       uint64
	Status        BookingStatus
	ScheduledAt   *time.Time
	DurationHours int
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsParticipant reports whether userID is the customer or the provider.
func (b *Booking) IsParticipant(userID uint64) bool {
	return b.CustomerID == userID || b.ProviderID == userID
}

// BookingFilter narrows a participant's booking listing.
type BookingFilter struct {
	ParticipantID uint64
	Role          BookingRole
	Status        *BookingStatus
}
