package domain

// Role represents user role in the system
type Role string

const (
	RoleUser      Role = "USER"
	RoleLibrarian Role = "LIBRARIAN"
	RoleAdmin     Role = "ADMIN"
)

// Valid reports whether the role is one of the three known roles
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleLibrarian || r == RoleAdmin
}

// IsStaff reports whether the role has management privileges
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleLibrarian
}

// BorrowStatus represents the stored state of a borrow record.
// OVERDUE is a derived display label and is never persisted.
type BorrowStatus string

const (
	BorrowPending  BorrowStatus = "PENDING"
	BorrowActive   BorrowStatus = "BORROWED"
	BorrowReturned BorrowStatus = "RETURNED"
	BorrowLost     BorrowStatus = "LOST"
)

// IsClosed reports whether the record is in a terminal state.
// Closed records are immutable.
func (s BorrowStatus) IsClosed() bool {
	return s == BorrowReturned || s == BorrowLost
}

// Statistic aggregates the dashboard headline numbers
type Statistic struct {
	TotalBooks    int64 `json:"total_books"`
	ActiveBorrows int64 `json:"active_borrows"`
	TotalMembers  int64 `json:"total_members"`
	TotalFines    int64 `json:"total_fines"`
}

// Lending constants. Fines are integer VND (smallest denomination).
const (
	FinePerDay       int64 = 5000
	LostBookFine     int64 = 200000
	MaxActiveBorrows       = 3
	DefaultLoanDays        = 14
)
