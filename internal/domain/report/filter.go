package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Family identifies a report family
type Family string

const (
	FamilySales     Family = "sales"
	FamilyInventory Family = "inventory"
	FamilyCustomers Family = "customers"
	FamilyFinancial Family = "financial"
)

// Families lists every report family in dashboard order
var Families = []Family{FamilySales, FamilyInventory, FamilyCustomers, FamilyFinancial}

// ParseFamily converts a string to a Family
func ParseFamily(s string) (Family, error) {
	switch f := Family(strings.ToLower(strings.TrimSpace(s))); f {
	case FamilySales, FamilyInventory, FamilyCustomers, FamilyFinancial:
		return f, nil
	default:
		return "", NewInvalidFilterError(fmt.Sprintf("unknown report family %q", s))
	}
}

// RequiresDateRange reports whether the family is scoped by a date range
func (f Family) RequiresDateRange() bool {
	return f != FamilyInventory
}

// Filter scopes every record source query for one report computation.
// Both ends of the date range are inclusive.
type Filter struct {
	StartDate     time.Time  `json:"start_date"`
	EndDate       time.Time  `json:"end_date"`
	Status        string     `json:"status,omitempty"`
	CustomerID    *uuid.UUID `json:"customer_id,omitempty"`
	ProductID     *uuid.UUID `json:"product_id,omitempty"`
	BranchID      *uuid.UUID `json:"branch_id,omitempty"`
	POSID         *uuid.UUID `json:"pos_id,omitempty"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	Category      string     `json:"category,omitempty"`
}

// Validate checks the filter invariants
func (f Filter) Validate() error {
	if f.StartDate.After(f.EndDate) {
		return NewInvalidRangeError("start_date must not be after end_date")
	}
	return nil
}

// HasDateRange reports whether both ends of the range are set
func (f Filter) HasDateRange() bool {
	return !f.StartDate.IsZero() && !f.EndDate.IsZero()
}

// Contains reports whether t falls within [StartDate, EndDate]
func (f Filter) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	return !t.Before(f.StartDate) && !t.After(f.EndDate)
}

// PeriodLengthDays returns the range length rounded up to whole days, at least 1
func (f Filter) PeriodLengthDays() int {
	days := int(math.Ceil(f.EndDate.Sub(f.StartDate).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// Previous returns the filter for the equal-length window immediately preceding StartDate.
// Dimension filters are carried over unchanged.
func (f Filter) Previous() Filter {
	prev := f
	prev.EndDate = f.StartDate
	prev.StartDate = f.StartDate.AddDate(0, 0, -f.PeriodLengthDays())
	return prev
}

// WithStatus returns a copy of the filter with Status replaced
func (f Filter) WithStatus(status string) Filter {
	f.Status = status
	return f
}

// MatchesLocation reports whether a sale satisfies the branch and POS filters
func (f Filter) MatchesLocation(s SaleRecord) bool {
	if f.BranchID != nil && (s.BranchID == nil || *s.BranchID != *f.BranchID) {
		return false
	}
	if f.POSID != nil && (s.POSID == nil || *s.POSID != *f.POSID) {
		return false
	}
	return true
}

// HasItemScope reports whether the filter narrows sale items by product or category
func (f Filter) HasItemScope() bool {
	return f.ProductID != nil || f.Category != ""
}

// MatchesProduct reports whether a product satisfies the product and category filters.
// Category matches either the category id or its label, case-insensitively.
func (f Filter) MatchesProduct(p ProductRecord) bool {
	if f.ProductID != nil && p.ID != *f.ProductID {
		return false
	}
	if f.Category == "" {
		return true
	}
	if p.CategoryID != nil && strings.EqualFold(p.CategoryID.String(), f.Category) {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(p.Category), strings.TrimSpace(f.Category))
}
