package report

import (
	"time"

	"github.com/pos-admin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Settings tunes aggregation. Unset fields fall back to DefaultSettings: a zero TopN,
// an invalid NullDecimal and an empty label. A valid zero threshold or min stock is honoured.
type Settings struct {
	TopN                int
	VIPThreshold        decimal.NullDecimal
	RegularThreshold    decimal.NullDecimal
	DefaultMinStock     decimal.NullDecimal
	UnknownProductLabel string
	UncategorizedLabel  string
	// Timezone used to cut calendar days and months. Empty keeps each timestamp's own location.
	Timezone string
}

// DefaultSettings returns the stock aggregation settings
func DefaultSettings() Settings {
	return Settings{
		TopN:                10,
		VIPThreshold:        decimal.NewNullDecimal(decimal.NewFromInt(10000)),
		RegularThreshold:    decimal.NewNullDecimal(decimal.NewFromInt(1000)),
		DefaultMinStock:     decimal.NewNullDecimal(decimal.NewFromInt(10)),
		UnknownProductLabel: "Desconocido",
		UncategorizedLabel:  "Sin categoría",
	}
}

// WithOverrides layers the set fields of overrides on top of s
func (s Settings) WithOverrides(overrides Settings) (Settings, error) {
	return shared.Merge(s, overrides)
}

// Validate checks settings consistency
func (s Settings) Validate() error {
	if s.TopN < 0 {
		return NewInvalidFilterError("top_n must not be negative")
	}
	if s.regularThreshold().IsNegative() {
		return NewInvalidFilterError("regular_threshold must not be negative")
	}
	if s.regularThreshold().GreaterThanOrEqual(s.vipThreshold()) {
		return NewInvalidFilterError("regular_threshold must be below vip_threshold")
	}
	if s.defaultMinStock().IsNegative() {
		return NewInvalidFilterError("default_min_stock must not be negative")
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return NewInvalidFilterError("unknown timezone " + s.Timezone)
	}
	return nil
}

// Location returns the report timezone, or nil when timestamps keep their own location
func (s Settings) Location() *time.Location {
	if s.Timezone == "" {
		return nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil
	}
	return loc
}

func (s Settings) topN() int {
	if s.TopN <= 0 {
		return DefaultSettings().TopN
	}
	return s.TopN
}

func (s Settings) vipThreshold() decimal.Decimal {
	return orDefault(s.VIPThreshold, DefaultSettings().VIPThreshold)
}

func (s Settings) regularThreshold() decimal.Decimal {
	return orDefault(s.RegularThreshold, DefaultSettings().RegularThreshold)
}

func (s Settings) defaultMinStock() decimal.Decimal {
	return orDefault(s.DefaultMinStock, DefaultSettings().DefaultMinStock)
}

func orDefault(v, fallback decimal.NullDecimal) decimal.Decimal {
	if v.Valid {
		return v.Decimal
	}
	return fallback.Decimal
}

func (s Settings) categoryLabel(label string) string {
	if label == "" {
		if s.UncategorizedLabel == "" {
			return DefaultSettings().UncategorizedLabel
		}
		return s.UncategorizedLabel
	}
	return label
}

func (s Settings) unknownProductLabel() string {
	if s.UnknownProductLabel == "" {
		return DefaultSettings().UnknownProductLabel
	}
	return s.UnknownProductLabel
}

// dayKey formats the calendar day of t, or "" when t is unknown
func (s Settings) dayKey(t time.Time) string {
	return s.bucketKey(t, "2006-01-02")
}

// monthKey formats the calendar month of t, or "" when t is unknown
func (s Settings) monthKey(t time.Time) string {
	return s.bucketKey(t, "2006-01")
}

func (s Settings) bucketKey(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	if loc := s.Location(); loc != nil {
		t = t.In(loc)
	}
	return t.Format(layout)
}
