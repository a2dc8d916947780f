package core

import (
	"fmt"
	"strings"
)

// Enumerations persist as their human-readable label. Changing a label breaks
// every collection already written to disk.
const (
	CategoryFood           Category = "Food"
	CategoryTransportation Category = "Transportation"
	CategoryEntertainment  Category = "Entertainment"
	CategoryShopping       Category = "Shopping"
	CategoryHealth         Category = "Health"
	CategoryUtilities      Category = "Utilities"
	CategoryOther          Category = "Other"
)

const (
	Daily   Period = "Daily"
	Weekly  Period = "Weekly"
	Monthly Period = "Monthly"
	Yearly  Period = "Yearly"
)

const (
	InvestmentStocks     InvestmentType = "Stocks"
	InvestmentCrypto     InvestmentType = "Cryptocurrency"
	InvestmentBonds      InvestmentType = "Bonds"
	InvestmentRealEstate InvestmentType = "Real Estate"
	InvestmentOther      InvestmentType = "Other"
)

type (
	// Category classifies an Expense and, by extension, a Budget.
	Category string

	// Period is the calendar granularity used for filtering and budgets.
	Period string

	// InvestmentType classifies an Investment.
	InvestmentType string
)

var (
	categories      = []Category{CategoryFood, CategoryTransportation, CategoryEntertainment, CategoryShopping, CategoryHealth, CategoryUtilities, CategoryOther}
	periods         = []Period{Daily, Weekly, Monthly, Yearly}
	investmentTypes = []InvestmentType{InvestmentStocks, InvestmentCrypto, InvestmentBonds, InvestmentRealEstate, InvestmentOther}
)

// Categories returns every expense category in declaration order.
func Categories() []Category { return append([]Category(nil), categories...) }

// Periods returns every period from the finest to the coarsest.
func Periods() []Period { return append([]Period(nil), periods...) }

// InvestmentTypes returns every investment type in declaration order.
func InvestmentTypes() []InvestmentType { return append([]InvestmentType(nil), investmentTypes...) }

func (c Category) String() string       { return string(c) }
func (p Period) String() string         { return string(p) }
func (t InvestmentType) String() string { return string(t) }

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// IsValid reports whether p is one of the known periods.
func (p Period) IsValid() bool {
	for _, known := range periods {
		if p == known {
			return true
		}
	}
	return false
}

// IsValid reports whether t is one of the known investment types.
func (t InvestmentType) IsValid() bool {
	for _, known := range investmentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseCategory accepts a category label in any case.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// ParsePeriod accepts a period label in any case, or one of the short forms
// day, week, month and year.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "monthly", "month":
		return Monthly, nil
	case "yearly", "year":
		return Yearly, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// ParseInvestmentType accepts a type label in any case, or crypto and
// real-estate.
func ParseInvestmentType(s string) (InvestmentType, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "crypto":
		return InvestmentCrypto, nil
	case "real-estate", "realestate":
		return InvestmentRealEstate, nil
	}
	for _, t := range investmentTypes {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown investment type %q", s)
}

// UnmarshalText rejects labels that are not part of the enumeration so a
// collection holding one fails to decode as a whole.
func (c *Category) UnmarshalText(b []byte) error {
	v := Category(b)
	if !v.IsValid() {
		return fmt.Errorf("unknown category %q", string(b))
	}
	*c = v
	return nil
}

func (p *Period) UnmarshalText(b []byte) error {
	v := Period(b)
	if !v.IsValid() {
		return fmt.Errorf("unknown period %q", string(b))
	}
	*p = v
	return nil
}

func (t *InvestmentType) UnmarshalText(b []byte) error {
	v := InvestmentType(b)
	if !v.IsValid() {
		return fmt.Errorf("unknown investment type %q", string(b))
	}
	*t = v
	return nil
}
