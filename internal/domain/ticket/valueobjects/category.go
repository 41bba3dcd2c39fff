package valueobjects

import "fmt"

type Category string

const (
	CategoryBooking   Category = "booking"
	CategoryBilling   Category = "billing"
	CategoryTechnical Category = "technical"
	CategoryAccount   Category = "account"
	CategoryOther     Category = "other"
)

var validCategories = map[Category]bool{
	CategoryBooking:   true,
	CategoryBilling:   true,
	CategoryTechnical: true,
	CategoryAccount:   true,
	CategoryOther:     true,
}

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	return validCategories[c]
}

func (c Category) IsBilling() bool {
	return c == CategoryBilling
}

func NewCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid category: %s", s)
	}
	return c, nil
}
