// Package models holds the gorm models of the back office.
package models

// All lists every table model in creation order.
func All() []any {
	return []any{
		&Category{},
		&Brand{},
		&Property{},
		&Product{},
		&ProductSize{},
		&ProductProperty{},
		&ServiceCategory{},
		&Service{},
		&Course{},
		&Event{},
		&User{},
		&Profile{},
		&Order{},
		&OrderItem{},
	}
}
