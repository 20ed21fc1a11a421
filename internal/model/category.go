package model

// Identifier conventions shared by both record kinds. Assigned ids start at
// zero, so unsaved records carry UnassignedID until the repository allocates
// one inside the insert transaction.
const UnassignedID = -1

// AllCategoryID marks the synthetic "no filter" category. It is never written
// to the store.
const AllCategoryID = -1

// AllCategoryName is the fixed label of the filter sentinel.
const AllCategoryName = "All"

// Category groups tasks by area (work, home, study, etc.). Tasks reference a
// category loosely by name, not by id.
type Category struct {
	ID   int    `gorm:"primaryKey;autoIncrement:false"`
	Name string `gorm:"uniqueIndex"`
}

// AllCategory returns the non-persisted pseudo-category that stands for
// "every category" in list filtering.
func AllCategory() Category {
	return Category{ID: AllCategoryID, Name: AllCategoryName}
}

// IsAll reports whether c is the filter sentinel.
func (c Category) IsAll() bool {
	return c.ID == AllCategoryID
}
