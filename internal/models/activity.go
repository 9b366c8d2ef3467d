package models

type Category string

const (
	CategoryDaily      Category = "DAILY"
	CategoryEngagement Category = "ENGAGEMENT"
	CategoryVolunteer  Category = "VOLUNTEER"
	CategorySupport    Category = "SUPPORT"
)

// Categories lists every activity category in display order.
var Categories = []Category{CategoryDaily, CategoryEngagement, CategoryVolunteer, CategorySupport}

func (c Category) Valid() bool {
	switch c {
	case CategoryDaily, CategoryEngagement, CategoryVolunteer, CategorySupport:
		return true
	}
	return false
}

// ActivityDefinition is a static catalog entry. The catalog is loaded once at
// startup and never mutated.
type ActivityDefinition struct {
	ID       string   `yaml:"id" json:"id"`
	Title    string   `yaml:"title" json:"title"`
	Category Category `yaml:"category" json:"category"`
	Points   int      `yaml:"points" json:"points"`
}
