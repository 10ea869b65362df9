package model

type Tag struct {
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

type ShopItem struct {
	Name        string `json:"name" yaml:"name"`
	Cost        int    `json:"cost" yaml:"cost"`
	Description string `json:"description" yaml:"description"`
}

const DefaultTheme = "light"

func DefaultTags() []Tag {
	return []Tag{
		{Name: "Work", Color: "RED"},
		{Name: "Study", Color: "BLUE"},
		{Name: "Personal", Color: "GREEN"},
	}
}

// DefaultCurrentTag is the seeded tag selected on first start.
const DefaultCurrentTag = "Work"

func DefaultShopItems() []ShopItem {
	return []ShopItem{
		{Name: "1 hour of gaming", Cost: 100, Description: "One hour of PC games"},
		{Name: "Coffee break", Cost: 50, Description: "15 minute break with a coffee"},
		{Name: "Movie night", Cost: 200, Description: "An evening watching a film"},
	}
}
