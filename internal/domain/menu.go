package domain

// MenuCategory groups menu items. Names are kept in both Thai and English,
// as the kiosk renders either depending on its language setting.
type MenuCategory struct {
	ID     int    `json:"id"`
	NameTH string `json:"nameTH"`
	NameEN string `json:"nameEN"`
}

// OptionChoice is one selectable value of an order option.
type OptionChoice struct {
	NameTH string `json:"nameTH"`
	NameEN string `json:"nameEN"`
}

// OrderOption is a configurable aspect of a menu item, e.g. noodle kind or
// spice level. Type is "single" or "multiple".
type OrderOption struct {
	ID      int            `json:"id"`
	NameTH  string         `json:"nameTH"`
	NameEN  string         `json:"nameEN"`
	Type    string         `json:"type"`
	Choices []OptionChoice `json:"choices"`
}

type MenuItem struct {
	ID             int           `json:"id"`
	NameTH         string        `json:"nameTH"`
	NameEN         string        `json:"nameEN"`
	Price          float64       `json:"price"`
	Image          *string       `json:"image"`
	MenuCategoryID *int          `json:"menuCategoryId"`
	MenuCategory   *MenuCategory `json:"menuCategory,omitempty"`
	OrderOptions   []OrderOption `json:"orderOptions"`
}
