package types

// Customer is the contact snapshot frozen onto an order at checkout.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Nutrition carries the per-item nutrition facts, stored as jsonb.
type Nutrition struct {
	Calories float64 `json:"calories,omitempty"`
	Proteins float64 `json:"proteins,omitempty"`
	Fats     float64 `json:"fats,omitempty"`
	Carbs    float64 `json:"carbs,omitempty"`
	Sugar    float64 `json:"sugar,omitempty"`
}
