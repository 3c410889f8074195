package transport

// StatResponse is a headline figure with its parsed magnitude.
type StatResponse struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Value     string  `json:"value"`
	Prefix    string  `json:"prefix"`
	Magnitude float64 `json:"magnitude"`
	Suffix    string  `json:"suffix"`
	Decimals  int     `json:"decimals"`
}

// CountUpQuery configures one count-up stream.
type CountUpQuery struct {
	Duration string   `form:"duration"`
	Decimals *int     `form:"decimals" validate:"omitempty,min=0,max=6"`
	Start    *float64 `form:"start"`
}
