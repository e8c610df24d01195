package domain

// Result is the released IQ test outcome.
type Result struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}
