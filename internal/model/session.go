package model

type action int

const (
	DefaultAction action = iota
	ExpectingTicker
	ExpectingSellPercent
	ExpectingSaleConfirmation
)

// Session is the per-chat selection state. Nothing else about a user is kept.
type Session struct {
	Action       action `json:"action"`
	InvestorName string `json:"investor_name"`
	Threshold    int    `json:"threshold"`
	Ticker       string `json:"ticker"`
	SellPercent  int    `json:"sell_percent"`
}
