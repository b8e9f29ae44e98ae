package tgCallback

// Inline buttons uniques. The selected value travels as the button payload.
const (
	SelectInvestor  string = "investor"    // payload: investor name
	ChangeInvestor  string = "change_inv"  // back to the investor picker
	SetThreshold    string = "threshold"   // payload: percent
	InitSale        string = "sell"        // start the simulated sale flow
	SelectTicker    string = "sell_ticker" // payload: ticker
	SelectSellPct   string = "sell_pct"    // payload: percent
	ExecuteSale     string = "sell_exec"
	BackToDashboard string = "dashboard"
	ExportReport    string = "report"
)
