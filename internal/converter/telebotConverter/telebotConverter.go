package telebotConverter

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/Lombado/finlords-investor-portal/internal/model"
	"github.com/Lombado/finlords-investor-portal/internal/model/tg/tgCallback"
	"github.com/Lombado/finlords-investor-portal/internal/service"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"
)

const buttonsPerRow = 5

// Amount formats money without decimals and with thousands separators.
func Amount(d decimal.Decimal) string {
	return humanize.Comma(d.Round(0).IntPart())
}

func Percent(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func InvestorPickerResponse(investors []model.Investor) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}

	btns := make([]tele.Btn, 0, len(investors))
	for _, inv := range investors {
		btns = append(btns, markup.Data(inv.Name, tgCallback.SelectInvestor, inv.Name))
	}
	markup.Inline(markup.Split(buttonsPerRow, btns)...)

	return "📊 Finlords Investor Portal (Simulation)\nNSE Equity Strategy • Read-only Investor View\n\nSelect investor:", markup
}

func DashboardResponse(d model.Dashboard, thresholdOptions []int) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	var sb strings.Builder
	cur := d.Currency
	val := d.Valuation

	sb.WriteString(fmt.Sprintf("👤 <b>%s</b>\n\n", html.EscapeString(d.Investor.Name)))
	sb.WriteString(fmt.Sprintf("💼 Portfolio Value (%s): <b>%s</b>\n", cur, Amount(val.PortfolioValue)))
	sb.WriteString(fmt.Sprintf("📈 Unrealized P/L (%s): <b>%s</b>\n", cur, Amount(val.UnrealizedPL)))
	sb.WriteString(fmt.Sprintf("🏦 Bank Cash (%s): %s\n", cur, Amount(d.Investor.BankCash)))
	sb.WriteString(fmt.Sprintf("💵 MMF (%s): %s\n", cur, Amount(d.Investor.MoneyMarketFund)))

	mark := "✅"
	if !d.Liquidity.Compliant {
		mark = "⚠️"
	}
	sb.WriteString(fmt.Sprintf("%s Cash + MMF: %s%% of capital (policy %s%%)\n\n", mark, Percent(d.Liquidity.RatioPercent), d.Liquidity.MinPercent.String()))

	sb.WriteString("📈 NSE Equity Holdings\n<pre>")
	sb.WriteString(fmt.Sprintf("%-5s %6s %6s %6s %9s %8s %7s\n", "Stock", "Shares", "Avg", "Price", "Value", "G/L", "Ret%"))
	for _, h := range val.Holdings {
		sb.WriteString(fmt.Sprintf("%-5s %6d %6s %6s %9s %8s %7s\n",
			html.EscapeString(h.Ticker),
			h.Shares,
			h.AvgBuyPrice.String(),
			h.CurrentPrice.String(),
			Amount(h.MarketValue),
			Amount(h.UnrealizedGainLoss),
			Percent(h.ReturnPercent),
		))
	}
	sb.WriteString("</pre>\n")

	sb.WriteString(fmt.Sprintf("⚡ Tactical Profit Lock: trigger %d%%\n", val.Threshold))
	for _, h := range val.Holdings {
		icon := "⏸"
		if h.Signal == model.SignalLockProfit {
			icon = "🔔"
		}
		sb.WriteString(fmt.Sprintf("%s %s %s%% → %s\n", icon, html.EscapeString(h.Ticker), Percent(h.ReturnPercent), h.Signal))
	}

	thresholdBtns := make([]tele.Btn, 0, len(thresholdOptions))
	for _, v := range thresholdOptions {
		label := strconv.Itoa(v) + "%"
		if v == val.Threshold {
			label = "• " + label
		}
		thresholdBtns = append(thresholdBtns, markup.Data(label, tgCallback.SetThreshold, strconv.Itoa(v)))
	}

	rows := markup.Split(buttonsPerRow, thresholdBtns)
	rows = append(rows,
		markup.Row(
			markup.Data("💰 Simulate sale", tgCallback.InitSale),
			markup.Data("📄 Report", tgCallback.ExportReport),
		),
		markup.Row(markup.Data("👥 Change investor", tgCallback.ChangeInvestor)),
	)
	markup.Inline(rows...)

	return sb.String(), markup
}

func TickerPickerResponse(tickers []string) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}

	btns := make([]tele.Btn, 0, len(tickers))
	for _, t := range tickers {
		btns = append(btns, markup.Data(t, tgCallback.SelectTicker, t))
	}

	rows := markup.Split(buttonsPerRow, btns)
	rows = append(rows, markup.Row(markup.Data("⬅️ Back", tgCallback.BackToDashboard)))
	markup.Inline(rows...)

	return "💰 Simulate Profit Taking\n\nSelect stock (or type the ticker):", markup
}

func SellPercentPickerResponse(ticker string, options []int) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}

	btns := make([]tele.Btn, 0, len(options))
	for _, v := range options {
		btns = append(btns, markup.Data(strconv.Itoa(v)+"%", tgCallback.SelectSellPct, strconv.Itoa(v)))
	}

	rows := markup.Split(buttonsPerRow, btns)
	rows = append(rows, markup.Row(markup.Data("⬅️ Back", tgCallback.InitSale)))
	markup.Inline(rows...)

	return fmt.Sprintf("💰 %s\n\nSell %% of position:", html.EscapeString(ticker)), markup
}

func SaleConfirmationResponse(ticker string, sellPercent int) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("Execute Simulated Sale", tgCallback.ExecuteSale)),
		markup.Row(markup.Data("⬅️ Back", tgCallback.SelectTicker, ticker)),
	)

	return fmt.Sprintf("💰 Sell %d%% of %s?", sellPercent, html.EscapeString(ticker)), markup
}

// SaleResultResponse keeps the wording of a real execution although nothing
// is executed and the position keeps its shares.
func SaleResultResponse(sale model.SimulatedSale, currency string) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("⬅️ Dashboard", tgCallback.BackToDashboard)))

	return fmt.Sprintf(
		"✅ Sold %d shares of %s for %s %s. Funds transferred to bank.",
		sale.SharesSold, html.EscapeString(sale.Ticker), currency, Amount(sale.Proceeds),
	), markup
}

func PolicyResponse(points []string) string {
	var sb strings.Builder
	sb.WriteString("🏦 Liquidity Policy\n")
	for _, p := range points {
		sb.WriteString("• ")
		sb.WriteString(html.EscapeString(p))
		sb.WriteString("\n")
	}
	sb.WriteString("\n© Finlords Limited • Simulation Environment")
	return sb.String()
}

func ReportLinkResponse(report model.ReportFile) string {
	return fmt.Sprintf("📄 The report is too large to send here, download it: %s", report.Link)
}

// ErrorResponse turns a structured failure into a chat message.
func ErrorResponse(err error) string {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		return InternalErrMsg
	}

	// values may come from user input and the message is sent in HTML mode
	field := html.EscapeString(svcErr.Field)
	value := html.EscapeString(fmt.Sprint(svcErr.Value))

	switch {
	case errors.Is(err, service.ErrNotFound):
		return fmt.Sprintf("Could not find %s \"%s\"", field, value)
	case errors.Is(err, service.ErrInvalidArgument):
		return fmt.Sprintf("Invalid %s: %s", field, value)
	case errors.Is(err, service.ErrDivisionByZero):
		return fmt.Sprintf("Can not compute %s for %s: value is zero", field, value)
	default:
		return InternalErrMsg
	}
}

const InternalErrMsg = "something went wrong..."
