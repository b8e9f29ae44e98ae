package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Lombado/finlords-investor-portal/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	lockStyle = cellStyle.
			Bold(true).
			Foreground(lipgloss.Color("#EF4444"))

	okStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))

	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func money(d decimal.Decimal) string {
	return humanize.Comma(d.Round(0).IntPart())
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...)
}

func renderDashboard(d model.Dashboard) string {
	var sb strings.Builder
	cur := d.Currency

	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s • NSE Equity Holdings (profit-lock trigger %d%%)", d.Investor.Name, d.Valuation.Threshold)))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Portfolio Value (%s): %s\n", cur, money(d.PortfolioValue())))
	sb.WriteString(fmt.Sprintf("Unrealized P/L (%s):  %s\n", cur, money(d.UnrealizedPL())))
	sb.WriteString(fmt.Sprintf("Bank Cash (%s):       %s\n", cur, money(d.Investor.BankCash)))
	sb.WriteString(fmt.Sprintf("MMF (%s):             %s\n", cur, money(d.Investor.MoneyMarketFund)))
	sb.WriteString(renderLiquidity(d.Liquidity))
	sb.WriteString("\n\n")

	rows := make([][]string, 0, len(d.Valuation.Holdings))
	for _, h := range d.Valuation.Holdings {
		rows = append(rows, []string{
			h.Ticker,
			humanize.Comma(h.Shares),
			h.AvgBuyPrice.String(),
			h.CurrentPrice.String(),
			money(h.MarketValue),
			money(h.UnrealizedGainLoss),
			h.ReturnPercent.StringFixed(2),
			string(h.Signal),
		})
	}

	const signalCol = 7
	t := newTable("Stock", "Shares", "Avg Buy", "Price", "Value", "Gain/Loss", "Return %", "Signal").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == signalCol && row >= 0 && row < len(rows) && rows[row][col] == string(model.SignalLockProfit) {
				return lockStyle
			}
			return cellStyle
		})

	sb.WriteString(t.String())

	return sb.String()
}

func renderLiquidity(l model.Liquidity) string {
	line := fmt.Sprintf("Cash + MMF: %s%% of capital (policy %s%%)", l.RatioPercent.StringFixed(2), l.MinPercent.String())
	if l.Compliant {
		return okStyle.Render("✓ " + line)
	}
	return warnStyle.Render("! " + line)
}

func renderInvestors(dashboards []model.Dashboard, currency string) string {
	rows := make([][]string, 0, len(dashboards))
	for _, d := range dashboards {
		compliant := "no"
		if d.Liquidity.Compliant {
			compliant = "yes"
		}
		rows = append(rows, []string{
			d.Investor.Name,
			money(d.Investor.Capital),
			money(d.Investor.BankCash),
			money(d.Investor.MoneyMarketFund),
			d.Liquidity.RatioPercent.StringFixed(2),
			compliant,
		})
	}

	t := newTable("Investor", "Capital ("+currency+")", "Bank Cash", "MMF", "Cash + MMF %", "Policy met").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return t.String()
}

func renderSale(sale model.SimulatedSale, currency string) string {
	return fmt.Sprintf(
		"%s\nSold %s shares (%s) of %s at %s for %s %s. Funds transferred to bank.\nHoldings are unchanged: this is a simulation.",
		titleStyle.Render("Simulated sale"),
		humanize.Comma(sale.SharesSold),
		strconv.Itoa(sale.SellPercent)+"%",
		sale.Ticker,
		sale.Price.String(),
		currency,
		money(sale.Proceeds),
	)
}

func renderPolicy(points []string) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Liquidity Policy"))
	sb.WriteString("\n")
	for _, p := range points {
		sb.WriteString("• ")
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
