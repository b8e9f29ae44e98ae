package xslsxGenerator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Lombado/finlords-investor-portal/internal/model"
	"github.com/Lombado/finlords-investor-portal/utils"
	"github.com/xuri/excelize/v2"
)

const (
	holdingsSheet = "Holdings"
	investorSheet = "Investor"

	holdingsHeaderRow = 5
)

var holdingsColumns = []string{
	"Stock", "Shares", "Avg Buy Price", "Current Price",
	"Market Value", "Unrealized G/L", "Return %", "Signal",
}

type XSLSXGenerator struct{}

func New() *XSLSXGenerator {
	return &XSLSXGenerator{}
}

func (g *XSLSXGenerator) Generate(ctx context.Context, dashboard model.Dashboard) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XSLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if err = g.fillHoldingsSheet(f, dashboard); err != nil {
		slog.Error("got error while filling holdings sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if err = g.fillInvestorSheet(f, dashboard); err != nil {
		slog.Error("got error while filling investor sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XSLSXGenerator) titleStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
}

func (g *XSLSXGenerator) title(f *excelize.File, sheet, from, to, text, color string) error {
	if err := f.MergeCell(sheet, from, to); err != nil {
		return err
	}

	if err := f.SetCellStr(sheet, from, text); err != nil {
		return err
	}

	styleID, err := g.titleStyle(f, color)
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheet, from, from, styleID); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	return nil
}

func (g *XSLSXGenerator) fillHoldingsSheet(f *excelize.File, dashboard model.Dashboard) error {
	if _, err := f.NewSheet(holdingsSheet); err != nil {
		return err
	}

	val := dashboard.Valuation
	cur := dashboard.Currency

	err := g.title(f, holdingsSheet, "A1", "H1", fmt.Sprintf("NSE Equity Holdings (profit-lock trigger %d%%)", val.Threshold), "#cfe2f3")
	if err != nil {
		return err
	}

	_ = f.SetCellStr(holdingsSheet, "A2", fmt.Sprintf("Portfolio Value (%s)", cur))
	_ = f.SetCellValue(holdingsSheet, "B2", val.PortfolioValue.InexactFloat64())
	_ = f.SetCellStr(holdingsSheet, "A3", fmt.Sprintf("Unrealized P/L (%s)", cur))
	_ = f.SetCellValue(holdingsSheet, "B3", val.UnrealizedPL.InexactFloat64())

	for i, name := range holdingsColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, holdingsHeaderRow)
		if err != nil {
			return err
		}
		_ = f.SetCellStr(holdingsSheet, cell, name)
	}

	for i, h := range val.Holdings {
		row := holdingsHeaderRow + 1 + i
		_ = f.SetCellStr(holdingsSheet, fmt.Sprintf("A%d", row), h.Ticker)
		_ = f.SetCellInt(holdingsSheet, fmt.Sprintf("B%d", row), h.Shares)
		_ = f.SetCellValue(holdingsSheet, fmt.Sprintf("C%d", row), h.AvgBuyPrice.InexactFloat64())
		_ = f.SetCellValue(holdingsSheet, fmt.Sprintf("D%d", row), h.CurrentPrice.InexactFloat64())
		_ = f.SetCellValue(holdingsSheet, fmt.Sprintf("E%d", row), h.MarketValue.InexactFloat64())
		_ = f.SetCellValue(holdingsSheet, fmt.Sprintf("F%d", row), h.UnrealizedGainLoss.InexactFloat64())
		_ = f.SetCellValue(holdingsSheet, fmt.Sprintf("G%d", row), h.ReturnPercent.InexactFloat64())
		_ = f.SetCellStr(holdingsSheet, fmt.Sprintf("H%d", row), string(h.Signal))
	}

	return nil
}

func (g *XSLSXGenerator) fillInvestorSheet(f *excelize.File, dashboard model.Dashboard) error {
	if _, err := f.NewSheet(investorSheet); err != nil {
		return err
	}

	inv := dashboard.Investor
	liq := dashboard.Liquidity
	cur := dashboard.Currency

	if err := g.title(f, investorSheet, "A1", "B1", inv.Name, "#d9ead3"); err != nil {
		return err
	}

	rows := [][2]any{
		{fmt.Sprintf("Capital (%s)", cur), inv.Capital.InexactFloat64()},
		{fmt.Sprintf("Bank Cash (%s)", cur), inv.BankCash.InexactFloat64()},
		{fmt.Sprintf("MMF (%s)", cur), inv.MoneyMarketFund.InexactFloat64()},
		{"Cash + MMF %", liq.RatioPercent.InexactFloat64()},
		{"Policy minimum %", liq.MinPercent.InexactFloat64()},
		{"Policy met", liq.Compliant},
	}

	for i, r := range rows {
		_ = f.SetCellValue(investorSheet, fmt.Sprintf("A%d", i+2), r[0])
		_ = f.SetCellValue(investorSheet, fmt.Sprintf("B%d", i+2), r[1])
	}

	policyRow := len(rows) + 3
	if err := g.title(f, investorSheet, fmt.Sprintf("A%d", policyRow), fmt.Sprintf("B%d", policyRow), "Liquidity Policy", "#f9cb9c"); err != nil {
		return err
	}

	for i, point := range dashboard.PolicyPoints {
		_ = f.SetCellStr(investorSheet, fmt.Sprintf("A%d", policyRow+1+i), point)
	}

	return nil
}
