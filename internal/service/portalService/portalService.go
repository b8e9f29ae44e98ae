package portalService

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Lombado/finlords-investor-portal/config"
	"github.com/Lombado/finlords-investor-portal/internal/model"
	"github.com/Lombado/finlords-investor-portal/internal/service"
	"github.com/Lombado/finlords-investor-portal/internal/valuation"
	"github.com/Lombado/finlords-investor-portal/utils"
	"github.com/shopspring/decimal"
)

var ErrNotLoaded = errors.New("reference data is not loaded")

type Repository interface {
	ListInvestors(ctx context.Context) ([]model.Investor, error)
	ListHoldings(ctx context.Context) ([]model.Holding, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, dashboard model.Dashboard) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
	DeleteOldFiles(ctx context.Context) error
}

type Engine interface {
	EvaluateHoldings(holdings []model.Holding, thresholdPercent int) (model.Valuation, error)
	SimulateSale(holdings []model.Holding, ticker string, sellPercent int) (model.SimulatedSale, error)
}

type PortalService struct {
	cfg             *config.Config
	repo            Repository
	engine          Engine
	reportGenerator ReportGenerator
	cloudStorage    CloudStorage // nil when reports are only sent inline
	snapshot        atomic.Pointer[model.ReferenceData]
	now             func() time.Time
}

func New(cfg *config.Config, repo Repository, engine Engine, reportGenerator ReportGenerator, cloudStorage CloudStorage) *PortalService {
	return &PortalService{
		cfg:             cfg,
		repo:            repo,
		engine:          engine,
		reportGenerator: reportGenerator,
		cloudStorage:    cloudStorage,
		now:             time.Now,
	}
}

// NewEngine builds the valuation engine with the bounds from the config.
func NewEngine(cfg *config.Config) *valuation.Engine {
	return valuation.New(
		valuation.Bounds{Min: cfg.Portal.ThresholdMin, Max: cfg.Portal.ThresholdMax, Step: 1},
		valuation.Bounds{Min: cfg.Portal.SellPercentMin, Max: cfg.Portal.SellPercentMax, Step: cfg.Portal.SellPercentStep},
	)
}

// ReloadReferenceData loads a new snapshot and swaps it in. On failure the
// previous snapshot stays in place.
func (s *PortalService) ReloadReferenceData(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortalService.ReloadReferenceData"

	slog.Debug("ReloadReferenceData start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("ReloadReferenceData finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	investors, err := s.repo.ListInvestors(ctx)
	if err != nil {
		slog.Error("got error from repo.ListInvestors", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return fmt.Errorf("list investors: %w", err)
	}

	holdings, err := s.repo.ListHoldings(ctx)
	if err != nil {
		slog.Error("got error from repo.ListHoldings", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return fmt.Errorf("list holdings: %w", err)
	}

	data := &model.ReferenceData{Investors: investors, Holdings: holdings}
	if err = validateReferenceData(data); err != nil {
		slog.Error("reference data rejected", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	s.snapshot.Store(data)

	slog.Info("reference data loaded", slog.String("rqID", rqID), slog.Int("investors", len(investors)), slog.Int("holdings", len(holdings)))

	return nil
}

func validateReferenceData(data *model.ReferenceData) error {
	names := make(map[string]struct{}, len(data.Investors))
	for _, inv := range data.Investors {
		if _, ok := names[inv.Name]; ok {
			return service.InvalidArgument("investor", inv.Name)
		}
		names[inv.Name] = struct{}{}
	}

	tickers := make(map[string]struct{}, len(data.Holdings))
	for _, h := range data.Holdings {
		if _, ok := tickers[h.Ticker]; ok {
			return service.InvalidArgument("ticker", h.Ticker)
		}
		tickers[h.Ticker] = struct{}{}
	}

	return nil
}

func (s *PortalService) referenceData() (*model.ReferenceData, error) {
	data := s.snapshot.Load()
	if data == nil {
		return nil, ErrNotLoaded
	}
	return data, nil
}

func (s *PortalService) ListInvestors(ctx context.Context) ([]model.Investor, error) {
	data, err := s.referenceData()
	if err != nil {
		return nil, err
	}
	return append([]model.Investor(nil), data.Investors...), nil
}

func (s *PortalService) GetInvestor(ctx context.Context, name string) (model.Investor, error) {
	data, err := s.referenceData()
	if err != nil {
		return model.Investor{}, err
	}

	investor, err := findInvestor(data, name)
	if err != nil {
		slog.Warn("investor not found", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("investor", name))
		return model.Investor{}, err
	}

	return investor, nil
}

func findInvestor(data *model.ReferenceData, name string) (model.Investor, error) {
	for _, inv := range data.Investors {
		if inv.Name == name {
			return inv, nil
		}
	}
	return model.Investor{}, service.NotFound("investor", name)
}

func (s *PortalService) ListTickers(ctx context.Context) ([]string, error) {
	data, err := s.referenceData()
	if err != nil {
		return nil, err
	}

	tickers := make([]string, 0, len(data.Holdings))
	for _, h := range data.Holdings {
		tickers = append(tickers, h.Ticker)
	}
	return tickers, nil
}

func (s *PortalService) GetDashboard(ctx context.Context, investorName string, threshold int) (model.Dashboard, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortalService.GetDashboard"

	slog.Debug("GetDashboard start", slog.String("rqID", rqID), slog.String("op", op), slog.String("investor", investorName), slog.Int("threshold", threshold))
	defer func() {
		slog.Debug("GetDashboard finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("investor", investorName), slog.Int("threshold", threshold))
	}()

	data, err := s.referenceData()
	if err != nil {
		return model.Dashboard{}, err
	}

	investor, err := findInvestor(data, investorName)
	if err != nil {
		slog.Warn("investor not found", slog.String("rqID", rqID), slog.String("op", op), slog.String("investor", investorName))
		return model.Dashboard{}, err
	}

	val, err := s.engine.EvaluateHoldings(data.Holdings, threshold)
	if err != nil {
		slog.Error("got error from engine.EvaluateHoldings", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Dashboard{}, err
	}

	liquidity, err := valuation.InvestorLiquidity(investor, decimal.NewFromInt(int64(s.cfg.Portal.LiquidityMinPercent)))
	if err != nil {
		slog.Error("got error from valuation.InvestorLiquidity", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Dashboard{}, err
	}

	return model.Dashboard{
		Investor:     investor,
		Valuation:    val,
		Liquidity:    liquidity,
		Currency:     s.cfg.Portal.Currency,
		PolicyPoints: append([]string(nil), s.cfg.Portal.PolicyPoints...),
	}, nil
}

func (s *PortalService) SimulateSale(ctx context.Context, ticker string, sellPercent int) (model.SimulatedSale, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortalService.SimulateSale"

	slog.Debug("SimulateSale start", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", ticker), slog.Int("sellPercent", sellPercent))

	data, err := s.referenceData()
	if err != nil {
		return model.SimulatedSale{}, err
	}

	sale, err := s.engine.SimulateSale(data.Holdings, ticker, sellPercent)
	if err != nil {
		slog.Warn("got error from engine.SimulateSale", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.SimulatedSale{}, err
	}

	slog.Info(
		"simulated sale",
		slog.String("rqID", rqID),
		slog.String("ticker", sale.Ticker),
		slog.Int64("sharesSold", sale.SharesSold),
		slog.String("proceeds", sale.Proceeds.String()),
	)

	return sale, nil
}

// ExportReport renders the dashboard into a file. Files above the telegram
// limit are uploaded to cloud storage and only the link is returned.
func (s *PortalService) ExportReport(ctx context.Context, investorName string, threshold int) (model.ReportFile, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortalService.ExportReport"

	slog.Debug("ExportReport start", slog.String("rqID", rqID), slog.String("op", op), slog.String("investor", investorName))
	defer func() {
		slog.Debug("ExportReport finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("investor", investorName))
	}()

	dashboard, err := s.GetDashboard(ctx, investorName, threshold)
	if err != nil {
		return model.ReportFile{}, err
	}

	fileBytes, ext, err := s.reportGenerator.Generate(ctx, dashboard)
	if err != nil {
		slog.Error("got error from reportGenerator.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.ReportFile{}, err
	}

	report := model.ReportFile{
		FileName: fmt.Sprintf("%s_%s_%s%s", s.cfg.Portal.ReportFileName, investorName, s.now().Format("20060102_150405"), ext),
		Content:  fileBytes,
	}

	if len(fileBytes) <= s.cfg.Telegram.FileLimitInBytes {
		return report, nil
	}

	if s.cloudStorage == nil {
		return model.ReportFile{}, fmt.Errorf("report of %d bytes exceeds the %d bytes limit and no cloud storage is configured", len(fileBytes), s.cfg.Telegram.FileLimitInBytes)
	}

	link, err := s.cloudStorage.UploadFile(ctx, bytes.NewReader(fileBytes), report.FileName)
	if err != nil {
		slog.Error("got error from cloudStorage.UploadFile", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.ReportFile{}, err
	}

	report.Content = nil
	report.Link = link

	return report, nil
}

func (s *PortalService) DeleteOldReports(ctx context.Context) error {
	if s.cloudStorage == nil {
		return nil
	}
	return s.cloudStorage.DeleteOldFiles(ctx)
}

func (s *PortalService) LiquidityPolicy() []string {
	return append([]string(nil), s.cfg.Portal.PolicyPoints...)
}
