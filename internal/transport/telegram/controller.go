package telegram

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/Lombado/finlords-investor-portal/config"
	"github.com/Lombado/finlords-investor-portal/data/session"
	"github.com/Lombado/finlords-investor-portal/internal/converter/telebotConverter"
	"github.com/Lombado/finlords-investor-portal/internal/model"
	"github.com/Lombado/finlords-investor-portal/internal/service"
	"github.com/Lombado/finlords-investor-portal/utils"
	tele "gopkg.in/telebot.v4"
)

type PortalService interface {
	ListInvestors(ctx context.Context) ([]model.Investor, error)
	ListTickers(ctx context.Context) ([]string, error)
	GetDashboard(ctx context.Context, investorName string, threshold int) (model.Dashboard, error)
	SimulateSale(ctx context.Context, ticker string, sellPercent int) (model.SimulatedSale, error)
	ExportReport(ctx context.Context, investorName string, threshold int) (model.ReportFile, error)
	LiquidityPolicy() []string
}

type Session interface {
	GetSession(ctx context.Context, key string) (model.Session, error)
	SetSession(ctx context.Context, key string, session model.Session) error
}

// Controller only keeps the chat's selections in the session and hands every
// computation to the portal service.
type Controller struct {
	portalService PortalService
	session       Session
	portal        config.Portal
}

func NewController(cfg *config.Config, portalService PortalService, session Session) *Controller {
	return &Controller{
		portalService: portalService,
		session:       session,
		portal:        cfg.Portal,
	}
}

func chatKey(c tele.Context) string {
	return strconv.FormatInt(c.Chat().ID, 10)
}

func (ctrl *Controller) defaultSession() model.Session {
	return model.Session{
		Threshold:   ctrl.portal.DefaultThreshold,
		SellPercent: ctrl.portal.DefaultSellPercent,
	}
}

func (ctrl *Controller) getSession(ctx context.Context, c tele.Context) (model.Session, error) {
	chatSession, ok := c.Get("session").(model.Session)
	if ok {
		return chatSession, nil
	}

	chatSession, err := ctrl.session.GetSession(ctx, chatKey(c))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return ctrl.defaultSession(), nil
		}
		slog.Error("got error from session.GetSession", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
		return model.Session{}, err
	}

	if chatSession.Threshold == 0 {
		chatSession.Threshold = ctrl.portal.DefaultThreshold
	}
	return chatSession, nil
}

func (ctrl *Controller) saveSession(ctx context.Context, c tele.Context, chatSession model.Session) error {
	err := ctrl.session.SetSession(ctx, chatKey(c), chatSession)
	if err != nil {
		slog.Error("got error from session.SetSession", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
		return err
	}
	c.Set("session", chatSession)
	return nil
}

// reply edits the message behind a pressed button, or sends a new one for commands.
func reply(c tele.Context, text string, opts ...any) error {
	opts = append(opts, tele.ModeHTML)
	if c.Callback() != nil {
		_ = c.Respond()
		return c.Edit(text, opts...)
	}
	return c.Send(text, opts...)
}

func (ctrl *Controller) Start(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	if err := ctrl.saveSession(ctx, c, ctrl.defaultSession()); err != nil {
		return c.Send(telebotConverter.InternalErrMsg)
	}

	return ctrl.showInvestorPicker(ctx, c)
}

func (ctrl *Controller) ChangeInvestor(c tele.Context) error {
	return ctrl.showInvestorPicker(utils.CreateCtxWithRqID(c), c)
}

func (ctrl *Controller) showInvestorPicker(ctx context.Context, c tele.Context) error {
	investors, err := ctrl.portalService.ListInvestors(ctx)
	if err != nil {
		slog.Error("got error from portalService.ListInvestors", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
		return reply(c, telebotConverter.InternalErrMsg)
	}

	text, markup := telebotConverter.InvestorPickerResponse(investors)
	return reply(c, text, markup)
}

func (ctrl *Controller) SelectInvestor(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return reply(c, telebotConverter.InternalErrMsg)
	}

	chatSession.InvestorName = c.Callback().Data
	chatSession.Action = model.DefaultAction

	return ctrl.showDashboard(ctx, c, chatSession)
}

func (ctrl *Controller) Dashboard(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return reply(c, telebotConverter.InternalErrMsg)
	}

	if chatSession.InvestorName == "" {
		return ctrl.showInvestorPicker(ctx, c)
	}

	chatSession.Action = model.DefaultAction

	return ctrl.showDashboard(ctx, c, chatSession)
}

// SetThreshold handles both "/threshold N" and the threshold buttons.
func (ctrl *Controller) SetThreshold(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	raw := c.Data()
	if c.Callback() == nil {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("usage: /threshold " + strconv.Itoa(ctrl.portal.DefaultThreshold))
		}
		raw = args[0]
	}

	threshold, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if err != nil {
		return reply(c, "threshold must be a whole number of percent")
	}

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return reply(c, telebotConverter.InternalErrMsg)
	}

	if chatSession.InvestorName == "" {
		return ctrl.showInvestorPicker(ctx, c)
	}

	// the session keeps the old threshold when the new one is rejected
	chatSession.Threshold = threshold

	return ctrl.showDashboard(ctx, c, chatSession)
}

func (ctrl *Controller) showDashboard(ctx context.Context, c tele.Context, chatSession model.Session) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	dashboard, err := ctrl.portalService.GetDashboard(ctx, chatSession.InvestorName, chatSession.Threshold)
	if err != nil {
		slog.Warn("got error from portalService.GetDashboard", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return reply(c, telebotConverter.ErrorResponse(err))
	}

	if err = ctrl.saveSession(ctx, c, chatSession); err != nil {
		return reply(c, telebotConverter.InternalErrMsg)
	}

	text, markup := telebotConverter.DashboardResponse(dashboard, ctrl.portal.ThresholdOptions())
	return reply(c, text, markup)
}

func (ctrl *Controller) InitSale(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return reply(c, telebotConverter.InternalErrMsg)
	}

	tickers, err := ctrl.portalService.ListTickers(ctx)
	if err != nil {
		slog.Error("got error from portalService.ListTickers", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
		return reply(c, telebotConverter.InternalErrMsg)
	}

	chatSession.Action = model.ExpectingTicker
	if err = ctrl.saveSession(ctx, c, chatSession); err != nil {
		return reply(c, telebotConverter.InternalErrMsg)
	}

	text, markup := telebotConverter.TickerPickerResponse(tickers)
	return reply(c, text, markup)
}

func (ctrl *Controller) SelectTicker(c tele.Context) error {
	return ctrl.processTicker(utils.CreateCtxWithRqID(c), c, c.Callback().Data)
}

func (ctrl *Controller) processTicker(ctx context.Context, c tele.Context, ticker string) error {
	tickers, err := ctrl.portalService.ListTickers(ctx)
	if err != nil {
		slog.Error("got error from portalService.ListTickers", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
		return reply(c, telebotConverter.InternalErrMsg)
	}
	if !slices.Contains(tickers, ticker) {
		return reply(c, telebotConverter.ErrorResponse(service.NotFound("ticker", ticker)))
	}

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return reply(c, telebotConverter.InternalErrMsg)
	}

	chatSession.Ticker = ticker
	chatSession.Action = model.ExpectingSellPercent
	if err = ctrl.saveSession(ctx, c, chatSession); err != nil {
		return reply(c, telebotConverter.InternalErrMsg)
	}

	text, markup := telebotConverter.SellPercentPickerResponse(ticker, ctrl.portal.SellPercentOptions())
	return reply(c, text, markup)
}

func (ctrl *Controller) SelectSellPercent(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	sellPercent, err := strconv.Atoi(c.Callback().Data)
	if err != nil {
		return reply(c, telebotConverter.InternalErrMsg)
	}

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return reply(c, telebotConverter.InternalErrMsg)
	}

	chatSession.SellPercent = sellPercent
	chatSession.Action = model.ExpectingSaleConfirmation
	if err = ctrl.saveSession(ctx, c, chatSession); err != nil {
		return reply(c, telebotConverter.InternalErrMsg)
	}

	text, markup := telebotConverter.SaleConfirmationResponse(chatSession.Ticker, sellPercent)
	return reply(c, text, markup)
}

// ExecuteSale previews the sale. The ledger is not changed, so the same
// shares can be "sold" again.
func (ctrl *Controller) ExecuteSale(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return reply(c, telebotConverter.InternalErrMsg)
	}

	if chatSession.Ticker == "" {
		return ctrl.InitSale(c)
	}

	sale, err := ctrl.portalService.SimulateSale(ctx, chatSession.Ticker, chatSession.SellPercent)
	if err != nil {
		slog.Warn("got error from portalService.SimulateSale", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return reply(c, telebotConverter.ErrorResponse(err))
	}

	chatSession.Action = model.DefaultAction
	if err = ctrl.saveSession(ctx, c, chatSession); err != nil {
		return reply(c, telebotConverter.InternalErrMsg)
	}

	text, markup := telebotConverter.SaleResultResponse(sale, ctrl.portal.Currency)
	return reply(c, text, markup)
}

func (ctrl *Controller) Report(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return reply(c, telebotConverter.InternalErrMsg)
	}

	if chatSession.InvestorName == "" {
		return ctrl.showInvestorPicker(ctx, c)
	}

	if c.Callback() != nil {
		_ = c.Respond()
	}

	report, err := ctrl.portalService.ExportReport(ctx, chatSession.InvestorName, chatSession.Threshold)
	if err != nil {
		slog.Error("got error from portalService.ExportReport", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(telebotConverter.ErrorResponse(err))
	}

	if report.Link != "" {
		return c.Send(telebotConverter.ReportLinkResponse(report))
	}

	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(report.Content)),
		FileName: report.FileName,
	}
	return c.Send(doc)
}

func (ctrl *Controller) Policy(c tele.Context) error {
	return c.Send(telebotConverter.PolicyResponse(ctrl.portalService.LiquidityPolicy()), tele.ModeHTML)
}

// OnText accepts a typed ticker while the sale flow waits for one.
func (ctrl *Controller) OnText(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(telebotConverter.InternalErrMsg)
	}

	switch chatSession.Action {
	case model.ExpectingTicker:
		return ctrl.processTicker(ctx, c, strings.ToUpper(strings.TrimSpace(c.Text())))
	default:
		slog.Debug("unexpected text", slog.String("rqID", rqID), slog.Any("action", chatSession.Action))
		return c.Send("use /start, /dashboard, /threshold, /sell, /report or /policy")
	}
}
