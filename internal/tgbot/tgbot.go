package tgbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Lombado/finlords-investor-portal/config"
	"github.com/Lombado/finlords-investor-portal/data/session"
	"github.com/Lombado/finlords-investor-portal/internal/converter/telebotConverter"
	"github.com/Lombado/finlords-investor-portal/internal/model"
	"github.com/Lombado/finlords-investor-portal/internal/model/tg/tgCallback"
	"github.com/Lombado/finlords-investor-portal/internal/transport/telegram"
	customMW "github.com/Lombado/finlords-investor-portal/internal/transport/telegram/middleware"
	"github.com/Lombado/finlords-investor-portal/utils"
	tele "gopkg.in/telebot.v4"
	"gopkg.in/telebot.v4/middleware"
)

type Session interface {
	GetSession(ctx context.Context, key string) (model.Session, error)
	SetSession(ctx context.Context, key string, session model.Session) error
}

type TGBot struct {
	bot     *tele.Bot
	ctrl    *telegram.Controller
	session Session
}

func New(cfg *config.Config, ctrl *telegram.Controller, session Session) (*TGBot, error) {
	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.UpdTimeout},
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		slog.Error("error while tele.NewBot", slog.String("err", err.Error()))
		return nil, fmt.Errorf("tele.NewBot: %w", err)
	}

	return &TGBot{bot: b, ctrl: ctrl, session: session}, nil
}

func (b *TGBot) Start() {
	b.bot.Use(middleware.Recover(), customMW.Logger())

	b.setupRoutes()

	go b.bot.Start()
	slog.Info("tgbot started!")
}

func (b *TGBot) Stop() {
	slog.Info("start stopping tgbot")
	b.bot.Stop()
	slog.Info("tgbot stopped")
}

func (b *TGBot) setupRoutes() {
	b.bot.Handle(tele.OnText, func(c tele.Context) error {
		ctx := utils.CreateCtxWithRqID(c)
		rqID := utils.GetRequestIDFromCtx(ctx)

		chatSession, err := b.session.GetSession(ctx, strconv.FormatInt(c.Chat().ID, 10))
		if err != nil && !errors.Is(err, session.ErrNotFound) {
			slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
			return c.Send(telebotConverter.InternalErrMsg)
		}

		if err == nil {
			c.Set("session", chatSession)
		}

		return b.ctrl.OnText(c)
	})

	b.bot.Handle("/start", b.ctrl.Start)
	b.bot.Handle("/dashboard", b.ctrl.Dashboard)
	b.bot.Handle("/threshold", b.ctrl.SetThreshold)
	b.bot.Handle("/sell", b.ctrl.InitSale)
	b.bot.Handle("/report", b.ctrl.Report)
	b.bot.Handle("/policy", b.ctrl.Policy)

	b.bot.Handle(&tele.Btn{Unique: tgCallback.SelectInvestor}, b.ctrl.SelectInvestor)
	b.bot.Handle(&tele.Btn{Unique: tgCallback.ChangeInvestor}, b.ctrl.ChangeInvestor)
	b.bot.Handle(&tele.Btn{Unique: tgCallback.SetThreshold}, b.ctrl.SetThreshold)
	b.bot.Handle(&tele.Btn{Unique: tgCallback.BackToDashboard}, b.ctrl.Dashboard)
	b.bot.Handle(&tele.Btn{Unique: tgCallback.InitSale}, b.ctrl.InitSale)
	b.bot.Handle(&tele.Btn{Unique: tgCallback.SelectTicker}, b.ctrl.SelectTicker)
	b.bot.Handle(&tele.Btn{Unique: tgCallback.SelectSellPct}, b.ctrl.SelectSellPercent)
	b.bot.Handle(&tele.Btn{Unique: tgCallback.ExecuteSale}, b.ctrl.ExecuteSale)
	b.bot.Handle(&tele.Btn{Unique: tgCallback.ExportReport}, b.ctrl.Report)
}
