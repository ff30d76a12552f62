// Package app composes the application with fx: config, logging,
// profile lock, the in-memory dataset, the auth machine, the delivery
// engine, the scripted responder and the terminal UI.
package app

import (
	"context"
	"os"

	"github.com/dvolkov/dvchat/internal/api"
	"github.com/dvolkov/dvchat/internal/auth"
	"github.com/dvolkov/dvchat/internal/bus"
	"github.com/dvolkov/dvchat/internal/config"
	"github.com/dvolkov/dvchat/internal/delivery"
	"github.com/dvolkov/dvchat/internal/lock"
	"github.com/dvolkov/dvchat/internal/logging"
	"github.com/dvolkov/dvchat/internal/profile"
	"github.com/dvolkov/dvchat/internal/responder"
	"github.com/dvolkov/dvchat/internal/store"
	"github.com/dvolkov/dvchat/internal/theme"
	"github.com/dvolkov/dvchat/internal/tui"
	"github.com/dvolkov/dvchat/internal/tui/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the resolved profile passed into the fx module.
type Params struct {
	ProfileName string
}

// Module composes all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("dvchat",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideLock,
			provideStore,
			provideAuthMachine,
			provideThemeManager,
			provideDeliveryEngine,
			provideResponder,
			provideSessionService,
			provideChatService,
			provideMessageService,
			provideViewModel,
			provideApp,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig() (*config.Config, error) {
	cfg, err := config.Load(profile.ConfigPath())
	if os.IsNotExist(err) {
		return &config.Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(profile.LogPath(p.ProfileName), p.ProfileName)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := profile.EnsureDir(p.ProfileName); err != nil {
		return nil, err
	}
	logger.Info("acquiring profile lock", zap.String("profile", p.ProfileName))
	l, err := lock.Acquire(profile.Dir(p.ProfileName))
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

func provideStore(logger *zap.Logger) *store.Store {
	s := store.NewSeeded()
	logger.Info("demo dataset seeded", zap.Int("chats", len(s.ListChats())))
	return s
}

func provideAuthMachine(cfg *config.Config, b *bus.Bus) *auth.Machine {
	return auth.NewMachine(b, cfg.Delays.LockoutReset())
}

func provideThemeManager(cfg *config.Config, b *bus.Bus) *theme.Manager {
	return theme.NewManager(b, cfg.Theme)
}

func provideDeliveryEngine(cfg *config.Config, s *store.Store, b *bus.Bus, logger *zap.Logger) *delivery.Engine {
	return delivery.NewEngine(s, b, logger, cfg.Delays.Delivered(), cfg.Delays.Read())
}

func provideResponder(cfg *config.Config, s *store.Store, b *bus.Bus, logger *zap.Logger) *responder.Responder {
	return responder.New(s, b, logger, cfg.Delays.Reply())
}

func provideSessionService(m *auth.Machine, s *store.Store, e *delivery.Engine, r *responder.Responder, logger *zap.Logger) *api.SessionService {
	return api.NewSessionService(m, s, e, r, logger)
}

func provideChatService(s *store.Store, b *bus.Bus, logger *zap.Logger) *api.ChatService {
	return api.NewChatService(s, b, logger)
}

func provideMessageService(s *store.Store, e *delivery.Engine, b *bus.Bus, logger *zap.Logger) *api.MessageService {
	return api.NewMessageService(s, e, b, logger)
}

func provideViewModel(sessions *api.SessionService, chats *api.ChatService, messages *api.MessageService, themes *theme.Manager, b *bus.Bus, logger *zap.Logger) *model.ViewModel {
	return model.NewViewModel(sessions, chats, messages, themes, b, logger)
}

func provideApp(p Params, vm *model.ViewModel) *tui.App {
	return tui.NewApp(vm, p.ProfileName)
}

func registerLifecycle(lc fx.Lifecycle, lk *lock.Lock, engine *delivery.Engine, rsp *responder.Responder, cfg *config.Config, themes *theme.Manager, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			rsp.Start(context.Background())
			logger.Info("responder started")
			return nil
		},
		OnStop: func(_ context.Context) error {
			rsp.Stop()
			engine.Stop()

			cfg.Theme = themes.Current().ID
			if err := config.Save(profile.ConfigPath(), cfg); err != nil {
				logger.Warn("config save failed", zap.Error(err))
			}

			if err := lk.Release(); err != nil {
				logger.Warn("lock release failed", zap.Error(err))
			}
			logger.Info("shutdown complete")
			_ = logger.Sync()
			return nil
		},
	})
}
