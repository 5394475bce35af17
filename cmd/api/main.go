package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/awfacturas/internal/application/analytics"
	"github.com/jhoicas/awfacturas/internal/application/billing"
	"github.com/jhoicas/awfacturas/internal/application/changefeed"
	"github.com/jhoicas/awfacturas/internal/infrastructure/kvrepo"
	infrapdf "github.com/jhoicas/awfacturas/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/awfacturas/internal/interfaces/http"
	"github.com/jhoicas/awfacturas/pkg/config"
	"github.com/jhoicas/awfacturas/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("abrir almacenamiento")
	}
	defer st.close()

	clientRepo := kvrepo.NewClientRepository(st.store, log)
	invoiceRepo := kvrepo.NewInvoiceRepository(st.store, log)

	clientUC := billing.NewClientUseCase(clientRepo, log)
	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo, clientRepo, log)
	dashboardUC := appanalytics.NewDashboardUseCase(clientRepo, invoiceRepo, cfg.Billing.UpcomingDays, cfg.Billing.MonthsBack)

	// PDF: estado de cuenta con historial de gestiones
	pdfGenerator := infrapdf.NewMarotoStatementGenerator(cfg.App.Name, time.Now)
	statementUC := billing.NewStatementUseCase(invoiceRepo, clientRepo, pdfGenerator, time.Now)

	// Cambios de otras instancias (archivo compartido o Redis Pub/Sub)
	feed := changefeed.New(log)
	if st.watcher != nil {
		go func() {
			if err := feed.Run(ctx, st.watcher); err != nil {
				log.Error().Err(err).Msg("observador de cambios finalizado")
			}
		}()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ClientUC:    clientUC,
		InvoiceUC:   invoiceUC,
		StatementUC: statementUC,
		DashboardUC: dashboardUC,
		Feed:        feed,
		PageSize:    cfg.Billing.PageSize,
		Location:    cfg.Billing.Location(),
		Now:         time.Now,
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
