// Package main runs the Melon Works website.
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"melonworks-site/pkg/cms"
	"melonworks-site/pkg/config"
	"melonworks-site/pkg/handlers"
	"melonworks-site/pkg/logx"
	"melonworks-site/pkg/services"
	"melonworks-site/pkg/taxonomy"
	"melonworks-site/web"
)

var version = "unknown"

func getVersion() string {
	v, ok := debug.ReadBuildInfo()
	if !ok || v.Main.Version == "(devel)" {
		return version
	}
	return v.Main.Version
}

func main() {
	fmt.Printf("melonworks-site, version: %s\n", getVersion())

	opts, err := config.Init(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "failed to parse flags: %v\n", err)
		os.Exit(1)
	}

	setupLog(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		slog.Error("failed to run server", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *config.Options) error {
	site, err := config.LoadSite(opts.SiteConfig)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := services.NewMetrics(reg)

	lg := slog.Default()
	if opts.CMS.BaseURL == "" {
		lg.Warn("cms base url is not set, article pages will be empty")
	}

	var sender services.Sender = services.LogSender{Log: lg}
	if opts.SMTP.Host != "" {
		sender = services.NewSMTPSender(services.SMTPConfig{
			Host:     opts.SMTP.Host,
			Port:     opts.SMTP.Port,
			User:     opts.SMTP.User,
			Password: opts.SMTP.Password,
			Timeout:  opts.SMTP.Timeout,
		})
	}

	contact, err := services.NewContact(services.ContactParams{
		Sender:       sender,
		Company:      site.Company,
		Operator:     opts.SMTP.Operator,
		InquiryTypes: site.InquiryTypes,
		Log:          lg,
		Metrics:      metrics,
	})
	if err != nil {
		return fmt.Errorf("init contact: %w", err)
	}

	h := &handlers.Handler{
		Content: services.NewContent(services.ContentParams{
			Source:           cms.NewClient(lg, opts.CMS.BaseURL, opts.CMS.APIKey, opts.CMS.Timeout),
			Resolver:         taxonomy.NewResolver(site.Services, site.DefaultCategory),
			PlaceholderImage: site.PlaceholderImage,
			Log:              lg,
			Metrics:          metrics,
		}),
		Pages:   services.NewPages(web.Pages()),
		Contact: contact,
		Gate:    services.Gate{MinDwell: opts.Contact.MinDwell},
		Limiter: services.NewLimiter(opts.Contact.RatePerMinute, opts.Contact.Burst),
		Site:    site,
		OAuth:   opts.OAuthConfig(),
		Log:     lg,
	}

	tmpl, err := web.Templates()
	if err != nil {
		return err
	}

	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	store := handlers.NewSessionStore(sessionSecret(opts.SessionSecret), strings.HasPrefix(opts.AppURL, "https://"))
	router := h.Router(handlers.RouterParams{
		Templates: tmpl,
		Static:    web.Static(),
		Sessions:  store,
		Registry:  reg,
	})

	srv := &http.Server{
		Addr:              opts.Listen,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       opts.ReadTimeout,
		WriteTimeout:      opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("starting server", slog.String("addr", opts.Listen))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// sessionSecret returns the configured secret, or a random one. Sessions
// don't survive a restart in the latter case.
func sessionSecret(secret string) []byte {
	if secret != "" {
		return []byte(secret)
	}
	slog.Warn("session secret is not set, using a random one")
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("read random session secret: %v", err))
	}
	return b
}

func setupLog(opts *config.Options) {
	handler := &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelInfo,
	}

	if opts.Debug {
		handler.Level = slog.LevelDebug
		handler.AddSource = true
	}

	var h slog.Handler = slog.NewTextHandler(os.Stderr, handler)
	if opts.JSONLogs {
		h = slog.NewJSONHandler(os.Stderr, handler)
	}

	slog.SetDefault(slog.New(&logx.Chain{
		Middleware: []logx.Middleware{logx.RequestID},
		Handler:    h,
	}))
}
