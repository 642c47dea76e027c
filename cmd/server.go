package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"

	"github.com/checkmarble/renewals-backend/api"
	"github.com/checkmarble/renewals-backend/infra"
	"github.com/checkmarble/renewals-backend/repositories"
	"github.com/checkmarble/renewals-backend/usecases"
	"github.com/checkmarble/renewals-backend/utils"
)

func RunServer(config CompiledConfig) error {
	apiConfig := api.Configuration{
		Env:                 utils.GetEnv("ENV", "development"),
		AppName:             "renewals-backend",
		AppVersion:          config.Version,
		Port:                utils.GetRequiredEnv[string]("PORT"),
		RequestLoggingLevel: utils.GetEnv("REQUEST_LOGGING_LEVEL", "all"),
		AllowedOrigins:      splitList(utils.GetEnv("CORS_ALLOWED_ORIGINS", "")),
		DefaultTimeout:      time.Duration(utils.GetEnv("DEFAULT_TIMEOUT_SECOND", 5)) * time.Second,
		MaxUploadSizeBytes:  int64(utils.GetEnv("MAX_UPLOAD_SIZE_BYTES", api.DEFAULT_MAX_UPLOAD_SIZE_BYTES)),
	}
	llmConfig := infra.LlmConfiguration{
		Provider:      infra.LlmProviderType(utils.GetEnv("LLM_PROVIDER", "")),
		Url:           utils.GetEnv("LLM_URL", ""),
		ApiKey:        utils.GetEnv("LLM_API_KEY", ""),
		Model:         utils.GetEnv("LLM_MODEL", ""),
		EnableAdvisor: utils.GetEnv("ENABLE_ADVISOR", false),

		RequestsPerSecond: utils.GetEnv("LLM_REQUESTS_PER_SECOND", 5.0),
	}
	serverConfig := ServerConfig{
		loggingFormat:      utils.GetEnv("LOGGING_FORMAT", "text"),
		sentryDsn:          utils.GetEnv("SENTRY_DSN", ""),
		enableTracing:      utils.GetEnv("ENABLE_TRACING", false),
		sessionCacheSize:   utils.GetEnv("SESSION_CACHE_SIZE", repositories.DEFAULT_SESSION_CACHE_SIZE),
		sessionTtlMinutes:  utils.GetEnv("SESSION_TTL_MINUTES", int(repositories.DEFAULT_SESSION_TTL.Minutes())),
		classifierTimeout:  utils.GetEnv("INTENT_CLASSIFIER_TIMEOUT_SECOND", 5),
		classifierAttempts: utils.GetEnv("INTENT_CLASSIFIER_ATTEMPTS", 2),
	}
	classifierTimeout := time.Duration(serverConfig.classifierTimeout) * time.Second
	apiConfig.NegotiationTimeout = classifierTimeout

	logger := utils.NewLogger(serverConfig.loggingFormat, os.Stdout)
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	if err := serverConfig.Validate(); err != nil {
		logger.ErrorContext(ctx, "invalid server configuration", slog.String("error", err.Error()))
		return err
	}

	infra.SetupSentry(serverConfig.sentryDsn, apiConfig.Env, apiConfig.AppVersion)
	defer sentry.Flush(3 * time.Second)

	telemetryRessources, err := infra.InitTelemetry(infra.TelemetryConfiguration{
		Enabled:         serverConfig.enableTracing,
		ApplicationName: apiConfig.AppName,
	}, apiConfig.AppVersion)
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		telemetryRessources = infra.NoopTelemetry()
	}

	llmClient, err := infra.NewLlmClient(llmConfig)
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		return err
	}
	if !llmConfig.Enabled() {
		logger.InfoContext(ctx, "no LLM provider configured, negotiation runs on keyword rules")
	}

	repos := repositories.NewRepositories(
		repositories.WithSessionCache(serverConfig.sessionCacheSize,
			time.Duration(serverConfig.sessionTtlMinutes)*time.Minute),
	)
	uc := usecases.NewUsecases(repos,
		usecases.WithLlm(llmClient, llmConfig.Model, llmConfig.EnableAdvisor, llmConfig.RequestsPerSecond),
		usecases.WithClassifierTimeout(classifierTimeout),
		usecases.WithClassifierAttempts(serverConfig.classifierAttempts),
	)

	router := api.InitRouterMiddlewares(ctx, apiConfig, telemetryRessources)
	server := api.NewServer(router, apiConfig, uc)

	notify, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.InfoContext(ctx, "starting server", slog.String("port", apiConfig.Port))
		err := server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			utils.LogAndReportSentryError(ctx, errors.Wrap(err, "Error while serving the app"))
		}
		logger.InfoContext(ctx, "server returned")
	}()

	<-notify.Done()
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.LogAndReportSentryError(
			ctx,
			errors.Wrap(err, "Error while shutting down the server"),
		)
		return err
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
