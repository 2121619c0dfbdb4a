package reportdelivery

import (
	"context"
	"fmt"
	"net/http"

	"site-functions/internal/common/config"
	"site-functions/internal/common/errors"
	commonhttp "site-functions/internal/common/http"
	"site-functions/internal/common/logger"
	"site-functions/internal/functions"
)

// ServiceInterface is the business logic shared by the HTTP and job
// handlers.
type ServiceInterface interface {
	Execute(ctx context.Context, input *Input) (*Output, error)
}

// Handler serves the assessment form over HTTP.
type Handler struct {
	config  *Config
	logger  logger.Logger
	service ServiceInterface
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Logger       logger.Logger
	Service      ServiceInterface
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	fnConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := fnConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", Name, err)
	}
	if opts.Service == nil {
		return nil, fmt.Errorf("%s requires a service", Name)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json", "stdout")
	}

	return &Handler{
		config:  fnConfig,
		logger:  loggerInstance,
		service: opts.Service,
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	done := functions.Track(Name)

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := functions.DecodeRequest(r, h.config.MaxBodyBytes, GetInputSchema(), &input); err != nil {
		h.respondError(w, err)
		done(err)
		return
	}

	output, err := h.service.Execute(ctx, &input)
	if err != nil {
		h.respondError(w, err)
		done(err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, output)
	done(nil)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	stdErr := errors.Normalize(err)
	h.logger.Error("Assessment report request failed", map[string]interface{}{
		"function":  Name,
		"errorCode": string(stdErr.Code),
		"errorType": stdErr.Type,
		"service":   stdErr.Service,
		"message":   stdErr.Message,
		"details":   stdErr.Details,
	})
	commonhttp.WriteError(w, stdErr)
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}
