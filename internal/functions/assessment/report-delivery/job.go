package reportdelivery

import (
	"context"
	"fmt"
	"time"

	"site-functions/internal/common/camunda"
	"site-functions/internal/common/config"
	"site-functions/internal/common/errors"
	"site-functions/internal/common/logger"
	"site-functions/internal/functions"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// TaskType is the Zeebe job type served by JobHandler.
const TaskType = "assessment.report.deliver"

// JobHandler runs report delivery as a BPMN service task. The job
// variables carry the same document as the HTTP body.
type JobHandler struct {
	config       *Config
	logger       logger.Logger
	camunda      *camunda.Client
	service      ServiceInterface
	errorHandler *errors.ErrorHandler
	worker       *camunda.Worker
}

type JobHandlerOptions struct {
	AppConfig    *config.Config
	Camunda      *camunda.Client
	CustomConfig *Config
	Logger       logger.Logger
	Service      ServiceInterface
}

func NewJobHandler(opts JobHandlerOptions) (*JobHandler, error) {
	fnConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := fnConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Service == nil {
		return nil, fmt.Errorf("%s requires a service", TaskType)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json", "stdout")
	}

	return &JobHandler{
		config:       fnConfig,
		logger:       loggerInstance,
		camunda:      opts.Camunda,
		service:      opts.Service,
		errorHandler: errors.NewErrorHandler(loggerInstance),
	}, nil
}

func (h *JobHandler) Handle(client worker.JobClient, job entities.Job) {
	done := functions.Track(Name)

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing assessment report job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
		"worker":             TaskType,
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		done(err)
		return
	}

	output, err := h.service.Execute(ctx, input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		done(err)
		return
	}

	h.completeJob(ctx, client, job, output)
	done(nil)
}

func (h *JobHandler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewMalformedBodyError(err)
	}

	var input Input
	if err := functions.ValidateAndDecode(variables, GetInputSchema(), &input); err != nil {
		return nil, err
	}
	return &input, nil
}

func (h *JobHandler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromMap(output.Variables())
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
			"worker": TaskType,
		})
		return
	}

	if _, err := request.Send(ctx); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
			"worker": TaskType,
		})
		return
	}

	h.logger.Info("Assessment report job completed", map[string]interface{}{
		"jobKey":   job.GetKey(),
		"email":    output.Data.Email,
		"strategy": output.Data.Strategy,
		"worker":   TaskType,
	})
}

// Register opens the job worker. A disabled function is not registered.
func (h *JobHandler) Register() error {
	if !h.config.Enabled {
		h.logger.Info("Worker is disabled, skipping registration", map[string]interface{}{
			"worker": TaskType,
		})
		return nil
	}
	if h.camunda == nil {
		return fmt.Errorf("%s: camunda client is required to register", TaskType)
	}

	h.worker = camunda.NewWorker(h.camunda.GetClient(), camunda.WorkerOptions{
		TaskType:      TaskType,
		MaxJobsActive: h.config.MaxJobsActive,
		Timeout:       h.config.Timeout,
		Handler:       h.Handle,
		Logger:        h.logger,
	})

	h.logger.Info("Assessment report worker registered with Camunda", map[string]interface{}{
		"taskType":      TaskType,
		"maxJobsActive": h.config.MaxJobsActive,
		"timeout":       h.config.Timeout.String(),
	})
	return nil
}

func (h *JobHandler) Close() {
	if h.worker != nil {
		h.worker.Stop()
		h.worker = nil
	}
}

func (h *JobHandler) HealthCheck(ctx context.Context) error {
	if h.camunda == nil {
		return fmt.Errorf("camunda client not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return h.camunda.HealthCheck(ctx)
}

func (h *JobHandler) GetTaskType() string {
	return TaskType
}

func (h *JobHandler) IsEnabled() bool {
	return h.config.Enabled
}
