package worker

import (
	"context"

	"github.com/ChokeGuy/money-bridge/pkg/email"
	"github.com/ChokeGuy/money-bridge/pkg/logger"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

type TaskProcessor interface {
	Start() error
	Shutdown()
	ProcessTaskSendReviewConfirmation(ctx context.Context, task *asynq.Task) error
}

type RedisTaskProcessor struct {
	server       *asynq.Server
	mailer       email.EmailSender
	supportEmail string
}

func NewRedisTaskProcessor(redisOpt asynq.RedisClientOpt, mailer email.EmailSender, supportEmail string) TaskProcessor {
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Queues: map[string]int{
				QueueCritical: 10,
				QueueDefault:  5,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().
					Err(err).
					Str("task_type", task.Type()).
					Msg("process task failed")
			}),
			Logger: logger.NewTaskLogger(),
		},
	)

	return &RedisTaskProcessor{
		server:       server,
		mailer:       mailer,
		supportEmail: supportEmail,
	}
}

func (processor *RedisTaskProcessor) Start() error {
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskSendReviewConfirmation, processor.ProcessTaskSendReviewConfirmation)

	return processor.server.Start(mux)
}

func (processor *RedisTaskProcessor) Shutdown() {
	log.Info().Msg("gracefully stopping task processor")
	processor.server.Shutdown()
}
