package worker

import (
	"context"

	"github.com/hibiken/asynq"
)

//go:generate mockgen -package mockwk -destination mock/distributor.go github.com/ChokeGuy/money-bridge/worker TaskDistributor

type TaskDistributor interface {
	DistributeTaskSendReviewConfirmation(
		ctx context.Context,
		payload *PayloadSendReviewConfirmation,
		opts ...asynq.Option,
	) error
}

type RedisTaskDistributor struct {
	client *asynq.Client
}

func NewRedisTaskDistributor(redisOpt asynq.RedisClientOpt) TaskDistributor {
	client := asynq.NewClient(redisOpt)

	return &RedisTaskDistributor{
		client: client,
	}
}
