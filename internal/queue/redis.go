package queue

import (
	"context"
	"fmt"

	"shopmigrate/converter/internal/config"
	"shopmigrate/converter/internal/domain"
	"shopmigrate/converter/internal/domain/task"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type Queue interface {
	AddTask(ctx context.Context, task task.Task) (string, error) // Returns message ID
	PublishProducts(ctx context.Context, runID string, records []*domain.Product) error
	PublishReport(ctx context.Context, runID string, stats domain.RunStats, findings domain.Findings) error
}

type RedisQueue struct {
	redisClient  *redis.Client
	streamPrefix string
}

func NewRedisQueue(redisClient *redis.Client, cfg config.RedisConfig) Queue {
	return &RedisQueue{
		redisClient:  redisClient,
		streamPrefix: cfg.StreamPrefix,
	}
}

func (q *RedisQueue) AddTask(ctx context.Context, task task.Task) (string, error) {
	taskType := task.TaskType()
	streamName := q.streamPrefix + taskType

	taskValue, err := task.TaskValue()
	if err != nil {
		return "", fmt.Errorf("failed to serialize task: %w", err)
	}

	messageID, err := q.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName,
		Values: map[string]interface{}{
			"task_type": taskType,
			"task_data": string(taskValue),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to add task to Redis stream %s: %w", streamName, err)
	}

	log.Debugf("Added task %s to stream %s with message ID: %s", taskType, streamName, messageID)
	return messageID, nil
}

// PublishProducts adds one task per record, in record order
func (q *RedisQueue) PublishProducts(ctx context.Context, runID string, records []*domain.Product) error {
	for _, p := range records {
		if _, err := q.AddTask(ctx, &task.ProductExportTask{RunID: runID, Product: p}); err != nil {
			return fmt.Errorf("failed to publish %s: %w", p.SKU, err)
		}
	}

	log.Infof("📤 Published %d products of run %s", len(records), runID)
	return nil
}

// PublishReport is sent last so consumers can tell a run is complete
func (q *RedisQueue) PublishReport(ctx context.Context, runID string, stats domain.RunStats, findings domain.Findings) error {
	_, err := q.AddTask(ctx, &task.RunReportTask{RunID: runID, Stats: stats, Findings: findings})
	return err
}

func (q *RedisQueue) Close() error {
	if q.redisClient != nil {
		return q.redisClient.Close()
	}
	return nil
}
