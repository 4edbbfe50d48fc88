package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/DRSN-tech/go-recommender/internal/cfg"
	"github.com/DRSN-tech/go-recommender/internal/usecase"
	"github.com/DRSN-tech/go-recommender/pkg/e"
	"github.com/DRSN-tech/go-recommender/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

// Producer публикует события о выданных рекомендациях. Ключ сообщения равен user_id,
// поэтому события одного пользователя попадают в одну партицию.
type Producer struct {
	writer *kafka.Writer
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    10,
		BatchTimeout: 100 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warnf("Kafka producer error: %s", err.Error())
			}
		},
	}

	return &Producer{
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}
}

func (p *Producer) PublishRecommendationServed(ctx context.Context, event *usecase.RecommendationServedEvent) error {
	msg, err := buildMessage(event)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// EnsureTopic создаёт топик, если его нет. Топик создаётся через контроллер кластера,
// сроки всех операций ограничены дедлайном ctx.
func (p *Producer) EnsureTopic(ctx context.Context) error {
	conn, err := p.dialAny(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()
	setDeadline(ctx, conn)

	partitions, err := conn.ReadPartitions(p.cfg.Topic)
	if err == nil && len(partitions) > 0 {
		return nil
	}

	controller, err := conn.Controller()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	addr := net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port))
	ctrl, err := kafka.DialContext(ctx, p.cfg.NetworkMode, addr)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer ctrl.Close()
	setDeadline(ctx, ctrl)

	err = ctrl.CreateTopics(kafka.TopicConfig{
		Topic:             p.cfg.Topic,
		NumPartitions:     p.cfg.Partitions,
		ReplicationFactor: p.cfg.ReplicationFactor,
	})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to create topic %s: %w", p.cfg.Topic, err))
	}

	p.logger.Infof("kafka topic ready: %s", p.cfg.Topic)
	return nil
}

// dialAny подключается к первому доступному брокеру из списка.
func (p *Producer) dialAny(ctx context.Context) (*kafka.Conn, error) {
	var lastErr error
	for _, broker := range p.cfg.Brokers {
		conn, err := kafka.DialContext(ctx, p.cfg.NetworkMode, broker)
		if err == nil {
			return conn, nil
		}
		p.logger.Warnf("kafka broker %s unreachable: %v", broker, err)
		lastErr = err
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no kafka brokers configured")
	}
	return nil, lastErr
}

func setDeadline(ctx context.Context, conn *kafka.Conn) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func buildMessage(event *usecase.RecommendationServedEvent) (kafka.Message, error) {
	value, err := json.Marshal(recommendationServedMessage{
		EventID:    event.EventID,
		EventType:  eventTypeRecommendationServed,
		UserID:     event.UserID,
		Variant:    string(event.Variant),
		ProductIDs: event.ProductIDs,
		Scores:     event.Scores,
		ServedAt:   event.ServedAt,
	})
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(strconv.FormatInt(event.UserID, 10)),
		Value: value,
		Time:  event.ServedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventTypeRecommendationServed)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}, nil
}
