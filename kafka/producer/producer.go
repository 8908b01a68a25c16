package producer

import (
	"context"
	"os"

	kafkaProducer "github.com/Chronicle20/atlas-kafka/producer"
	"github.com/Chronicle20/atlas-kafka/topic"
	"github.com/Chronicle20/atlas-model/model"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Provider resolves a topic token to a message producer
type Provider func(token string) kafkaProducer.MessageProducer

// ProviderImpl creates a producer provider bound to the given logger and context.
// Topic tokens are environment variable names resolved through atlas-kafka.
func ProviderImpl(l logrus.FieldLogger) func(ctx context.Context) Provider {
	return func(ctx context.Context) Provider {
		return func(token string) kafkaProducer.MessageProducer {
			return func(provider model.Provider[[]kafka.Message]) error {
				t, err := topic.EnvProvider(l)(token)()
				if err != nil {
					return err
				}

				ms, err := provider()
				if err != nil {
					return err
				}
				if len(ms) == 0 {
					return nil
				}

				w := &kafka.Writer{
					Addr:     kafka.TCP(LookupBrokers()...),
					Topic:    t,
					Balancer: &kafka.LeastBytes{},
				}
				defer w.Close()

				if err := w.WriteMessages(ctx, ms...); err != nil {
					l.WithError(err).WithField("topic", t).Error("Unable to emit messages to topic.")
					return err
				}
				return nil
			}
		}
	}
}

// LookupBrokers returns the Kafka bootstrap servers from the environment
func LookupBrokers() []string {
	return []string{os.Getenv("BOOTSTRAP_SERVERS")}
}
