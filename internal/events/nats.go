package events

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// SubjectPrefix is prepended to the event kind to form the NATS subject.
const SubjectPrefix = "tour.travel."

// natsConn is the part of *nats.Conn the publisher uses.
type natsConn interface {
	Publish(subj string, data []byte) error
}

// NATSPublisher forwards events to NATS as JSON.
type NATSPublisher struct {
	conn natsConn
}

// NewNATSPublisher wraps an open connection.
func NewNATSPublisher(nc *nats.Conn) *NATSPublisher {
	return &NATSPublisher{conn: nc}
}

// ConnectNATS dials url with the reconnect settings the service uses.
func ConnectNATS(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("tourhub"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logrus.WithError(err).Warn("NATS disconnected.")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logrus.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected.")
		}),
	)
}

// Subject returns the subject an event is published on.
func Subject(k Kind) string {
	return SubjectPrefix + string(k)
}

func (p *NATSPublisher) Publish(ctx context.Context, ev GroupEvent) {
	if ctx.Err() != nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		logrus.WithError(err).WithField("kind", ev.Kind).Error("Failed to encode group event.")
		return
	}
	if err := p.conn.Publish(Subject(ev.Kind), data); err != nil {
		logrus.WithError(err).WithField("kind", ev.Kind).Warn("Failed to publish group event to NATS.")
	}
}
