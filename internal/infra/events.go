package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// Routing keys of the domain events published on the topic exchange.
const (
	EventoVentaRegistrada = "venta.registrada"
	EventoVentaEliminada  = "venta.eliminada"
	EventoServicioAbierto = "servicio.abierto"
	EventoServicioCerrado = "servicio.cerrado"
)

// Evento is the JSON envelope of every published message.
type Evento struct {
	Tipo       string      `json:"tipo"`
	OcurridoEn time.Time   `json:"ocurrido_en"`
	Datos      interface{} `json:"datos"`
}

// EventPublisher emits domain events after a unit of work commits.
// Publishing is best effort: callers log failures and carry on.
type EventPublisher interface {
	Publish(ctx context.Context, tipo string, datos interface{}) error
	Close() error
}

// NopPublisher is used when AMQP_URL is empty.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (NopPublisher) Close() error                                       { return nil }

// AMQPPublisher publishes persistent JSON messages to a durable topic
// exchange. One channel is shared; publishes are serialised on it.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: exchange declare: %w", err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// NewEventPublisher returns an AMQP publisher, or a no-op one when url is empty.
func NewEventPublisher(url, exchange string) (EventPublisher, error) {
	if url == "" {
		log.Info().Msg("AMQP_URL not set: domain events disabled")
		return NopPublisher{}, nil
	}
	return NewAMQPPublisher(url, exchange)
}

func (p *AMQPPublisher) Publish(ctx context.Context, tipo string, datos interface{}) error {
	body, err := json.Marshal(Evento{Tipo: tipo, OcurridoEn: time.Now().UTC(), Datos: datos})
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, p.exchange, tipo, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.ch.Close()
	return p.conn.Close()
}
