package mqtt

import (
	"fmt"
	"log"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sweeney/powerled/internal/logic"
)

// outboxCapacity bounds the number of messages held while the broker is slow or away.
const outboxCapacity = 64

// RealPublisher publishes to an actual MQTT broker.
// Publish and PublishSystem only queue; a background goroutine does the
// network work so the control loop never waits on the broker.
type RealPublisher struct {
	client paho.Client
	topic  string
	out    *outbox
	done   chan struct{}
	sent   chan struct{}
}

// NewRealPublisher creates a publisher for the given broker. The connection
// is retried in the background; messages queue until it succeeds.
func NewRealPublisher(broker, clientID string) *RealPublisher {
	p := &RealPublisher{
		topic: Topic,
		out:   newOutbox(outboxCapacity),
		done:  make(chan struct{}),
		sent:  make(chan struct{}),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetWill(TopicSystem, string(lwtPayload()), 1, true).
		SetOnConnectHandler(func(paho.Client) {
			log.Printf("mqtt: connected to %s", broker)
			// Send whatever queued up while we were away.
			p.out.wake()
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	p.client = paho.NewClient(opts)
	p.client.Connect()
	go p.run()
	return p
}

func lwtPayload() []byte {
	data, _ := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "OFFLINE"})
	return data
}

// Publish queues an indicator event.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	// QoS 0 (at-most-once), not retained
	p.queue(bufferedMsg{topic: p.topic, payload: payload})
	return nil
}

// PublishSystem queues a system lifecycle event.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	// QoS 1 (at-least-once) for lifecycle events
	p.queue(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
	return nil
}

func (p *RealPublisher) queue(msg bufferedMsg) {
	if p.out.put(msg) {
		log.Printf("mqtt: outbox full (%d messages), dropped oldest (total dropped %d)", outboxCapacity, p.out.dropped())
	}
}

// run sends queued messages until Close. Messages are held while disconnected.
func (p *RealPublisher) run() {
	defer close(p.sent)
	for {
		select {
		case <-p.done:
			p.flush()
			return
		case <-p.out.notify:
			p.flush()
		}
	}
}

func (p *RealPublisher) flush() {
	if !p.client.IsConnectionOpen() {
		return
	}
	for _, msg := range p.out.take() {
		if err := p.send(msg); err != nil {
			log.Printf("mqtt: %v", err)
		}
	}
}

func (p *RealPublisher) send(msg bufferedMsg) error {
	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish %s timeout", msg.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", msg.topic, err)
	}
	return nil
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close sends anything still queued (if connected) and disconnects.
func (p *RealPublisher) Close() error {
	close(p.done)
	<-p.sent
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
