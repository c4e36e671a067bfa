package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/carbonsaver/core/forecast"
	"github.com/kilianp07/carbonsaver/infra/logger"
)

// Config defines the optional MQTT broadcast of forecast refreshes.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Topic    string `json:"topic"`
	QoS      byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "carbonsaver"
	}
	if c.Topic == "" {
		c.Topic = "carbonsaver/forecast"
	}
}

// Client is the narrow paho surface the publisher needs.
type Client interface {
	IsConnected() bool
	Disconnect(uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// ForecastPublisher broadcasts freshly built forecasts to an MQTT topic so
// carbon-aware consumers (home automation, dashboards) can react to them.
type ForecastPublisher struct {
	client Client
	cfg    Config
	log    logger.Logger
}

// NewForecastPublisher connects to the broker and returns a publisher.
func NewForecastPublisher(cfg Config) (*ForecastPublisher, error) {
	cfg.SetDefaults()
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return newForecastPublisher(client, cfg), nil
}

func newForecastPublisher(client Client, cfg Config) *ForecastPublisher {
	cfg.SetDefaults()
	return &ForecastPublisher{client: client, cfg: cfg, log: logger.New("mqtt-publisher")}
}

// payload is the retained message body published per refresh.
type payload struct {
	Date    string           `json:"date"`
	Summary forecast.Summary `json:"summary"`
	Hours   []hourPayload    `json:"hours"`
}

type hourPayload struct {
	Hour            string  `json:"hour"`
	CarbonIntensity float64 `json:"carbon_intensity"`
}

// Publish sends the forecast summary to the configured topic. The message is
// retained so late subscribers get the current day immediately.
func (p *ForecastPublisher) Publish(f *forecast.Forecast) error {
	msg := payload{Date: f.Date.Format("2006-01-02"), Summary: f.Summarize()}
	for _, h := range f.Hours {
		msg.Hours = append(msg.Hours, hourPayload{
			Hour:            h.Hour.Format(time.RFC3339),
			CarbonIntensity: h.CarbonIntensity,
		})
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal forecast payload: %w", err)
	}
	token := p.client.Publish(p.cfg.Topic, p.cfg.QoS, true, body)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish forecast: %w", err)
	}
	p.log.Debugf("published forecast for %s to %s", msg.Date, p.cfg.Topic)
	return nil
}

// Close disconnects from the broker.
func (p *ForecastPublisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
