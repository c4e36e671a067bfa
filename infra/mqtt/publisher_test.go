package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/carbonsaver/core/forecast"
	"github.com/kilianp07/carbonsaver/core/model"
)

type stubToken struct{ err error }

func (t stubToken) Wait() bool                     { return true }
func (t stubToken) WaitTimeout(time.Duration) bool { return true }
func (t stubToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t stubToken) Error() error { return t.err }

type stubClient struct {
	topic    string
	retained bool
	body     []byte
	err      error
}

func (s *stubClient) IsConnected() bool { return true }
func (s *stubClient) Disconnect(uint)   {}
func (s *stubClient) Publish(topic string, qos byte, retained bool, p interface{}) mqtt.Token {
	s.topic = topic
	s.retained = retained
	s.body = p.([]byte)
	return stubToken{err: s.err}
}

func testForecast() *forecast.Forecast {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	hours := make([]model.HourlyGridRecord, 24)
	for i := range hours {
		hours[i] = model.HourlyGridRecord{Hour: day.Add(time.Duration(i) * time.Hour), CarbonIntensity: 100 + float64(i)}
	}
	return &forecast.Forecast{Date: day, Hours: hours}
}

func TestPublishForecast(t *testing.T) {
	client := &stubClient{}
	p := newForecastPublisher(client, Config{Topic: "test/forecast"})
	if err := p.Publish(testForecast()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if client.topic != "test/forecast" {
		t.Fatalf("topic %s", client.topic)
	}
	if !client.retained {
		t.Fatalf("forecast message must be retained")
	}
	var msg payload
	if err := json.Unmarshal(client.body, &msg); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if msg.Date != "2025-06-10" || len(msg.Hours) != 24 {
		t.Fatalf("payload %s with %d hours", msg.Date, len(msg.Hours))
	}
	if msg.Summary.MinCarbonIntensity != 100 || msg.Summary.MaxCarbonIntensity != 123 {
		t.Fatalf("summary %+v", msg.Summary)
	}
}

func TestPublishError(t *testing.T) {
	client := &stubClient{err: errors.New("broker down")}
	p := newForecastPublisher(client, Config{})
	if err := p.Publish(testForecast()); err == nil {
		t.Fatalf("expected publish error")
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	if cfg.ClientID != "carbonsaver" || cfg.Topic != "carbonsaver/forecast" {
		t.Fatalf("defaults %+v", cfg)
	}
}
