package publisher

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-json-experiment/json"

	"github.com/jgoulah/gridtariff/internal/config"
	"github.com/jgoulah/gridtariff/pkg/models"
)

// Summary is the computed state published for one customer
type Summary struct {
	Customer       string                `json:"customer"`
	OverallAvg     float64               `json:"overall_avg"`
	AverageKW      float64               `json:"average_kw"`
	AverageKWh     float64               `json:"average_kwh"`
	MonthlyTariffs models.MonthlyTariffs `json:"monthly_tariffs"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// Publisher handles publishing to MQTT and Home Assistant
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	haConfig    config.HAConfig
	httpClient  *http.Client
}

// New creates a new publisher (supports both MQTT and HA HTTP API)
func New(mqttCfg config.MQTTConfig, topicPrefix string, haCfg config.HAConfig) (*Publisher, error) {
	if haCfg.Enabled {
		if haCfg.URL == "" {
			return nil, fmt.Errorf("Home Assistant URL is required when enabled")
		}
		if haCfg.Token == "" {
			return nil, fmt.Errorf("Home Assistant token is required when enabled")
		}
		if haCfg.EntityID == "" {
			return nil, fmt.Errorf("Home Assistant entity_id is required when enabled")
		}
	}

	var client mqtt.Client
	if mqttCfg.Enabled {
		if mqttCfg.Broker == "" {
			return nil, fmt.Errorf("MQTT broker address is required when enabled")
		}

		opts := mqtt.NewClientOptions()
		opts.AddBroker(fmt.Sprintf("tcp://%s", mqttCfg.Broker))
		opts.SetClientID("gridtariff")
		opts.SetAutoReconnect(true)
		opts.SetConnectRetry(true)
		opts.SetConnectTimeout(10 * time.Second)

		if mqttCfg.Username != "" {
			opts.SetUsername(mqttCfg.Username)
		}
		if mqttCfg.Password != "" {
			opts.SetPassword(mqttCfg.Password)
		}

		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
		}
	}

	return &Publisher{
		client:      client,
		topicPrefix: topicPrefix,
		haConfig:    haCfg,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

var nonTopicChars = regexp.MustCompile(`[^a-z0-9_-]+`)

// Topic returns the retained state topic for a customer
func Topic(prefix, customer string) string {
	slug := nonTopicChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(customer)), "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = "all"
	}
	return fmt.Sprintf("%s/%s/state", prefix, slug)
}

// Publish sends a summary to every enabled destination
func (p *Publisher) Publish(s Summary) error {
	if p.client == nil && !p.haConfig.Enabled {
		return fmt.Errorf("neither MQTT nor Home Assistant publishing is enabled in config")
	}
	if p.client != nil {
		if err := p.PublishMQTT(s); err != nil {
			return err
		}
	}
	if p.haConfig.Enabled {
		if err := p.PublishHA(s); err != nil {
			return err
		}
	}
	return nil
}

// PublishMQTT sends the summary as a retained JSON message
func (p *Publisher) PublishMQTT(s Summary) error {
	if p.client == nil {
		return fmt.Errorf("MQTT publishing is not enabled in config")
	}

	body, err := json.Marshal(s, json.Deterministic(true))
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	topic := Topic(p.topicPrefix, s.Customer)
	token := p.client.Publish(topic, 1, true, body)
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("publishing to %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	return nil
}

// HAState matches the Home Assistant REST states payload
type HAState struct {
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// PublishHA sets the configured entity's state via the Home Assistant REST API
func (p *Publisher) PublishHA(s Summary) error {
	if !p.haConfig.Enabled {
		return fmt.Errorf("Home Assistant publishing is not enabled in config")
	}

	apiURL := fmt.Sprintf("%s/api/states/%s", strings.TrimRight(p.haConfig.URL, "/"), p.haConfig.EntityID)

	payload := HAState{
		State: fmt.Sprintf("%.2f", s.OverallAvg),
		Attributes: map[string]any{
			"customer":        s.Customer,
			"average_kw":      s.AverageKW,
			"average_kwh":     s.AverageKWh,
			"monthly_tariffs": s.MonthlyTariffs,
			"updated_at":      s.UpdatedAt.Format(time.RFC3339),
			"friendly_name":   fmt.Sprintf("%s tariffs", s.Customer),
		},
	}

	body, err := json.Marshal(payload, json.Deterministic(true))
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequest("POST", apiURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.haConfig.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	// 201 when the entity is created, 200 when updated
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP error: status %d, response: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
