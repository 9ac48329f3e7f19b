package dish

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// PlanPublisher hands the imaging plan to an external acquisition driver
// over MQTT: the full plan is published retained, and each stage position is
// published individually as the driver walks the traversal.
type PlanPublisher struct {
	client mqtt.Client
	prefix string
	qos    byte
}

// StagePosition is the per-tile message payload consumed by the acquisition
// driver.
type StagePosition struct {
	Index     int     `json:"index"`
	Total     int     `json:"total"`
	WellName  string  `json:"wellName"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Timestamp int64   `json:"timestamp"`
}

// NewPlanPublisher creates a publisher on an existing MQTT client. A nil
// client disables publishing (for testing).
func NewPlanPublisher(client mqtt.Client, prefix string) *PlanPublisher {
	if prefix == "" {
		prefix = "a1stage"
	}
	return &PlanPublisher{
		client: client,
		prefix: prefix,
		qos:    1, // acquisition must not miss positions
	}
}

// ConnectPublisher dials the configured broker and returns a connected
// client. An empty broker disables publishing and returns nil.
func ConnectPublisher(cfg MQTTConfig) (mqtt.Client, error) {
	if cfg.Broker == "" {
		log.Println("MQTT publishing disabled: no broker configured")
		return nil, nil
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "a1stage"
	}
	opts.SetClientID(clientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("MQTT connection timeout to %s", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", err)
	}
	return client, nil
}

// PublishPlan publishes the whole imaging plan, retained, to
// <prefix>/plan, followed by one position message per tile on
// <prefix>/position.
func (p *PlanPublisher) PublishPlan(plan *ImagingPlan) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshaling plan: %w", err)
	}
	topic := fmt.Sprintf("%s/plan", p.prefix)
	if token := p.client.Publish(topic, p.qos, true, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publishing plan: %w", token.Error())
	}

	for i, tile := range plan.Tiles {
		if err := p.PublishPosition(tile, i, len(plan.Tiles)); err != nil {
			return err
		}
	}
	return nil
}

// PublishPosition publishes a single tile's stage position.
func (p *PlanPublisher) PublishPosition(tile Tile, index, total int) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	pos := StagePosition{
		Index:     index,
		Total:     total,
		WellName:  tile.WellName,
		X:         tile.Position.X,
		Y:         tile.Position.Y,
		Timestamp: time.Now().Unix(),
	}
	payload, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("marshaling position: %w", err)
	}

	topic := fmt.Sprintf("%s/position", p.prefix)
	if token := p.client.Publish(topic, p.qos, false, payload); token.Wait() && token.Error() != nil {
		log.Printf("Error publishing position %d/%d: %v", index, total, token.Error())
		return token.Error()
	}
	return nil
}
