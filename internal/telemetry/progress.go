package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-ops-ledger/internal/models"
	"github.com/ukydev/fleet-ops-ledger/internal/trips"
)

// ProgressSubscriber feeds trip progress-percent updates from an MQTT topic
// into the trip service. Devices publish {company_id, trip_id, percent};
// updates for trips that are not in transit are dropped. Raw GPS positions
// are not handled here.
type ProgressSubscriber struct {
	client mqtt.Client
	trips  *trips.Service
	topic  string
}

// NewProgressSubscriber connects to the broker and returns a subscriber.
func NewProgressSubscriber(brokerURL, topic string, tripService *trips.Service) (*ProgressSubscriber, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID("fleet-ledger-progress").
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	return &ProgressSubscriber{client: client, trips: tripService, topic: topic}, nil
}

// Start subscribes to the progress topic.
func (s *ProgressSubscriber) Start() error {
	token := s.client.Subscribe(s.topic, 1, s.handle)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", s.topic, token.Error())
	}
	log.WithField("topic", s.topic).Info("trip progress feed subscribed")
	return nil
}

// Stop disconnects from the broker.
func (s *ProgressSubscriber) Stop() {
	s.client.Disconnect(250)
}

func (s *ProgressSubscriber) handle(_ mqtt.Client, msg mqtt.Message) {
	var update models.ProgressUpdate
	if err := json.Unmarshal(msg.Payload(), &update); err != nil {
		log.WithError(err).Warn("malformed progress update dropped")
		return
	}
	if update.CompanyID == "" || update.TripID == "" {
		log.Warn("progress update missing company or trip id, dropped")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.trips.UpdateProgress(ctx, update.CompanyID, update.TripID, update.Percent); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"trip":    update.TripID,
			"percent": update.Percent,
		}).Debug("progress update not applied")
	}
}
