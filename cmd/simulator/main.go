package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-ops-ledger/internal/models"
)

// Drives a demo trip through its lifecycle against a running server and
// publishes synthetic progress updates, so the whole pipeline can be
// exercised without real devices.
func main() {
	apiURL := flag.String("api", "http://localhost:8080", "server base URL")
	token := flag.String("token", "", "bearer token for the API")
	companyID := flag.String("company", "", "company ID (must match the token)")
	broker := flag.String("broker", "tcp://localhost:1883", "MQTT broker URL")
	topic := flag.String("topic", "fleet/trips/progress", "progress topic")
	step := flag.Float64("step", 10, "percent added per tick")
	interval := flag.Duration("interval", 2*time.Second, "time between ticks")
	flag.Parse()

	if *token == "" || *companyID == "" {
		log.Fatal("both -token and -company are required")
	}

	api := &apiClient{base: *apiURL, token: *token}

	trip, err := api.deployTrip()
	if err != nil {
		log.WithError(err).Fatal("failed to deploy trip")
	}
	log.WithFields(log.Fields{"trip": trip.ID.Hex(), "reference": trip.Reference}).Info("trip deployed")

	for _, status := range []models.TripStatus{models.TripLoading, models.TripInTransit} {
		if err := api.transition(trip.ID.Hex(), status); err != nil {
			log.WithError(err).Fatalf("failed to move trip to %s", status)
		}
		log.WithField("status", status).Info("trip advanced")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(*broker).
		SetClientID("fleet-ledger-simulator")
	client := mqtt.NewClient(opts)
	if mqttToken := client.Connect(); mqttToken.Wait() && mqttToken.Error() != nil {
		log.WithError(mqttToken.Error()).Fatal("failed to connect to broker")
	}
	defer client.Disconnect(250)

	percent := 0.0
	for percent < 100 {
		percent += *step
		if percent > 100 {
			percent = 100
		}

		payload, err := json.Marshal(models.ProgressUpdate{
			CompanyID: *companyID,
			TripID:    trip.ID.Hex(),
			Percent:   percent,
			Timestamp: time.Now(),
		})
		if err != nil {
			log.WithError(err).Fatal("failed to marshal update")
		}

		mqttToken := client.Publish(*topic, 1, false, payload)
		if mqttToken.Wait() && mqttToken.Error() != nil {
			log.WithError(mqttToken.Error()).Warn("publish failed")
		} else {
			log.WithFields(log.Fields{"trip": trip.ID.Hex(), "percent": percent}).Info("published progress")
		}

		time.Sleep(*interval)
	}

	if err := api.transition(trip.ID.Hex(), models.TripDelivered); err != nil {
		log.WithError(err).Fatal("failed to deliver trip")
	}
	log.Info("trip delivered")
}

type apiClient struct {
	base  string
	token string
}

func (c *apiClient) post(path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: status %d", http.MethodPost, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *apiClient) deployTrip() (*models.Trip, error) {
	var trip models.Trip
	err := c.post("/api/trips", map[string]interface{}{
		"origin":         "Harare",
		"destination":    "Beira",
		"distance_km":    560,
		"departure_date": time.Now().Format(time.RFC3339),
		"rate":           1800,
		"cargo_desc":     "simulated cargo",
	}, &trip)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (c *apiClient) transition(id string, to models.TripStatus) error {
	return c.post("/api/trips/"+id+"/transition", map[string]models.TripStatus{"to": to}, nil)
}
