// Package main runs a demo WebSocket client for run events: it subscribes to
// one run, posts the solve, and prints events until the run completes.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dataset := os.Getenv("DATASET")
	if dataset == "" {
		dataset = "reference"
	}
	base := fmt.Sprintf("http://localhost:%s", port)
	runID := uuid.New().String()

	// Connect WS first so run.started is not missed
	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/runs/ws", RawQuery: "runId=" + runID}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var m wsMessage
			if err := c.ReadJSON(&m); err != nil {
				log.Printf("read: %v", err)
				return
			}
			data, _ := json.Marshal(m.Data)
			log.Printf("WS <- %s: %s", m.Type, string(data))
			if m.Type == "run.completed" || m.Type == "run.failed" {
				return
			}
		}
	}()

	time.Sleep(200 * time.Millisecond)
	body, _ := json.Marshal(map[string]any{"runId": runID, "dataset": dataset})
	resp, err := http.Post(base+"/v1/solve", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	var rep struct {
		Status string `json:"status"`
		Text   string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		log.Fatal(err)
	}
	log.Printf("HTTP %d status=%s", resp.StatusCode, rep.Status)
	fmt.Print(rep.Text)

	select {
	case <-time.After(5 * time.Second):
	case <-done:
	}
}
