package http

import (
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/saferoute/internal/adapters/nats"
	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/pkg/metrics"
)

// wsMessage is sent from client to subscribe/unsubscribe to warning feeds.
type wsMessage struct {
	Action string `json:"action"` // "subscribe" | "unsubscribe"
	Label  string `json:"label"`  // safety label filter (optional, "" = all)
}

// warningSubjectFor maps a label filter onto a NATS subject.
func warningSubjectFor(label string) (string, bool) {
	if label == "" {
		return natsadapter.WarningSubjects, true
	}
	switch l := domain.SafetyLabel(label); l {
	case domain.LabelSafe, domain.LabelModerate, domain.LabelDangerous:
		return natsadapter.WarningSubject(l), true
	}
	return "", false
}

// subjectsToDrop lists the active subjects that overlap subject. The catch-all
// subject and the per-label subjects are mutually exclusive, so a client never
// receives the same warning twice.
func subjectsToDrop(subs map[string]*nats.Subscription, subject string) []string {
	var drop []string
	for s := range subs {
		if s == subject {
			continue
		}
		if subject == natsadapter.WarningSubjects || s == natsadapter.WarningSubjects {
			drop = append(drop, s)
		}
	}
	sort.Strings(drop)
	return drop
}

// WebSocketHandler returns a handler that upgrades to WebSocket and relays
// route hazard warnings to connected clients.
// Clients send JSON: {"action":"subscribe","label":"dangerous"}
// An empty label means every warning; new connections receive every warning.
// Subscribing to a label replaces the catch-all feed and subscribing to "" replaces
// any label feeds.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		remoteAddr := c.RemoteAddr().String()
		slog.Info("ws client connected", "remote", remoteAddr)

		var mu sync.Mutex
		subs := make(map[string]*nats.Subscription) // subject -> subscription

		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		relay := func(msg *nats.Msg) {
			_ = writeJSON(json.RawMessage(msg.Data))
		}

		sub, err := nc.Subscribe(natsadapter.WarningSubjects, relay)
		if err != nil {
			slog.Error("ws default subscribe failed", "error", err)
			return
		}
		subs[natsadapter.WarningSubjects] = sub

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			subject, ok := warningSubjectFor(m.Label)
			if !ok {
				_ = writeJSON(map[string]string{"error": "unknown label: " + m.Label})
				continue
			}

			switch m.Action {
			case "subscribe":
				if _, exists := subs[subject]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "subject": subject})
					continue
				}
				s, err := nc.Subscribe(subject, relay)
				if err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				for _, old := range subjectsToDrop(subs, subject) {
					_ = subs[old].Unsubscribe()
					delete(subs, old)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "subject": old})
				}
				subs[subject] = s
				_ = writeJSON(map[string]string{"status": "subscribed", "subject": subject})

			case "unsubscribe":
				if s, exists := subs[subject]; exists {
					_ = s.Unsubscribe()
					delete(subs, subject)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "subject": subject})
				} else {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + subject})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		slog.Info("ws client disconnected", "remote", remoteAddr)
	}
}
