package http

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/skylog/internal/adapters/nats"
	"github.com/samirrijal/skylog/internal/pkg/metrics"
)

// wsMessage is sent from client to subscribe/unsubscribe to report feeds.
type wsMessage struct {
	Action string `json:"action"` // "subscribe" | "unsubscribe"
	From   string `json:"from"`   // departure airport filter (optional, "" = any)
	To     string `json:"to"`     // arrival airport filter (optional, "" = any)
}

// WebSocketHandler relays computed night reports from NATS to connected
// clients as JSON. Clients send {"action":"subscribe","from":"EGLL","to":"KJFK"};
// IATA codes are translated to ICAO when the directory knows them.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		remoteAddr := c.RemoteAddr().String()
		log := slog.With("remote", remoteAddr)

		var mu sync.Mutex
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		if deps.NATS == nil {
			_ = writeJSON(map[string]string{"error": "report feed not available"})
			return
		}

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()
		log.Info("ws client connected")

		relay := func(msg *nats.Msg) {
			report, err := natsadapter.DecodeReport(msg.Data)
			if err != nil {
				log.Warn("ws drop undecodable report", "subject", msg.Subject, "error", err)
				return
			}
			_ = writeJSON(report)
		}

		subs := make(map[string]*nats.Subscription)

		// Auto-subscribe to every report by default
		sub, err := deps.NATS.Subscribe(natsadapter.SubjectReports, relay)
		if err != nil {
			log.Error("ws default subscribe failed", "error", err)
			return
		}
		subs[natsadapter.SubjectReports] = sub

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

			subject, ok := reportSubject(deps, m.From, m.To)
			if !ok {
				_ = writeJSON(map[string]string{"error": "invalid airport filter"})
				continue
			}

			switch m.Action {
			case "subscribe":
				if _, exists := subs[subject]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "subject": subject})
					continue
				}
				s, err := deps.NATS.Subscribe(subject, relay)
				if err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
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
		log.Info("ws client disconnected")
	}
}

// reportSubject builds the NATS subject for an optional from/to filter.
func reportSubject(deps *Dependencies, from, to string) (string, bool) {
	if from == "" && to == "" {
		return natsadapter.SubjectReports, true
	}
	f, ok := subjectToken(deps, from)
	if !ok {
		return "", false
	}
	t, ok := subjectToken(deps, to)
	if !ok {
		return "", false
	}
	return "skylog.report." + f + "." + t, true
}

func subjectToken(deps *Dependencies, code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "*", true
	}
	if strings.ContainsAny(code, ".*> \t") {
		return "", false
	}
	if deps.Airports != nil {
		if icao, ok := deps.Airports.ToICAO(code); ok {
			return icao, true
		}
	}
	return code, true
}
