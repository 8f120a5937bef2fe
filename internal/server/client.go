package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"jotunheim-weather/internal/engine"
	"jotunheim-weather/internal/timeline"
	"jotunheim-weather/pkg/api"
	"jotunheim-weather/pkg/logger"
	"jotunheim-weather/pkg/utils"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и WeatherService.
// Каждая сессия смотрит на свой мир (seed), часы общие.
type Client struct {
	Engine    *engine.WeatherService
	Conn      *websocket.Conn
	Send      chan api.ServerMessage
	SessionID string

	seed atomic.Uint32
	done chan struct{} // закрывается, когда writePump завершился
	log  *logrus.Entry
}

func NewClient(e *engine.WeatherService, conn *websocket.Conn) *Client {
	id := utils.GenerateID()
	c := &Client{
		Engine:    e,
		Conn:      conn,
		Send:      make(chan api.ServerMessage, 64),
		SessionID: id,
		done:      make(chan struct{}),
		log:       logger.Component("ws").WithField("session_id", id),
	}
	c.seed.Store(e.DefaultSeed())
	return c
}

// handleWS обрабатывает подключение по WebSocket
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("Upgrade error:", err)
		return
	}

	client := NewClient(s.Engine, conn)
	client.log.Info("Client connected")

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

// send не блокируется навсегда, если writePump уже умер
func (c *Client) send(msg api.ServerMessage) {
	select {
	case c.Send <- msg:
	case <-c.done:
	}
}

// forwardClock превращает общие CLOCK в UPDATE для мира этой сессии.
// Завершается, когда Hub закрыл канал подписки.
func (c *Client) forwardClock(updates <-chan api.ServerMessage, finished chan<- struct{}) {
	defer close(finished)
	for msg := range updates {
		if msg.Type != api.MessageClock {
			c.send(msg)
			continue
		}
		c.sendReport(api.MessageUpdate, timeline.Tick(msg.Tick))
	}
}

func (c *Client) sendReport(kind string, tick timeline.Tick) {
	report, err := c.Engine.Report(engine.Query{Tick: tick, Seed: c.seed.Load()})
	if err != nil {
		c.sendError(int64(tick), err)
		return
	}
	c.send(api.ServerMessage{Type: kind, Tick: report.Tick, Report: &report})
}

func (c *Client) sendError(tick int64, err error) {
	c.send(api.ServerMessage{Type: api.MessageError, Tick: tick, Error: err.Error()})
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	// Подписка на часы. Send закрываем только после выхода forwardClock.
	updates := c.Engine.Hub.Register(c.SessionID)
	forwarded := make(chan struct{})
	go c.forwardClock(updates, forwarded)

	defer func() {
		c.Engine.Hub.Unregister(c.SessionID)
		<-forwarded
		close(c.Send)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// Сразу отдаем текущую погоду
	c.sendReport(api.MessageUpdate, c.Engine.Clock.Now())

	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Errorf("WS Error: %v", err)
			}
			return
		}
		c.handleCommand(cmd)
	}
}

func (c *Client) handleCommand(cmd api.ClientCommand) {
	c.log.WithField("action", cmd.Action).Debug("Command received")

	switch cmd.Action {
	case api.ActionSubscribe:
		var p api.SubscribePayload
		if err := decodePayload(cmd.Payload, &p); err != nil {
			c.sendError(0, err)
			return
		}
		c.seed.Store(c.Engine.ResolveSeed(p.Seed))
		c.sendReport(api.MessageUpdate, c.Engine.Clock.Now())

	case api.ActionAt:
		var p api.AtPayload
		if err := decodePayload(cmd.Payload, &p); err != nil {
			c.sendError(0, err)
			return
		}
		tick, err := atTick(p)
		if err != nil {
			c.sendError(0, err)
			return
		}
		c.sendReport(api.MessageReport, tick)

	case api.ActionForecast:
		var p api.ForecastPayload
		if err := decodePayload(cmd.Payload, &p); err != nil {
			c.sendError(0, err)
			return
		}
		forecast, err := c.Engine.Forecast(c.seed.Load(), p.FromDay, p.ToDay)
		if err != nil {
			c.sendError(0, err)
			return
		}
		c.send(api.ServerMessage{Type: api.MessageForecast, Tick: forecast.FromTick, Forecast: &forecast})

	default:
		c.sendError(0, errors.New("unknown action: "+cmd.Action))
	}
}

// atTick: явный tick, иначе day + time
func atTick(p api.AtPayload) (timeline.Tick, error) {
	if p.Tick != nil {
		t := timeline.Tick(*p.Tick)
		return t, t.Validate()
	}
	clock, err := timeline.ParseClock(p.Time)
	if err != nil {
		return 0, err
	}
	return timeline.DayTick(p.Day, clock)
}

// decodePayload распаковывает и валидирует payload
func decodePayload(raw json.RawMessage, dst api.Validator) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return invalidInput(err)
	}
	if err := dst.Validate(); err != nil {
		return invalidInput(err)
	}
	return nil
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
