package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jotunheim-weather/pkg/api"

	"github.com/gorilla/websocket"
)

func dialWS(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) api.ServerMessage {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("deadline: %v", err)
	}
	var msg api.ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestWebSocketSession(t *testing.T) {
	s := newTestServer(t)
	conn := dialWS(t, s)

	// Приветственный UPDATE на текущий тик часов
	hello := readMessage(t, conn)
	if hello.Type != api.MessageUpdate || hello.Report == nil {
		t.Fatalf("first message = %+v, want UPDATE with report", hello)
	}

	send := func(cmd string) {
		t.Helper()
		if err := conn.WriteMessage(websocket.TextMessage, []byte(cmd)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	send(`{"action":"AT","payload":{"day":984,"time":"13:41"}}`)
	report := readMessage(t, conn)
	if report.Type != api.MessageReport || report.Report.Weathers[1] != "ThunderStorm" {
		t.Fatalf("AT response = %+v", report)
	}

	send(`{"action":"SUBSCRIBE","payload":{"seed":"12345"}}`)
	update := readMessage(t, conn)
	if update.Type != api.MessageUpdate || update.Report.NumericSeed != 12345 {
		t.Fatalf("SUBSCRIBE response = %+v", update)
	}

	send(`{"action":"AT","payload":{"tick":1772226}}`)
	report = readMessage(t, conn)
	if report.Report.Weathers[1] != "Misty" {
		t.Errorf("seeded BlackForest = %s, want Misty", report.Report.Weathers[1])
	}

	send(`{"action":"FORECAST","payload":{"fromDay":1,"toDay":1}}`)
	forecast := readMessage(t, conn)
	if forecast.Type != api.MessageForecast || forecast.Forecast == nil || forecast.Forecast.NumericSeed != 12345 {
		t.Fatalf("FORECAST response = %+v", forecast)
	}

	send(`{"action":"AT","payload":{"day":-3}}`)
	if msg := readMessage(t, conn); msg.Type != api.MessageError {
		t.Errorf("negative day response = %+v, want ERROR", msg)
	}

	send(`{"action":"DANCE"}`)
	if msg := readMessage(t, conn); msg.Type != api.MessageError || !strings.Contains(msg.Error, "DANCE") {
		t.Errorf("unknown action response = %+v", msg)
	}
}

func TestWebSocketClockUpdate(t *testing.T) {
	s := newTestServer(t)
	conn := dialWS(t, s)
	readMessage(t, conn)

	// Ждем регистрации сессии в Hub
	deadline := time.Now().Add(2 * time.Second)
	for s.Engine.Hub.SubscriberCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if n := s.Engine.Hub.Broadcast(api.ServerMessage{Type: api.MessageClock, Tick: 1772226}); n != 1 {
		t.Fatalf("broadcast delivered to %d sessions, want 1", n)
	}
	msg := readMessage(t, conn)
	if msg.Type != api.MessageUpdate || msg.Tick != 1772226 || msg.Report.Weathers[1] != "ThunderStorm" {
		t.Errorf("clock update = %+v", msg)
	}
}
