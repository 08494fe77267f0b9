package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() Event {
	return Event{
		OrderID:     "o-1",
		OrderNumber: "ORD2610180001",
		CustomerID:  "c-1",
		Status:      "confirmed",
		Message:     "Order confirmed",
		At:          time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
	}
}

func TestKafka_PublishesJSONKeyedByOrder(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(m *sarama.ProducerMessage) error {
		key, _ := m.Key.Encode()
		if string(key) != "o-1" {
			return errors.New("unexpected key " + string(key))
		}
		val, _ := m.Value.Encode()
		var ev Event
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if ev.Status != "confirmed" {
			return errors.New("unexpected status " + ev.Status)
		}
		return nil
	})

	k := NewKafkaWithProducer(sp, "order-events")
	require.NoError(t, k.OrderEvent(context.Background(), sampleEvent()))
	require.NoError(t, k.Close())
}

func TestKafka_SendFailure(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	k := NewKafkaWithProducer(sp, "order-events")
	err := k.OrderEvent(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	_ = k.Close()
}

type failing struct{ calls int }

func (f *failing) OrderEvent(context.Context, Event) error {
	f.calls++
	return errors.New("boom")
}

func TestMulti_DeliversToAll(t *testing.T) {
	a, b := &failing{}, &failing{}
	err := Multi{a, Log{}, b}.OrderEvent(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestHub_SubscribeAndUnsubscribe(t *testing.T) {
	h := NewHub(nil)
	ch, cancel := h.Subscribe("o-1")
	assert.Equal(t, 1, h.Subscribers("o-1"))

	require.NoError(t, h.OrderEvent(context.Background(), sampleEvent()))
	select {
	case ev := <-ch:
		assert.Equal(t, "confirmed", ev.Status)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}

	other := sampleEvent()
	other.OrderID = "o-2"
	require.NoError(t, h.OrderEvent(context.Background(), other))
	assert.Len(t, ch, 0)

	cancel()
	cancel()
	assert.Equal(t, 0, h.Subscribers("o-1"))
}

func TestHub_ServeStreamsEvents(t *testing.T) {
	h := NewHub(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		events, unsubscribe := h.Subscribe("o-1")
		defer unsubscribe()
		_ = h.Serve(w, r, events, map[string]string{"status": "placed"})
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var first map[string]string
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "placed", first["status"])

	require.Eventually(t, func() bool { return h.Subscribers("o-1") == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, h.OrderEvent(context.Background(), sampleEvent()))

	var ev Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "ORD2610180001", ev.OrderNumber)
}

func TestHub_ServeKeepsEventsPublishedBeforeUpgrade(t *testing.T) {
	h := NewHub(nil)
	events, unsubscribe := h.Subscribe("o-1")
	defer unsubscribe()

	// status changes between reading the snapshot and the upgrade
	require.NoError(t, h.OrderEvent(context.Background(), sampleEvent()))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = h.Serve(w, r, events, map[string]string{"status": "placed"})
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var first map[string]string
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "placed", first["status"])

	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "confirmed", ev.Status)
}
