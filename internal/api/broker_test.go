package api

import (
    "testing"
    "time"
)

func TestBrokerPublishSubscribe(t *testing.T) {
    b := NewBroker()
    rid := "run-1"
    ch := b.Subscribe(rid)

    evt := SSEEvent{Type: "run.started", Data: map[string]any{"x": 1}}
    b.Publish(rid, evt)
    b.Publish("other", SSEEvent{Type: "ignored"})

    select {
    case got := <-ch:
        if got.Type != evt.Type { t.Fatalf("got type %s, want %s", got.Type, evt.Type) }
        if got.Data["x"].(int) != 1 { t.Fatalf("bad payload: %+v", got.Data) }
    case <-time.After(200 * time.Millisecond):
        t.Fatal("timeout waiting for event")
    }
    select {
    case got := <-ch:
        t.Fatalf("unexpected event %+v", got)
    default:
    }

    b.Unsubscribe(rid, ch)
    if _, ok := <-ch; ok { t.Fatal("channel should be closed after unsubscribe") }
    // second unsubscribe is a no-op
    b.Unsubscribe(rid, ch)
}

func TestBrokerDropsWhenFull(t *testing.T) {
    b := NewBroker()
    ch := b.Subscribe(TopicRuns)
    defer b.Unsubscribe(TopicRuns, ch)
    for i := 0; i < 20; i++ {
        b.Publish(TopicRuns, SSEEvent{Type: "run.completed"})
    }
    if len(ch) != cap(ch) { t.Fatalf("want full buffer %d, got %d", cap(ch), len(ch)) }
}
