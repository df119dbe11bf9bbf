package mqtt

import (
	"fmt"
	"testing"
)

func TestRingBufferEmpty(t *testing.T) {
	rb := newRingBuffer(10)

	if rb.len() != 0 {
		t.Errorf("new buffer length: got %d, want 0", rb.len())
	}
	if got := rb.drainAll(); got != nil {
		t.Errorf("drain of empty buffer: got %v, want nil", got)
	}
}

func TestRingBufferPushAndDrain(t *testing.T) {
	rb := newRingBuffer(10)

	for i := 0; i < 3; i++ {
		rb.push(queuedMsg{topic: Topic, payload: []byte(fmt.Sprintf("m%d", i))})
	}

	if rb.len() != 3 {
		t.Fatalf("length: got %d, want 3", rb.len())
	}

	msgs := rb.drainAll()
	if len(msgs) != 3 {
		t.Fatalf("drained: got %d, want 3", len(msgs))
	}
	for i, m := range msgs {
		want := fmt.Sprintf("m%d", i)
		if string(m.payload) != want {
			t.Errorf("message %d: got %q, want %q", i, m.payload, want)
		}
	}

	if rb.len() != 0 {
		t.Errorf("length after drain: got %d, want 0", rb.len())
	}
}

func TestRingBufferOverflowDropsOldest(t *testing.T) {
	const capacity = 4
	rb := newRingBuffer(capacity)

	for i := 0; i < capacity+2; i++ {
		rb.push(queuedMsg{payload: []byte(fmt.Sprintf("m%d", i))})
	}

	if rb.len() != capacity {
		t.Fatalf("length: got %d, want %d", rb.len(), capacity)
	}

	msgs := rb.drainAll()
	// m0 and m1 dropped; m2..m5 remain in order.
	for i, m := range msgs {
		want := fmt.Sprintf("m%d", i+2)
		if string(m.payload) != want {
			t.Errorf("message %d: got %q, want %q", i, m.payload, want)
		}
	}
}

func TestRingBufferReuseAfterDrain(t *testing.T) {
	rb := newRingBuffer(3)

	rb.push(queuedMsg{payload: []byte("a")})
	rb.drainAll()

	rb.push(queuedMsg{payload: []byte("b")})
	rb.push(queuedMsg{payload: []byte("c")})

	msgs := rb.drainAll()
	if len(msgs) != 2 {
		t.Fatalf("drained: got %d, want 2", len(msgs))
	}
	if string(msgs[0].payload) != "b" || string(msgs[1].payload) != "c" {
		t.Errorf("unexpected order: %q, %q", msgs[0].payload, msgs[1].payload)
	}
}

func TestRingBufferPreservesMessageFields(t *testing.T) {
	rb := newRingBuffer(2)

	rb.push(queuedMsg{topic: TopicSystem, payload: []byte("x"), qos: 1, retained: true})

	msgs := rb.drainAll()
	if len(msgs) != 1 {
		t.Fatalf("drained: got %d, want 1", len(msgs))
	}
	m := msgs[0]
	if m.topic != TopicSystem || m.qos != 1 || !m.retained {
		t.Errorf("fields lost: %+v", m)
	}
}
