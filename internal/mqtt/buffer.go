package mqtt

import "sync"

// bufferedMsg stores a serialized MQTT message waiting for the sender.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer is a fixed-capacity FIFO that overwrites its oldest entry when full.
// Not safe for concurrent use; outbox synchronizes it.
type ringBuffer struct {
	buf     []bufferedMsg
	head    int // next write position
	count   int
	dropped uint64 // messages overwritten since creation
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{buf: make([]bufferedMsg, capacity)}
}

// push appends msg and reports whether the oldest message was dropped to make room.
func (r *ringBuffer) push(msg bufferedMsg) bool {
	full := r.count == len(r.buf)
	r.buf[r.head] = msg
	r.head = (r.head + 1) % len(r.buf)
	if full {
		r.dropped++
		return true
	}
	r.count++
	return false
}

// drainAll returns queued messages oldest first and empties the buffer.
func (r *ringBuffer) drainAll() []bufferedMsg {
	if r.count == 0 {
		return nil
	}

	out := make([]bufferedMsg, r.count)
	start := (r.head - r.count + len(r.buf)) % len(r.buf)
	for i := range out {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}

	r.count = 0
	r.head = 0
	return out
}

func (r *ringBuffer) len() int {
	return r.count
}

// outbox hands messages from the control loop to the sender goroutine.
// put never blocks, so a slow or absent broker cannot stall the LED.
type outbox struct {
	mu     sync.Mutex
	ring   *ringBuffer
	notify chan struct{}
}

func newOutbox(capacity int) *outbox {
	return &outbox{
		ring:   newRingBuffer(capacity),
		notify: make(chan struct{}, 1),
	}
}

// put queues msg and wakes the sender. Returns true if an older message was dropped.
func (o *outbox) put(msg bufferedMsg) bool {
	o.mu.Lock()
	dropped := o.ring.push(msg)
	o.mu.Unlock()

	o.wake()
	return dropped
}

// wake nudges the sender without queueing anything.
func (o *outbox) wake() {
	select {
	case o.notify <- struct{}{}:
	default:
	}
}

// take returns everything queued so far.
func (o *outbox) take() []bufferedMsg {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ring.drainAll()
}

func (o *outbox) dropped() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ring.dropped
}
