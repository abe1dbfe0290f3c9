package processor

import (
	"sync"

	"github.com/viant/meshgopher/service/transport"
)

// dispatcher fans inbound events out to per-node mailboxes. Events for the
// same node run strictly in arrival order; events for distinct nodes run
// concurrently, bounded by the worker semaphore.
type dispatcher struct {
	service   *Service
	semaphore chan struct{}

	mu        sync.Mutex
	mailboxes map[string][]*transport.Event
	active    map[string]bool
	wg        sync.WaitGroup
}

func newDispatcher(service *Service, workers int) *dispatcher {
	return &dispatcher{
		service:   service,
		semaphore: make(chan struct{}, workers),
		mailboxes: make(map[string][]*transport.Event),
		active:    make(map[string]bool),
	}
}

// enqueue appends the event to its node mailbox and starts a drain
// goroutine unless one is already running for that node.
func (d *dispatcher) enqueue(event *transport.Event) {
	d.mu.Lock()
	d.mailboxes[event.NodeID] = append(d.mailboxes[event.NodeID], event)
	if d.active[event.NodeID] {
		d.mu.Unlock()
		return
	}
	d.active[event.NodeID] = true
	d.wg.Add(1)
	d.mu.Unlock()
	go d.drain(event.NodeID)
}

// drain works the node's mailbox in FIFO order until it is empty, then
// exits so idle nodes cost nothing.
func (d *dispatcher) drain(nodeID string) {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		queue := d.mailboxes[nodeID]
		if len(queue) == 0 {
			delete(d.mailboxes, nodeID)
			delete(d.active, nodeID)
			d.mu.Unlock()
			return
		}
		event := queue[0]
		d.mailboxes[nodeID] = queue[1:]
		d.mu.Unlock()

		select {
		case <-d.service.shutdownCh:
			// Shutting down; discard what is still queued.
			continue
		case d.semaphore <- struct{}{}:
		}
		d.service.handleEvent(event)
		<-d.semaphore
	}
}

// wait blocks until every drain goroutine has exited.
func (d *dispatcher) wait() {
	d.wg.Wait()
}
