// Implements the ActiveQueue, which holds every packet that has arrived but is not fully sent.
// Packets are enqueued on arrival and removed once their last bit is transmitted.

package sim

import (
	"container/list"
	"fmt"
	"strings"
)

// QueueView is the read-only view of the active queue handed to a Strategy.
// Packets are returned by value, so a strategy cannot mutate queue state.
type QueueView interface {
	// Len returns the number of queued packets.
	Len() int
	// Head returns the earliest-enqueued packet.
	Head() (Packet, bool)
	// HeadOfFlow returns the earliest-enqueued packet of the given flow.
	HeadOfFlow(flowID int) (Packet, bool)
	// Contains reports whether the packet is still queued.
	Contains(id PacketID) bool
	// Get returns a copy of a queued packet.
	Get(id PacketID) (Packet, bool)
}

type queueEntry struct {
	slot     int           // index into the packet arena
	elem     *list.Element // position in arrival order
	flowElem *list.Element // position in the flow's own order
}

// ActiveQueue keeps packets in insertion order, with O(1) lookup by id
// and O(1) access to the head of every flow.
type ActiveQueue struct {
	packets []Packet // arena owned by the Simulator; the queue stores slots only
	order   *list.List
	byFlow  []*list.List
	index   map[PacketID]queueEntry
}

// NewActiveQueue creates an empty queue over the given packet arena.
func NewActiveQueue(arena []Packet, numFlows int) *ActiveQueue {
	byFlow := make([]*list.List, numFlows)
	for i := range byFlow {
		byFlow[i] = list.New()
	}
	return &ActiveQueue{
		packets: arena,
		order:   list.New(),
		byFlow:  byFlow,
		index:   make(map[PacketID]queueEntry),
	}
}

// Enqueue adds the packet stored at the given arena slot to the back of the queue.
func (q *ActiveQueue) Enqueue(slot int) {
	p := &q.packets[slot]
	if _, ok := q.index[p.ID]; ok {
		panic(fmt.Sprintf("Enqueue: packet %d already queued", p.ID))
	}
	q.index[p.ID] = queueEntry{
		slot:     slot,
		elem:     q.order.PushBack(slot),
		flowElem: q.byFlow[p.FlowID].PushBack(slot),
	}
}

// Remove drops a packet from the queue and returns its arena slot.
func (q *ActiveQueue) Remove(id PacketID) (int, bool) {
	e, ok := q.index[id]
	if !ok {
		return 0, false
	}
	q.order.Remove(e.elem)
	q.byFlow[q.packets[e.slot].FlowID].Remove(e.flowElem)
	delete(q.index, id)
	return e.slot, true
}

// Slot returns the arena slot of a queued packet.
func (q *ActiveQueue) Slot(id PacketID) (int, bool) {
	e, ok := q.index[id]
	return e.slot, ok
}

func (q *ActiveQueue) Len() int {
	return len(q.index)
}

func (q *ActiveQueue) Head() (Packet, bool) {
	front := q.order.Front()
	if front == nil {
		return Packet{}, false
	}
	return q.packets[front.Value.(int)], true
}

func (q *ActiveQueue) HeadOfFlow(flowID int) (Packet, bool) {
	if flowID < 0 || flowID >= len(q.byFlow) {
		return Packet{}, false
	}
	front := q.byFlow[flowID].Front()
	if front == nil {
		return Packet{}, false
	}
	return q.packets[front.Value.(int)], true
}

func (q *ActiveQueue) Contains(id PacketID) bool {
	_, ok := q.index[id]
	return ok
}

func (q *ActiveQueue) Get(id PacketID) (Packet, bool) {
	e, ok := q.index[id]
	if !ok {
		return Packet{}, false
	}
	return q.packets[e.slot], true
}

// FlowLen returns the number of queued packets of one flow.
func (q *ActiveQueue) FlowLen(flowID int) int {
	if flowID < 0 || flowID >= len(q.byFlow) {
		return 0
	}
	return q.byFlow[flowID].Len()
}

// Items returns copies of the queued packets in insertion order.
func (q *ActiveQueue) Items() []Packet {
	items := make([]Packet, 0, q.order.Len())
	for e := q.order.Front(); e != nil; e = e.Next() {
		items = append(items, q.packets[e.Value.(int)])
	}
	return items
}

func (q *ActiveQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for e := q.order.Front(); e != nil; e = e.Next() {
		sb.WriteString(fmt.Sprint(q.packets[e.Value.(int)].ID))
		if e.Next() != nil {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
