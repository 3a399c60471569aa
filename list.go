package linkheap

import "encoding/binary"

// nilRef marks an empty list head.
const nilRef = ^uint32(0)

// When using LittleEndian, link words are plain uint32 reads of the arena.
var order = binary.LittleEndian

// links is the arena viewed as a graph of circular doubly-linked list nodes.
// A node is the offset of a {next, prev uint32} pair; every access is bounds-checked.
//
//	node
//	  |
//	  v
//	  +------------+------------+
//	  |  next(32)  |  prev(32)  |
//	  +------------+------------+
type links []byte

func (m links) next(n uint32) uint32 { return order.Uint32(m[n:]) }

func (m links) prev(n uint32) uint32 { return order.Uint32(m[n+4:]) }

func (m links) setNext(n, v uint32) { order.PutUint32(m[n:], v) }

func (m links) setPrev(n, v uint32) { order.PutUint32(m[n+4:], v) }

// listInit makes n a self-referential singleton.
func (m links) listInit(n uint32) {
	m.setNext(n, n)
	m.setPrev(n, n)
}

// listInsertAfter splices the ring holding b in right after a.
func (m links) listInsertAfter(a, b uint32) {
	an, bp := m.next(a), m.prev(b)

	m.setNext(a, b)
	m.setPrev(b, a)
	m.setNext(bp, an)
	m.setPrev(an, bp)
}

// listInsertBefore splices the ring holding b in right before a.
func (m links) listInsertBefore(a, b uint32) {
	m.listInsertAfter(m.prev(a), b)
}

// listRemove unlinks n from whichever ring it is in and leaves it a singleton.
func (m links) listRemove(n uint32) {
	p, nx := m.prev(n), m.next(n)
	m.setNext(p, nx)
	m.setPrev(nx, p)
	m.listInit(n)
}

// listPush puts singleton n in front of the list at head.
func (m links) listPush(head *uint32, n uint32) {
	if *head != nilRef {
		m.listInsertBefore(*head, n)
	}
	*head = n
}

// listPop detaches the head node and advances head to its successor.
func (m links) listPop(head *uint32) uint32 {
	d1 := *head
	d2 := m.next(d1)
	m.listRemove(d1)
	if d1 == d2 {
		*head = nilRef
	} else {
		*head = d2
	}
	return d1
}

// listRemoveFrom unlinks a known member n of the list at head.
func (m links) listRemoveFrom(head *uint32, n uint32) {
	if *head == n {
		m.listPop(head)
	} else {
		m.listRemove(n)
	}
}
