package service

import "sync"

// MatchmakingQueue is the process-wide FIFO of players waiting for a quick
// match. Membership is unique; pairing order follows enqueue order.
type MatchmakingQueue interface {
	Enqueue(id string) bool
	Dequeue(id string) bool
	TryMatch(requester string) (string, bool)
	Len() int
}

type matchmakingQueue struct {
	mu      sync.Mutex
	waiting []string
	members map[string]struct{}
}

func NewMatchmakingQueue() MatchmakingQueue {
	return &matchmakingQueue{
		members: make(map[string]struct{}),
	}
}

func (that *matchmakingQueue) Enqueue(id string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.enqueueLocked(id)
}

func (that *matchmakingQueue) Dequeue(id string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.dequeueLocked(id)
}

// TryMatch pairs the requester with the oldest queued player other than
// itself, removing both atomically. Without an eligible opponent the
// requester is enqueued and no pairing is reported.
func (that *matchmakingQueue) TryMatch(requester string) (string, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, id := range that.waiting {
		if id == requester {
			continue
		}

		that.dequeueLocked(id)
		that.dequeueLocked(requester)

		return id, true
	}

	that.enqueueLocked(requester)

	return "", false
}

func (that *matchmakingQueue) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.waiting)
}

func (that *matchmakingQueue) enqueueLocked(id string) bool {
	if _, ok := that.members[id]; ok {
		return false
	}

	that.waiting = append(that.waiting, id)
	that.members[id] = struct{}{}

	return true
}

func (that *matchmakingQueue) dequeueLocked(id string) bool {
	if _, ok := that.members[id]; !ok {
		return false
	}

	delete(that.members, id)

	for i, queued := range that.waiting {
		if queued == id {
			that.waiting = append(that.waiting[:i], that.waiting[i+1:]...)
			break
		}
	}

	return true
}
