package hub

import (
	"context"
	"testing"
	"time"

	"buckeyeborrow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runHub(t *testing.T) *Hub {
	t.Helper()
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func receive(t *testing.T, sub *Subscription) []byte {
	t.Helper()
	select {
	case payload := <-sub.C:
		return payload
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
		return nil
	}
}

func TestBroadcastReachesEveryRoomViewer(t *testing.T) {
	h := runHub(t)

	first := h.Subscribe("req-1")
	second := h.Subscribe("req-1")
	other := h.Subscribe("req-2")
	defer h.Unsubscribe(other)

	h.Broadcast("req-1", []byte("hello"))

	assert.Equal(t, []byte("hello"), receive(t, first))
	assert.Equal(t, []byte("hello"), receive(t, second))
	select {
	case payload := <-other.C:
		t.Fatalf("viewer of another room received %q", payload)
	case <-time.After(50 * time.Millisecond):
	}

	h.Unsubscribe(first)
	h.Unsubscribe(second)
}

func TestUnsubscribeClosesChannelAndEmptiesRoom(t *testing.T) {
	h := runHub(t)

	sub := h.Subscribe("req-1")
	h.Unsubscribe(sub)

	select {
	case _, ok := <-sub.C:
		assert.False(t, ok, "channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after unsubscribe")
	}

	// The room is gone; broadcasting to it is a no-op.
	h.Broadcast("req-1", []byte("into the void"))
	assert.Eventually(t, func() bool { return h.ViewerCount("req-1") == 0 }, time.Second, 10*time.Millisecond)
}

func TestOrderedInsertConvergesRegardlessOfArrival(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	mk := func(id string, offset time.Duration) models.RequestCommentView {
		return models.RequestCommentView{
			RequestComment: models.RequestComment{ID: id, CommentText: id, CreatedAt: base.Add(offset)},
		}
	}

	a := mk("a", 0)
	b := mk("b", time.Second)
	c := mk("c", 2*time.Second)
	// Same timestamp as b: id breaks the tie.
	b2 := mk("bz", time.Second)

	arrivals := [][]models.RequestCommentView{
		{a, b, b2, c},
		{c, b2, b, a},
		{b2, c, a, b},
	}

	var results [][]string
	for _, arrival := range arrivals {
		var ordered []models.RequestCommentView
		for _, comment := range arrival {
			ordered = OrderedInsert(ordered, comment)
		}
		ids := make([]string, len(ordered))
		for i, comment := range ordered {
			ids[i] = comment.ID
		}
		results = append(results, ids)
	}

	require.Equal(t, []string{"a", "b", "bz", "c"}, results[0])
	assert.Equal(t, results[0], results[1])
	assert.Equal(t, results[0], results[2])
}
