package session_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/chessroom/pkg/logging"
	"github.com/corvidlabs/chessroom/pkg/room"
	"github.com/corvidlabs/chessroom/pkg/session"
)

// fakeConn is an in-process transport.Connection double: inbound is a
// scripted queue of client messages, outbound records every server write.
type fakeConn struct {
	inbound  chan []byte
	outbound chan []byte
	closed   chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound:  make(chan []byte, 16),
		outbound: make(chan []byte, 16),
		closed:   make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage(ctx context.Context) ([]byte, error) {
	select {
	case data, ok := <-c.inbound:
		if !ok {
			return nil, context.Canceled
		}
		return data, nil
	case <-c.closed:
		return nil, context.Canceled
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *fakeConn) WriteMessage(ctx context.Context, data []byte) error {
	select {
	case c.outbound <- data:
		return nil
	default:
		return nil
	}
}

func (c *fakeConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return nil
}

func (c *fakeConn) send(t *testing.T, v string) {
	t.Helper()
	c.inbound <- []byte(v)
}

func (c *fakeConn) nextMessage(t *testing.T) map[string]any {
	t.Helper()
	select {
	case data := <-c.outbound:
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for outbound message")
		return nil
	}
}

func TestSessionSendsColorAssignmentAndInitialSnapshot(t *testing.T) {
	ctx := context.Background()
	reg := room.NewRegistry(0, logging.NoOp{})
	conn := newFakeConn()

	session.New(ctx, conn, reg, logging.NoOp{})

	assigned := conn.nextMessage(t)
	assert.Equal(t, "assign_color", assigned["instruction_type"])
	assert.Equal(t, "white", assigned["color"])

	snap := conn.nextMessage(t)
	assert.Equal(t, "White", snap["turn"])
}

func TestRequestMoveBroadcastsToSecondPlayer(t *testing.T) {
	ctx := context.Background()
	reg := room.NewRegistry(0, logging.NoOp{})

	connWhite := newFakeConn()
	session.New(ctx, connWhite, reg, logging.NoOp{})
	connWhite.nextMessage(t) // assign_color
	connWhite.nextMessage(t) // initial snapshot

	connBlack := newFakeConn()
	session.New(ctx, connBlack, reg, logging.NoOp{})
	connBlack.nextMessage(t) // assign_color
	connBlack.nextMessage(t) // initial snapshot

	connWhite.send(t, `{"instruction_type":"request_move","square_clicked":"12","destination":"28"}`)

	snapWhite := connWhite.nextMessage(t)
	assert.Equal(t, "Black", snapWhite["turn"])

	snapBlack := connBlack.nextMessage(t)
	assert.Equal(t, "Black", snapBlack["turn"])
}

func TestIllegalColorMoveIsSilentlyIgnored(t *testing.T) {
	ctx := context.Background()
	reg := room.NewRegistry(0, logging.NoOp{})

	connWhite := newFakeConn()
	session.New(ctx, connWhite, reg, logging.NoOp{})
	connWhite.nextMessage(t)
	connWhite.nextMessage(t)

	connBlack := newFakeConn()
	session.New(ctx, connBlack, reg, logging.NoOp{})
	connBlack.nextMessage(t)
	connBlack.nextMessage(t)

	// Black attempts to move before White; the session's turn check against
	// its seated color rejects it and no broadcast follows.
	connBlack.send(t, `{"instruction_type":"request_move","square_clicked":"52","destination":"36"}`)

	select {
	case <-connBlack.outbound:
		t.Fatal("expected no broadcast for an out-of-turn move")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestGetLegalMovesRepliesWithSquareArray(t *testing.T) {
	ctx := context.Background()
	reg := room.NewRegistry(0, logging.NoOp{})

	conn := newFakeConn()
	session.New(ctx, conn, reg, logging.NoOp{})
	conn.nextMessage(t)
	conn.nextMessage(t)

	conn.send(t, `{"instruction_type":"get_legal_moves","square_clicked":"12"}`)

	select {
	case data := <-conn.outbound:
		var targets []int
		require.NoError(t, json.Unmarshal(data, &targets))
		assert.ElementsMatch(t, []int{20, 28}, targets)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for legal-moves reply")
	}
}
