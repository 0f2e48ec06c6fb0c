package room_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/chessroom/pkg/board"
	"github.com/corvidlabs/chessroom/pkg/logging"
	"github.com/corvidlabs/chessroom/pkg/room"
)

func TestAcquireSeatPairsTwoClientsInOneRoom(t *testing.T) {
	ctx := context.Background()
	reg := room.NewRegistry(0, logging.NoOp{})

	clientA, roomA, colorA, _ := reg.AcquireSeat(ctx)
	clientB, roomB, colorB, _ := reg.AcquireSeat(ctx)

	assert.Equal(t, roomA.ID, roomB.ID)
	assert.NotEqual(t, clientA, clientB)
	assert.Equal(t, board.White, colorA)
	assert.Equal(t, board.Black, colorB)
}

func TestAcquireSeatOpensNewRoomWhenFull(t *testing.T) {
	ctx := context.Background()
	reg := room.NewRegistry(0, logging.NoOp{})

	_, roomA, _, _ := reg.AcquireSeat(ctx)
	_, _, _, _ = reg.AcquireSeat(ctx)
	_, roomC, colorC, _ := reg.AcquireSeat(ctx)

	assert.NotEqual(t, roomA.ID, roomC.ID)
	assert.Equal(t, board.White, colorC)
}

func TestReleaseSeatFreesRoomForReuse(t *testing.T) {
	ctx := context.Background()
	reg := room.NewRegistry(0, logging.NoOp{})

	clientA, roomA, _, _ := reg.AcquireSeat(ctx)
	reg.ReleaseSeat(ctx, roomA, clientA)

	_, roomB, colorB, _ := reg.AcquireSeat(ctx)
	assert.Equal(t, roomA.ID, roomB.ID)
	assert.Equal(t, board.White, colorB)
}

func TestReapIdleRemovesEmptyRooms(t *testing.T) {
	ctx := context.Background()
	reg := room.NewRegistry(0, logging.NoOp{})

	clientA, roomA, _, _ := reg.AcquireSeat(ctx)
	reg.ReleaseSeat(ctx, roomA, clientA)

	reaped := reg.ReapIdle(ctx)
	assert.Equal(t, 1, reaped)

	_, ok := reg.Room(roomA.ID)
	assert.False(t, ok)
}

func TestBroadcastDropsOverflowedSubscriber(t *testing.T) {
	ctx := context.Background()
	reg := room.NewRegistry(1, logging.NoOp{})

	client, r, _, ch := reg.AcquireSeat(ctx)
	require.NotNil(t, ch)

	snap := r.Snapshot()
	reg.Broadcast(ctx, r, snap) // fills the capacity-1 channel
	reg.Broadcast(ctx, r, snap) // overflows, dropping the subscriber

	_, ok := r.SeatColor(client)
	assert.False(t, ok, "overflowed client must have its seat released")
}
