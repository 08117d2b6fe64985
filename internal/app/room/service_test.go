package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairlink/internal/app/marker"
	"pairlink/internal/app/store"
	"pairlink/internal/app/user"
	"pairlink/internal/pkg/errs"
)

type testEnv struct {
	svc    *Service
	dir    *Directory
	users  *user.Registry
	ledger *marker.Ledger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s := store.NewMemory()
	t.Cleanup(s.Close)

	dir := NewDirectory(s)
	users := user.NewRegistry(s)
	ledger := marker.NewLedger(s, time.Minute)

	return &testEnv{
		svc:    NewService(dir, users, ledger),
		dir:    dir,
		users:  users,
		ledger: ledger,
	}
}

func assertCode(t *testing.T, err *errs.CustomError, code int) {
	t.Helper()

	require.NotNil(t, err, "expected error code %d, got success", code)
	assert.Equal(t, code, err.Code)
}

func (e *testEnv) mustCreate(t *testing.T, name, password string, limit int, displayName string) *JoinResult {
	t.Helper()

	result, err := e.svc.Create(context.Background(), name, password, limit, displayName)
	require.Nil(t, err)
	return result
}

func (e *testEnv) mustJoin(t *testing.T, name, password, displayName string) *JoinResult {
	t.Helper()

	result, err := e.svc.Join(context.Background(), name, password, displayName)
	require.Nil(t, err)
	return result
}

func TestCreateAndJoinRoom(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	created := env.mustCreate(t, "Lounge", "", 4, "alice")
	joined := env.mustJoin(t, "Lounge", "", "bob")
	assert.Equal(t, created.RoomID, joined.RoomID)

	snap, err := env.svc.GetSnapshot(ctx, created.RoomID, "")
	require.Nil(t, err)
	require.True(t, snap.Found)
	assert.Equal(t, StateWaiting, snap.Room.State)
	assert.Len(t, snap.Room.Members, 2)
	assert.Equal(t, created.MemberID, snap.Room.OwnerID, "the creator owns the room")
}

func TestCreateRejectsInvalidArguments(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.Create(ctx, "", "", 4, "alice")
	assertCode(t, err, errs.ErrRoomNameInvalid)

	_, err = env.svc.Create(ctx, " padded ", "", 4, "alice")
	assertCode(t, err, errs.ErrRoomNameInvalid)

	_, err = env.svc.Create(ctx, "Lounge", "", 1, "alice")
	assertCode(t, err, errs.ErrMemberLimitInvalid)

	_, err = env.svc.Create(ctx, "Lounge", "", 100, "alice")
	assertCode(t, err, errs.ErrMemberLimitInvalid)

	_, err = env.svc.Create(ctx, "Lounge", "", 4, "")
	assertCode(t, err, errs.ErrDisplayNameInvalid)
}

func TestRoomNameUniquenessIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	env.mustCreate(t, "Lounge", "", 4, "alice")

	_, err := env.svc.Create(ctx, "LOUNGE", "", 4, "bob")
	assertCode(t, err, errs.ErrRoomNameTaken)

	// The failed create must not leave "bob" claimed.
	u, uerr := env.users.Get(ctx, "bob")
	require.NoError(t, uerr)
	assert.Nil(t, u)
}

func TestDisplayNameUniquenessSystemWide(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	env.mustCreate(t, "Lounge", "", 4, "alice")
	env.mustCreate(t, "Attic", "", 4, "bob")

	_, err := env.svc.Join(ctx, "Attic", "", "alice")
	assertCode(t, err, errs.ErrDisplayNameTaken)
}

func TestJoinPasswordFlow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	env.mustCreate(t, "Secret", "hunter2", 4, "alice")

	_, err := env.svc.Join(ctx, "Secret", "", "bob")
	assertCode(t, err, errs.ErrPasswordRequired)

	_, err = env.svc.Join(ctx, "Secret", "nope", "bob")
	assertCode(t, err, errs.ErrWrongPassword)

	env.mustJoin(t, "Secret", "hunter2", "bob")
}

func TestJoinGuards(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.Join(ctx, "Nowhere", "", "bob")
	assertCode(t, err, errs.ErrRoomNotFound)

	env.mustCreate(t, "Tiny", "", 2, "alice")
	env.mustJoin(t, "Tiny", "", "bob")

	_, err = env.svc.Join(ctx, "Tiny", "", "carol")
	assertCode(t, err, errs.ErrRoomIsFull)

	bigger := env.mustCreate(t, "Busy", "", 4, "dan")
	env.mustJoin(t, "Busy", "", "erin")
	require.Nil(t, env.svc.Start(ctx, bigger.RoomID, bigger.MemberID))

	_, err = env.svc.Join(ctx, "Busy", "", "frank")
	assertCode(t, err, errs.ErrRoomNotWaiting)
}

func TestFullGameCycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	alice := env.mustCreate(t, "Lounge", "", 4, "alice")
	bob := env.mustJoin(t, "Lounge", "", "bob")

	require.Nil(t, env.svc.Start(ctx, alice.RoomID, alice.MemberID))
	require.Nil(t, env.svc.Vote(ctx, alice.RoomID, alice.MemberID, bob.MemberID))

	snap, err := env.svc.GetSnapshot(ctx, alice.RoomID, "")
	require.Nil(t, err)
	assert.Equal(t, StateLinking, snap.Room.State, "round must stay open until the last vote")

	require.Nil(t, env.svc.Vote(ctx, alice.RoomID, bob.MemberID, alice.MemberID))

	snap, err = env.svc.GetSnapshot(ctx, alice.RoomID, "")
	require.Nil(t, err)
	require.Equal(t, StateCompleted, snap.Room.State)
	require.NotNil(t, snap.Room.Result)
	assert.Len(t, snap.Room.Result.Pairs, 1)
	assert.Empty(t, snap.Room.Result.Leftovers)

	// Partial acknowledgement leaves the room completed.
	require.Nil(t, env.svc.Acknowledge(ctx, alice.RoomID, alice.MemberID))
	snap, err = env.svc.GetSnapshot(ctx, alice.RoomID, "")
	require.Nil(t, err)
	assert.Equal(t, StateCompleted, snap.Room.State)

	require.Nil(t, env.svc.Acknowledge(ctx, alice.RoomID, bob.MemberID))
	snap, err = env.svc.GetSnapshot(ctx, alice.RoomID, "")
	require.Nil(t, err)
	assert.Equal(t, StateWaiting, snap.Room.State)
	assert.Nil(t, snap.Room.Result, "round data must be cleared on the way back to waiting")
}

func TestStartGuards(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	alice := env.mustCreate(t, "Lounge", "", 4, "alice")
	bob := env.mustJoin(t, "Lounge", "", "bob")

	assertCode(t, env.svc.Start(ctx, alice.RoomID, bob.MemberID), errs.ErrNotOwner)
	assertCode(t, env.svc.Start(ctx, alice.RoomID, "stranger"), errs.ErrNotInRoom)

	require.Nil(t, env.svc.ChangeRole(ctx, alice.RoomID, bob.MemberID, bob.MemberID, RoleObserver))
	assertCode(t, env.svc.Start(ctx, alice.RoomID, alice.MemberID), errs.ErrNotEnoughVoters)

	require.Nil(t, env.svc.ChangeRole(ctx, alice.RoomID, bob.MemberID, bob.MemberID, RoleVoter))
	require.Nil(t, env.svc.Start(ctx, alice.RoomID, alice.MemberID))
	assertCode(t, env.svc.Start(ctx, alice.RoomID, alice.MemberID), errs.ErrNotWaiting)
}

func TestVoteGuards(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	alice := env.mustCreate(t, "Lounge", "", 4, "alice")
	bob := env.mustJoin(t, "Lounge", "", "bob")
	carol := env.mustJoin(t, "Lounge", "", "carol")

	assertCode(t, env.svc.Vote(ctx, alice.RoomID, alice.MemberID, bob.MemberID), errs.ErrNotLinking)

	require.Nil(t, env.svc.ChangeRole(ctx, alice.RoomID, carol.MemberID, carol.MemberID, RoleObserver))
	require.Nil(t, env.svc.Start(ctx, alice.RoomID, alice.MemberID))

	assertCode(t, env.svc.Vote(ctx, alice.RoomID, carol.MemberID, alice.MemberID), errs.ErrNotAVoter)
	assertCode(t, env.svc.Vote(ctx, alice.RoomID, alice.MemberID, alice.MemberID), errs.ErrSelfSelection)
	assertCode(t, env.svc.Vote(ctx, alice.RoomID, alice.MemberID, carol.MemberID), errs.ErrTargetNotInRoom)
	assertCode(t, env.svc.Vote(ctx, alice.RoomID, alice.MemberID, "stranger"), errs.ErrTargetNotInRoom)

	require.Nil(t, env.svc.Vote(ctx, alice.RoomID, alice.MemberID, bob.MemberID))
	assertCode(t, env.svc.Vote(ctx, alice.RoomID, alice.MemberID, bob.MemberID), errs.ErrAlreadyVoted)
}

func TestRoleChangesLockedOutsideWaiting(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	alice := env.mustCreate(t, "Lounge", "", 4, "alice")
	bob := env.mustJoin(t, "Lounge", "", "bob")

	// A non-owner cannot change someone else's role.
	assertCode(t, env.svc.ChangeRole(ctx, alice.RoomID, bob.MemberID, alice.MemberID, RoleObserver), errs.ErrNotOwner)

	require.Nil(t, env.svc.Start(ctx, alice.RoomID, alice.MemberID))
	assertCode(t, env.svc.ChangeRole(ctx, alice.RoomID, bob.MemberID, bob.MemberID, RoleObserver), errs.ErrNotWaiting)
}

func TestOwnerKickSetsMarkerAndFreesName(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	alice := env.mustCreate(t, "Lounge", "", 4, "alice")
	bob := env.mustJoin(t, "Lounge", "", "bob")

	assertCode(t, env.svc.Kick(ctx, alice.RoomID, bob.MemberID, alice.MemberID), errs.ErrNotOwner)
	assertCode(t, env.svc.Kick(ctx, alice.RoomID, alice.MemberID, alice.MemberID), errs.ErrKickSelf)

	require.Nil(t, env.svc.Kick(ctx, alice.RoomID, alice.MemberID, bob.MemberID))

	m, err := env.ledger.GetUserMarker(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, marker.UserReasonOwnerKick, m.Reason)

	u, err := env.users.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, u, "a kicked user's display name is released")

	// The name is immediately reusable.
	env.mustJoin(t, "Lounge", "", "bob")
}

func TestLeaveReassignsOwnership(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	alice := env.mustCreate(t, "Lounge", "", 4, "alice")
	bob := env.mustJoin(t, "Lounge", "", "bob")

	require.Nil(t, env.svc.Leave(ctx, alice.RoomID, alice.MemberID))

	snap, err := env.svc.GetSnapshot(ctx, alice.RoomID, "")
	require.Nil(t, err)
	require.True(t, snap.Found)
	assert.Equal(t, bob.MemberID, snap.Room.OwnerID, "ownership transfers to the remaining member")

	// No marker for a voluntary leave.
	m, merr := env.ledger.GetUserMarker(ctx, "alice")
	require.NoError(t, merr)
	assert.Nil(t, m)
}

func TestLeaveLastMemberCollectsRoom(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	alice := env.mustCreate(t, "Lounge", "", 4, "alice")
	require.Nil(t, env.svc.Leave(ctx, alice.RoomID, alice.MemberID))

	snap, err := env.svc.GetSnapshot(ctx, alice.RoomID, "")
	require.Nil(t, err)
	assert.False(t, snap.Found)
	require.NotNil(t, snap.RoomMarker)
	assert.Equal(t, marker.RoomReasonEmpty, snap.RoomMarker.Reason)

	_, joinErr := env.svc.Join(ctx, "Lounge", "", "bob")
	assertCode(t, joinErr, errs.ErrRoomNotFound)

	// The freed name can back a brand new room.
	env.mustCreate(t, "Lounge", "", 4, "alice")
}

func TestMemberRemovalDuringLinkingCompletesRound(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	alice := env.mustCreate(t, "Lounge", "", 4, "alice")
	bob := env.mustJoin(t, "Lounge", "", "bob")
	carol := env.mustJoin(t, "Lounge", "", "carol")

	require.Nil(t, env.svc.Start(ctx, alice.RoomID, alice.MemberID))
	require.Nil(t, env.svc.Vote(ctx, alice.RoomID, alice.MemberID, bob.MemberID))
	require.Nil(t, env.svc.Vote(ctx, alice.RoomID, bob.MemberID, alice.MemberID))

	// Carol never votes; kicking her leaves every remaining voter selected.
	require.Nil(t, env.svc.Kick(ctx, alice.RoomID, alice.MemberID, carol.MemberID))

	snap, err := env.svc.GetSnapshot(ctx, alice.RoomID, "")
	require.Nil(t, err)
	require.Equal(t, StateCompleted, snap.Room.State)
	require.NotNil(t, snap.Room.Result)
	assert.Len(t, snap.Room.Result.Pairs, 1)
}

func TestLinkingFallsBackToWaitingBelowVoterMinimum(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	alice := env.mustCreate(t, "Lounge", "", 4, "alice")
	bob := env.mustJoin(t, "Lounge", "", "bob")

	require.Nil(t, env.svc.Start(ctx, alice.RoomID, alice.MemberID))
	require.Nil(t, env.svc.Leave(ctx, alice.RoomID, bob.MemberID))

	snap, err := env.svc.GetSnapshot(ctx, alice.RoomID, "")
	require.Nil(t, err)
	assert.Equal(t, StateWaiting, snap.Room.State, "a round cannot continue with a single voter")
}

func TestAdminDismissNotifiesEveryMember(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	alice := env.mustCreate(t, "Lounge", "", 4, "alice")
	env.mustJoin(t, "Lounge", "", "bob")
	env.mustJoin(t, "Lounge", "", "carol")

	require.Nil(t, env.svc.AdminDismiss(ctx, alice.RoomID))

	roomMarker, err := env.ledger.GetRoomMarker(ctx, alice.RoomID)
	require.NoError(t, err)
	require.NotNil(t, roomMarker)
	assert.Equal(t, marker.RoomReasonAdminDismissed, roomMarker.Reason)

	for _, name := range []string{"alice", "bob", "carol"} {
		m, err := env.ledger.GetUserMarker(ctx, name)
		require.NoError(t, err)
		require.NotNil(t, m, "member %s must have a marker", name)
		assert.Equal(t, marker.UserReasonRoomDismissed, m.Reason)
		assert.Equal(t, marker.RoomReasonAdminDismissed, m.RoomReason)

		u, err := env.users.Get(ctx, name)
		require.NoError(t, err)
		assert.Nil(t, u)
	}

	snap, snapErr := env.svc.GetSnapshot(ctx, alice.RoomID, "alice")
	require.Nil(t, snapErr)
	assert.False(t, snap.Found)
	assert.NotNil(t, snap.UserMarker, "the poll after dismissal explains the removal")
}

func TestAdminKickSetsAdminMarker(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	alice := env.mustCreate(t, "Lounge", "", 4, "alice")
	bob := env.mustJoin(t, "Lounge", "", "bob")

	require.Nil(t, env.svc.AdminKick(ctx, alice.RoomID, bob.MemberID))

	m, err := env.ledger.GetUserMarker(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, marker.UserReasonAdminKick, m.Reason)
}

func TestSnapshotOnMissingRoomNeverFails(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	snap, err := env.svc.GetSnapshot(ctx, "no-such-room", "ghost")
	require.Nil(t, err)
	assert.False(t, snap.Found)
	assert.Nil(t, snap.Room)
	assert.Nil(t, snap.RoomMarker)
	assert.Nil(t, snap.UserMarker)
}

func TestHeartbeatRefreshesUserButNeverRoom(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	env.svc.now = func() time.Time { return base }

	alice := env.mustCreate(t, "Lounge", "", 4, "alice")

	later := base.Add(10 * time.Minute)
	env.svc.now = func() time.Time { return later }

	result, err := env.svc.Heartbeat(ctx, "alice", alice.MemberID)
	require.Nil(t, err)
	assert.True(t, result.Active)

	u, uerr := env.users.Get(ctx, "alice")
	require.NoError(t, uerr)
	require.NotNil(t, u)
	assert.Equal(t, later, u.LastActivityAt, "heartbeat refreshes user presence")

	r, derr := env.dir.GetByID(ctx, alice.RoomID)
	require.NoError(t, derr)
	require.NotNil(t, r)
	assert.Equal(t, base, r.LastActivityAt, "heartbeat must not touch room activity")
}

func TestHeartbeatForGoneSessionReturnsMarker(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	alice := env.mustCreate(t, "Lounge", "", 4, "alice")
	bob := env.mustJoin(t, "Lounge", "", "bob")

	require.Nil(t, env.svc.Kick(ctx, alice.RoomID, alice.MemberID, bob.MemberID))

	result, err := env.svc.Heartbeat(ctx, "bob", bob.MemberID)
	require.Nil(t, err)
	assert.False(t, result.Active)
	require.NotNil(t, result.Marker)
	assert.Equal(t, marker.UserReasonOwnerKick, result.Marker.Reason)
}
