/*
Package sweeper implements the eviction monitor.

The monitor is the only component that mutates shared state without a direct user
request. On a fixed interval it runs two sweeps: first it evicts users whose
presence timed out, then it collects empty rooms and dismantles zombie rooms that
saw no game activity for too long. Every instance runs its own timer against the
same store; the sweeps are idempotent, so redundant runs across instances need
no lock or leader election.
*/
package sweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"pairlink/internal/app/marker"
	"pairlink/internal/app/room"
	"pairlink/internal/app/user"
	"pairlink/internal/pkg/logx"
)

// Config carries the eviction policy applied by a Monitor.
type Config struct {
	// Interval is the pause between sweep runs.
	Interval time.Duration

	// UserTimeout is the maximum presence silence before a user is evicted.
	UserTimeout time.Duration

	// RoomTimeout is the maximum game-activity silence before a non-empty
	// room is reclaimed.
	RoomTimeout time.Duration
}

// Monitor periodically applies the timeout policy to active users and rooms.
type Monitor struct {
	dir    *room.Directory
	users  *user.Registry
	ledger *marker.Ledger
	cfg    Config
	logger zerolog.Logger

	// now is swappable in tests.
	now func() time.Time
}

// NewMonitor constructs a Monitor with the given eviction policy.
func NewMonitor(dir *room.Directory, users *user.Registry, ledger *marker.Ledger, cfg Config) *Monitor {
	return &Monitor{
		dir:    dir,
		users:  users,
		ledger: ledger,
		cfg:    cfg,
		logger: logx.Logger().With().Str("component", "Sweeper").Logger(),
		now:    time.Now,
	}
}

// Run blocks, sweeping once per interval until ctx is cancelled. Sweep-level
// failures are logged and the next tick proceeds; nothing here stops the timer.
func (m *Monitor) Run(ctx context.Context) {
	m.logger.Info().
		Dur("interval", m.cfg.Interval).
		Dur("user_timeout", m.cfg.UserTimeout).
		Dur("room_timeout", m.cfg.RoomTimeout).
		Msg("Eviction monitor started")

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("Eviction monitor stopped")
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

// Sweep runs one full eviction pass: the user sweep, then the room sweep.
// Errors on individual records are logged and skipped so one bad record never
// blocks the rest of the pass.
func (m *Monitor) Sweep(ctx context.Context) {
	m.sweepUsers(ctx)
	m.sweepRooms(ctx)
}

// sweepUsers evicts every active user whose presence timestamp is older than
// the user timeout, removing them from their room and reassigning ownership
// where needed.
func (m *Monitor) sweepUsers(ctx context.Context) {
	users, err := m.users.List(ctx)
	if err != nil {
		m.logger.Error().Err(err).Msg("User sweep aborted: cannot list active users")
		return
	}

	now := m.now().UTC()
	evicted := 0

	for _, u := range users {
		if now.Sub(u.LastActivityAt) <= m.cfg.UserTimeout {
			continue
		}

		if err := m.evictUser(ctx, u); err != nil {
			m.logger.Error().Err(err).Str("display_name", u.DisplayName).Msg("Failed to evict inactive user")
			continue
		}
		evicted++
	}

	if evicted > 0 {
		m.logger.Info().Int("evicted", evicted).Msg("User sweep finished")
	}
}

// evictUser writes the inactivity marker, removes the member from their room,
// and releases the display name. The marker goes first so no poll can observe
// the removal without an explanation.
func (m *Monitor) evictUser(ctx context.Context, u user.ActiveUser) error {
	if err := m.ledger.SetUserMarker(ctx, u.DisplayName, marker.UserReasonInactivity, ""); err != nil {
		return err
	}

	r, err := m.dir.GetByID(ctx, u.RoomID)
	if err != nil {
		return err
	}

	if r != nil {
		if _, ok := r.Members[u.MemberID]; ok {
			r.RemoveMember(u.MemberID)
			r.MaybeComplete()

			if len(r.Members) == 0 {
				if err := m.collectRoom(ctx, r); err != nil {
					return err
				}
			} else if err := m.dir.Save(ctx, r); err != nil {
				return err
			}
		}
	}

	return m.users.Delete(ctx, u.DisplayName)
}

// sweepRooms collects empty rooms and dismantles zombie rooms whose last game
// action is older than the room timeout.
func (m *Monitor) sweepRooms(ctx context.Context) {
	ids, err := m.dir.ListIDs(ctx)
	if err != nil {
		m.logger.Error().Err(err).Msg("Room sweep aborted: cannot list rooms")
		return
	}

	now := m.now().UTC()

	for _, id := range ids {
		r, err := m.dir.GetByID(ctx, id)
		if err != nil {
			m.logger.Error().Err(err).Str("room_id", id).Msg("Failed to load room during sweep")
			continue
		}
		if r == nil {
			// Deleted since the scan, possibly by another instance's sweep.
			continue
		}

		switch {
		case len(r.Members) == 0:
			if err := m.collectRoom(ctx, r); err != nil {
				m.logger.Error().Err(err).Str("room_id", id).Msg("Failed to collect empty room")
			}
		case now.Sub(r.LastActivityAt) > m.cfg.RoomTimeout:
			if err := m.dismantleZombieRoom(ctx, r); err != nil {
				m.logger.Error().Err(err).Str("room_id", id).Msg("Failed to dismantle zombie room")
			}
		}
	}
}

// collectRoom deletes an empty room. The empty marker is only written for rooms
// that ever had members; a room abandoned before anyone joined vanishes silently.
func (m *Monitor) collectRoom(ctx context.Context, r *room.Room) error {
	if r.HadMembers {
		if err := m.ledger.SetRoomMarker(ctx, r.ID, marker.RoomReasonEmpty); err != nil {
			return err
		}
	}

	if err := m.dir.Delete(ctx, r); err != nil {
		return err
	}

	m.logger.Info().Str("room_id", r.ID).Msg("Collected empty room")
	return nil
}

// dismantleZombieRoom deletes a room with idle-but-present members. Every
// remaining member gets an inactivity marker carrying the room reason, then the
// room and its active users are removed.
func (m *Monitor) dismantleZombieRoom(ctx context.Context, r *room.Room) error {
	if err := m.ledger.SetRoomMarker(ctx, r.ID, marker.RoomReasonInactivity); err != nil {
		return err
	}

	for _, member := range r.Members {
		if err := m.ledger.SetUserMarker(ctx, member.DisplayName, marker.UserReasonInactivity, marker.RoomReasonInactivity); err != nil {
			return err
		}
		if err := m.users.Delete(ctx, member.DisplayName); err != nil {
			return err
		}
	}

	if err := m.dir.Delete(ctx, r); err != nil {
		return err
	}

	m.logger.Info().
		Str("room_id", r.ID).
		Int("members_evicted", len(r.Members)).
		Msg("Dismantled zombie room")

	return nil
}
