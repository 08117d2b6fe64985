/*
Package room contains the core domain logic for matching sessions.

This file defines the Room and Member records, the lifecycle states, and the
small helpers the rest of the package builds on. Rooms are plain JSON-serializable
values: every mutation is a read-modify-write of the full record against the
session store, and the last full snapshot written wins.
*/
package room

import (
	"sort"
	"time"
)

// State is the lifecycle state of a room. A room cycles
// waiting -> linking -> completed -> waiting until it is destroyed externally.
type State string

const (
	// StateWaiting: members can join, leave, and change roles; no game is running.
	StateWaiting State = "waiting"

	// StateLinking: a game is in progress and voters are submitting selections.
	StateLinking State = "linking"

	// StateCompleted: every voter has selected and the match result is available.
	StateCompleted State = "completed"
)

// Role distinguishes members who participate in matching from those who only watch.
type Role string

const (
	// RoleVoter members submit selections and can be matched.
	RoleVoter Role = "voter"

	// RoleObserver members are present but excluded from matching.
	RoleObserver Role = "observer"
)

const (
	// MinMemberLimit is the smallest allowed room capacity.
	MinMemberLimit = 2

	// MaxMemberLimit is the largest allowed room capacity.
	MaxMemberLimit = 99

	// MinVoters is the number of voters required to start a game.
	MinVoters = 2
)

// Member is a participant of a single room.
type Member struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Role        Role      `json:"role"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// Pair is one mutual selection in a match result.
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// MatchResult is the outcome of one completed game: the mutual pairs and the
// member IDs left unmatched.
type MatchResult struct {
	Pairs     []Pair   `json:"pairs"`
	Leftovers []string `json:"leftovers"`
}

// Room is the full record of one matching session. The entire struct is
// serialized into the session store as a single value.
type Room struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Password is the optional shared secret, stored and compared in plaintext.
	// This mirrors the externally observable behavior the service promises;
	// hardening it is explicitly out of scope.
	Password string `json:"password,omitempty"`

	MemberLimit int `json:"memberLimit"`

	// Members maps member ID to Member.
	Members map[string]Member `json:"members"`

	// Selections maps voter ID to chosen voter ID. Only meaningful while
	// State is linking.
	Selections map[string]string `json:"selections"`

	State State `json:"state"`

	// Result is present only in the completed state.
	Result *MatchResult `json:"result,omitempty"`

	// Acknowledged is the set of voter IDs that have left the result screen.
	// Once it covers every current voter the room returns to waiting.
	Acknowledged map[string]bool `json:"acknowledged"`

	// OwnerID is the member currently holding host privileges. It is always a
	// key of Members while the room has any members.
	OwnerID string `json:"ownerId"`

	// HadMembers latches true on the first join, so an empty room that never
	// hosted anyone can be collected silently.
	HadMembers bool `json:"hadMembers"`

	CreatedAt time.Time `json:"createdAt"`

	// LastActivityAt is refreshed by game actions only (join, vote, start,
	// kick, role change), never by presence heartbeats.
	LastActivityAt time.Time `json:"lastActivityAt"`
}

// Voters returns the IDs of all members holding the voter role.
func (r *Room) Voters() []string {
	ids := make([]string, 0, len(r.Members))
	for id, m := range r.Members {
		if m.Role == RoleVoter {
			ids = append(ids, id)
		}
	}
	return ids
}

// VoterCount returns the number of members holding the voter role.
func (r *Room) VoterCount() int {
	count := 0
	for _, m := range r.Members {
		if m.Role == RoleVoter {
			count++
		}
	}
	return count
}

// IsFull reports whether the room has reached its member limit.
func (r *Room) IsFull() bool {
	return len(r.Members) >= r.MemberLimit
}

// AddMember inserts m and latches HadMembers. The first member to join an
// ownerless room becomes its owner.
func (r *Room) AddMember(m Member) {
	r.Members[m.ID] = m
	r.HadMembers = true
	if r.OwnerID == "" {
		r.OwnerID = m.ID
	}
}

// RemoveMember deletes the member and repairs the room around the removal:
// selections by or targeting the member are dropped, their acknowledgement is
// forgotten, and ownership is reassigned if the owner left. If a running game
// drops below the voter minimum the room falls back to waiting; otherwise the
// removal may itself satisfy the all-voters-selected condition, which the
// caller observes via the lifecycle helpers.
func (r *Room) RemoveMember(memberID string) {
	delete(r.Members, memberID)
	delete(r.Selections, memberID)
	delete(r.Acknowledged, memberID)

	for voter, chosen := range r.Selections {
		if chosen == memberID {
			delete(r.Selections, voter)
		}
	}

	if r.OwnerID == memberID {
		r.OwnerID = r.nextOwner()
	}

	if r.State == StateLinking && r.VoterCount() < MinVoters {
		r.resetToWaiting()
	}
}

// nextOwner picks the remaining member with the earliest join time, breaking
// ties by ID so redundant sweeps on different instances agree.
func (r *Room) nextOwner() string {
	ids := make([]string, 0, len(r.Members))
	for id := range r.Members {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		mi, mj := r.Members[ids[i]], r.Members[ids[j]]
		if !mi.JoinedAt.Equal(mj.JoinedAt) {
			return mi.JoinedAt.Before(mj.JoinedAt)
		}
		return ids[i] < ids[j]
	})

	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// resetToWaiting returns the room to the waiting state and clears all
// round-scoped data.
func (r *Room) resetToWaiting() {
	r.State = StateWaiting
	r.Selections = make(map[string]string)
	r.Acknowledged = make(map[string]bool)
	r.Result = nil
}

// MaybeComplete performs the linking -> completed transition if every voter
// has a recorded selection, and reports whether it fired. It is called after a
// vote and after any membership change during a round, since a removal can
// satisfy the all-voters-selected condition too.
func (r *Room) MaybeComplete() bool {
	if r.State != StateLinking {
		return false
	}

	voters := r.Voters()
	if len(voters) < MinVoters || len(r.Selections) != len(voters) {
		return false
	}

	result := Match(voters, r.Selections)
	r.Result = &result
	r.State = StateCompleted
	r.Acknowledged = make(map[string]bool)

	return true
}

// TouchActivity records a game action on the room clock.
func (r *Room) TouchActivity(now time.Time) {
	r.LastActivityAt = now
}
