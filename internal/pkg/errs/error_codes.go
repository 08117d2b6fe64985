/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 21xx: Room Lookup and Membership Errors
const (
	// ErrRoomNameInvalid indicates that the room name failed validation (length or characters).
	ErrRoomNameInvalid = 2101

	// ErrRoomNameTaken indicates that another room already holds the requested name
	// (compared case-insensitively).
	ErrRoomNameTaken = 2102

	// ErrRoomNotFound indicates that the referenced room does not exist. Clients receiving
	// this code should consult their removal markers before treating it as fatal.
	ErrRoomNotFound = 2103

	// ErrRoomIsFull indicates that the room being joined has reached its member limit.
	ErrRoomIsFull = 2104

	// ErrRoomNotWaiting indicates that the room cannot be joined because a game is in progress.
	ErrRoomNotWaiting = 2105

	// ErrMemberLimitInvalid indicates that the requested member limit is outside the allowed range.
	ErrMemberLimitInvalid = 2106

	// ErrPasswordRequired indicates that the room is password protected and no password was supplied.
	ErrPasswordRequired = 2107

	// ErrWrongPassword indicates that the supplied room password did not match.
	ErrWrongPassword = 2108

	// ErrNotInRoom indicates that the referenced member is not part of the room.
	ErrNotInRoom = 2109
)

// 22xx: Game Flow Errors
const (
	// ErrNotOwner indicates that the acting member does not hold host privileges.
	ErrNotOwner = 2201

	// ErrNotWaiting indicates that the operation is only valid while the room is waiting.
	ErrNotWaiting = 2202

	// ErrNotEnoughVoters indicates that a game cannot start with fewer than two voters.
	ErrNotEnoughVoters = 2203

	// ErrNotLinking indicates that votes can only be submitted while a game is in progress.
	ErrNotLinking = 2204

	// ErrNotAVoter indicates that an observer attempted a voter-only action.
	ErrNotAVoter = 2205

	// ErrAlreadyVoted indicates that the member has already submitted a selection this round.
	ErrAlreadyVoted = 2206

	// ErrTargetNotInRoom indicates that the selected member is not a voter in the room.
	ErrTargetNotInRoom = 2207

	// ErrSelfSelection indicates that a member attempted to select themselves.
	ErrSelfSelection = 2208

	// ErrNotCompleted indicates that result acknowledgement is only valid after a game finished.
	ErrNotCompleted = 2209

	// ErrKickSelf indicates that the owner attempted to kick themselves (use leave instead).
	ErrKickSelf = 2210
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrDisplayNameInvalid indicates that the display name failed validation.
	ErrDisplayNameInvalid = 3001

	// ErrDisplayNameTaken indicates that the display name is already in active use system-wide.
	ErrDisplayNameTaken = 3002

	// ErrAdminUnauthorized indicates missing or invalid admin credentials.
	ErrAdminUnauthorized = 3003
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrStoreUnavailable indicates that the session store could not be reached.
	// The operation is retryable.
	ErrStoreUnavailable = 5001
)
