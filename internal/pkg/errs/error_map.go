/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 21xx: Room Lookup and Membership Errors
	ErrRoomNameInvalid:    {Code: ErrRoomNameInvalid, Message: "Invalid room name."},
	ErrRoomNameTaken:      {Code: ErrRoomNameTaken, Message: "Room name is already taken."},
	ErrRoomNotFound:       {Code: ErrRoomNotFound, Message: "Room not found."},
	ErrRoomIsFull:         {Code: ErrRoomIsFull, Message: "This room is full."},
	ErrRoomNotWaiting:     {Code: ErrRoomNotWaiting, Message: "A game is already in progress in this room."},
	ErrMemberLimitInvalid: {Code: ErrMemberLimitInvalid, Message: "Member limit must be between %d and %d."},
	ErrPasswordRequired:   {Code: ErrPasswordRequired, Message: "This room requires a password."},
	ErrWrongPassword:      {Code: ErrWrongPassword, Message: "Incorrect room password."},
	ErrNotInRoom:          {Code: ErrNotInRoom, Message: "You are not a member of this room."},

	// 22xx: Game Flow Errors
	ErrNotOwner:        {Code: ErrNotOwner, Message: "Only the room owner can do that."},
	ErrNotWaiting:      {Code: ErrNotWaiting, Message: "That is only possible before the game starts."},
	ErrNotEnoughVoters: {Code: ErrNotEnoughVoters, Message: "At least two voters are needed to start."},
	ErrNotLinking:      {Code: ErrNotLinking, Message: "Voting is not open right now."},
	ErrNotAVoter:       {Code: ErrNotAVoter, Message: "Observers cannot vote."},
	ErrAlreadyVoted:    {Code: ErrAlreadyVoted, Message: "You have already voted this round."},
	ErrTargetNotInRoom: {Code: ErrTargetNotInRoom, Message: "The selected member is not in this room."},
	ErrSelfSelection:   {Code: ErrSelfSelection, Message: "You cannot select yourself."},
	ErrNotCompleted:    {Code: ErrNotCompleted, Message: "There is no finished game to acknowledge."},
	ErrKickSelf:        {Code: ErrKickSelf, Message: "You cannot kick yourself. Leave the room instead."},

	// 3xxx: User, Session, and Security Errors
	ErrDisplayNameInvalid: {Code: ErrDisplayNameInvalid, Message: "Invalid display name."},
	ErrDisplayNameTaken:   {Code: ErrDisplayNameTaken, Message: "This name is already in use."},
	ErrAdminUnauthorized:  {Code: ErrAdminUnauthorized, Message: "Admin sign-in required.", Status: http.StatusUnauthorized},

	// 5xxx: Internal System Errors
	ErrUnknown:          {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrStoreUnavailable: {Code: ErrStoreUnavailable, Message: "Service is temporarily unavailable. Please retry.", Status: http.StatusServiceUnavailable},
}
