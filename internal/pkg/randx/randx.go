/*
Package randx provides functions for generating unique identifiers used across the service.

Room and member identifiers are standard UUID v4 strings; admin session identifiers use a
cryptographically secure Base62 string.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// AdminSessionIDLength is the fixed length of generated admin session identifiers.
	AdminSessionIDLength = 12
)

// RoomID generates an opaque unique identifier for a room.
func RoomID() string {
	return uuid.New().String()
}

// MemberID generates a unique identifier for a room member.
func MemberID() string {
	return uuid.New().String()
}

// AdminSessionID generates a Base62 encoded session identifier using a
// cryptographically secure random number generator (crypto/rand).
func AdminSessionID() (string, error) {
	result := make([]byte, AdminSessionIDLength)

	for i := range AdminSessionIDLength {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for admin session id: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// IsValidID checks whether the given string parses as a UUID, which is the shape
// of every room and member identifier this service hands out.
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
