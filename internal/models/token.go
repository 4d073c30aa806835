package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the payload of the session token kept in the client
// cookie. Identity is the string every ledger entry is attributed to.
type SessionClaims struct {
	Identity string `json:"identity"`
	Guest    bool   `json:"guest"`
	jwt.RegisteredClaims
}
