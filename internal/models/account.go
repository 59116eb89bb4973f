// Package models defines the data structures shared by the resolver, the
// history store and the HTTP API.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// RoleStudent is the only role that unlocks academic answers and history.
const RoleStudent = "mahasiswa"

// RoleGuest is the default role when a request does not carry one.
const RoleGuest = "guest"

// Account is one entry of the static account list. Profile fields other than
// nim, password and role are kept verbatim in Profile.
type Account struct {
	NIM      string
	Password string
	Role     string
	Profile  map[string]interface{}
}

// UnmarshalJSON reads the known fields and keeps every other key as profile data.
func (a *Account) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode account: %w", err)
	}
	a.NIM = stringField(raw, "nim")
	a.Password = stringField(raw, "password")
	a.Role = stringField(raw, "role")
	delete(raw, "nim")
	delete(raw, "password")
	delete(raw, "role")
	a.Profile = raw
	return nil
}

// MarshalJSON writes the account with its profile fields. The password is never written.
func (a Account) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(a.Profile)+2)
	for k, v := range a.Profile {
		out[k] = v
	}
	out["nim"] = a.NIM
	out["role"] = a.Role
	return json.Marshal(out)
}

// IsStudent reports whether the account carries the student role.
func (a *Account) IsStudent() bool {
	return a.Role == RoleStudent
}

func stringField(raw map[string]interface{}, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
