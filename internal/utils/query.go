// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead. Handlers use it to read
// optional numeric query parameters such as ?length= and ?words= on the
// generator endpoints.
//
// Example:
//
//	n := utils.AtoiDefault(c.Query("length"), 14) // "20" -> 20, "" -> 14
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
