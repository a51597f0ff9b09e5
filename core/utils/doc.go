// Package utils provides common utility functions for the contest-sync application.
// It includes the loose type conversions used when decoding provider payloads whose
// fields arrive as strings, numbers, or nulls depending on the upstream.
package utils
