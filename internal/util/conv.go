package util

import (
	"strconv"
)

// ParseUintParam converts a path or query parameter to uint.
func ParseUintParam(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
