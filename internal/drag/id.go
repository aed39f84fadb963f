package drag

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidID is returned for drag identifiers that are not "<table>:<index>".
var ErrInvalidID = errors.New("invalid drag id")

// ID addresses one entry of one table.
type ID struct {
	TableID string
	Index   int
}

// String returns "<table>:<index>".
func (id ID) String() string {
	return id.TableID + ":" + strconv.Itoa(id.Index)
}

// ParseID parses "<table>:<index>". Table ids may themselves contain colons;
// the index is taken after the last one.
func ParseID(s string) (ID, error) {
	i := strings.LastIndexByte(s, ':')
	if i <= 0 {
		return ID{}, ErrInvalidID
	}
	index, err := strconv.Atoi(s[i+1:])
	if err != nil || index < 0 {
		return ID{}, ErrInvalidID
	}
	return ID{TableID: s[:i], Index: index}, nil
}
