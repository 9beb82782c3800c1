package metadata

import "fmt"

// SnStatus is the compliance stage of a serial number record.
type SnStatus string

const (
	SnStatusNewScan    SnStatus = "NewScan"
	SnStatusCompliance SnStatus = "Compliance"
	SnStatusComplete   SnStatus = "Complete"
)

var SnStatuses = []SnStatus{SnStatusNewScan, SnStatusCompliance, SnStatusComplete}

func NewSnStatus(value string) (SnStatus, error) {
	status := SnStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("must be one of: %s", joinValues(SnStatuses))
	}
	return status, nil
}

func (s SnStatus) IsValid() bool {
	switch s {
	case SnStatusNewScan, SnStatusCompliance, SnStatusComplete:
		return true
	default:
		return false
	}
}
