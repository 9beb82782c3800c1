// Package capture turns an uploaded label photo into draft record fields.
// Nothing here is persisted; the caller still supplies a verified serial.
package capture

import "regexp"

// NoSerial is returned when no candidate serial number is found.
const NoSerial = "None"

var (
	markedSerial = regexp.MustCompile(`(?i)(?:S/N|SN|S\.N\.)\s*(\d{7})`)
	bareSerial   = regexp.MustCompile(`(\d{7})`)
)

// IsolateSerialNumber prefers seven digits after an S/N, SN or S.N. marker,
// falls back to the first seven-digit run and otherwise returns NoSerial.
func IsolateSerialNumber(text string) string {
	if m := markedSerial.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := bareSerial.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return NoSerial
}
