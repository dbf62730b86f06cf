package abp

import "errors"

// Read outcomes derived from the status bits of an output frame.
var (
	// ErrStale reports that the sensor has not refreshed its output since it
	// was last read. It is transient: retry after the sensor's update
	// interval.
	ErrStale = errors.New("abp: stale data, output not refreshed since last read")
	// ErrCommandMode reports that the sensor is in command mode and not
	// measuring.
	ErrCommandMode = errors.New("abp: sensor is in command mode")
	// ErrDiagnostic reports that the sensor signals an internal fault.
	ErrDiagnostic = errors.New("abp: sensor reports a diagnostic fault")
)

// err maps a frame status to its read outcome. Status only has four values,
// so the mapping is total.
func (s Status) err() error {
	switch s {
	case StatusValid:
		return nil
	case StatusCommand:
		return ErrCommandMode
	case StatusStale:
		return ErrStale
	default:
		return ErrDiagnostic
	}
}

// output is one decoded frame.
type output struct {
	status      Status
	pressure    uint16 // 14 bits
	temperature uint16 // 11 bits, zero when the frame carries none
}

// decodePressure unpacks a 2-byte frame: 2 status bits, then the 14-bit
// pressure count split 6/8 across the two bytes.
func decodePressure(buf [2]byte) (Status, uint16) {
	return Status(buf[0] >> 6), uint16(buf[0]&0x3F)<<8 | uint16(buf[1])
}

// decodePressureTemperature unpacks a 4-byte frame: bytes 0-1 as in
// decodePressure, then the 11-bit temperature count split 8/3 across bytes
// 2-3. The low 5 bits of byte 3 are padding.
func decodePressureTemperature(buf [4]byte) output {
	status, pressure := decodePressure([2]byte{buf[0], buf[1]})
	return output{
		status:      status,
		pressure:    pressure,
		temperature: uint16(buf[2])<<3 | uint16(buf[3])>>5,
	}
}
