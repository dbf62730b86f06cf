package abp

import "time"

// Status is the 2-bit state reported in the top bits of every output frame.
type Status uint8

const (
	StatusValid      Status = iota // fresh measurement, ready to use
	StatusCommand                  // sensor is in command mode
	StatusStale                    // output not refreshed since the last read
	StatusDiagnostic               // sensor reports an internal fault
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusCommand:
		return "command"
	case StatusStale:
		return "stale"
	default:
		return "diagnostic"
	}
}

// PressureUnit is the pressure unit a part is rated in, from the part
// number's unit letter.
type PressureUnit int

const (
	Mbar PressureUnit = iota
	Bar
	KiloPascal
	PSI
)

func (u PressureUnit) String() string {
	switch u {
	case Mbar:
		return "mbar"
	case Bar:
		return "bar"
	case KiloPascal:
		return "kPa"
	default:
		return "psi"
	}
}

// Calibrated digital output span: 10% and 90% of the 14-bit range.
const (
	outputMin uint16 = 0x0666
	outputMax uint16 = 0x3999
)

// Pascals per part-number pressure unit.
const (
	pascalsPerMbar = 100.0
	pascalsPerBar  = 100000.0
	pascalsPerKPa  = 1000.0
	pascalsPerPSI  = 6894.757293
)

// A catalog listing encodes all calibration fields in its first 15 characters.
const partNumberLen = 15

const (
	// defaultUpdateInterval paces re-reads while the sensor reports stale
	// data. The sensor refreshes its output register about every 0.5ms.
	defaultUpdateInterval = time.Millisecond
	// wakeDelay is the settling time after waking a sleep-mode part. Power-up
	// takes at most 2.5ms per the datasheet.
	wakeDelay = 3 * time.Millisecond
	// staleRetries bounds how many times sense re-reads a stale output before
	// surfacing ErrStale.
	staleRetries = 3
)
