package abp

import (
	"errors"
	"fmt"
	"strconv"
)

// Part number validation failures, all returned by ParsePartNumber.
var (
	ErrPartNumberLength = errors.New("abp: part number too short")
	ErrSeries           = errors.New("abp: not an ABP series part number")
	ErrPressureRange    = errors.New("abp: invalid pressure range")
	ErrPressureUnit     = errors.New("abp: unknown pressure unit")
	ErrRangeType        = errors.New("abp: pressure range type must be differential or gauge")
	ErrInterface        = errors.New("abp: only I2C output sensors are supported")
	ErrOutputType       = errors.New("abp: unknown output type")
	ErrTransferFunction = errors.New("abp: unknown transfer function")
)

// Config is the calibration an ABP part number encodes. Readings are linear
// between the two calibration points (OutputMin, PressureMin) and
// (OutputMax, PressureMax).
type Config struct {
	// PressureMin and PressureMax are the rated pressure span in Unit.
	PressureMin float64
	PressureMax float64
	// OutputMin and OutputMax are the digital counts calibrated to
	// PressureMin and PressureMax, at 10% and 90% of the 14-bit range.
	OutputMin uint16
	OutputMax uint16
	// ConversionFactor scales a pressure in Unit to pascals.
	ConversionFactor float64
	// Unit is the pressure unit the part is rated in.
	Unit PressureUnit
	// Addr is the 7-bit I2C address.
	Addr uint16
	// HasThermometer marks parts exposing the 11-bit temperature output.
	HasThermometer bool
	// HasSleep marks parts that sleep between readings.
	HasSleep bool
}

// ParsePartNumber derives a sensor's calibration from the catalog listing
// printed on it, for example "ABPDRRT150PG2A3": the series "ABP", three
// package/port/option characters (ignored), the rated range "150", the
// pressure unit 'P' (psi), the range type 'G' (gauge), the output type '2'
// (I2C at address 0x28), the transfer function 'A' and the supply voltage
// '3' (ignored). Anything past the first 15 characters is ignored.
func ParsePartNumber(code string) (Config, error) {
	if len(code) < partNumberLen {
		return Config{}, fmt.Errorf("%w: %q", ErrPartNumberLength, code)
	}
	if code[0:3] != "ABP" {
		return Config{}, fmt.Errorf("%w: %q", ErrSeries, code)
	}

	// code[3:7], the package, pressure port and mounting option fields,
	// carry no calibration content.

	cfg := Config{OutputMin: outputMin, OutputMax: outputMax}

	span, err := strconv.ParseUint(code[7:10], 10, 16)
	if err != nil || span == 0 {
		return Config{}, fmt.Errorf("%w: %q", ErrPressureRange, code[7:10])
	}
	cfg.PressureMax = float64(span)

	switch c := code[10]; c {
	case 'M':
		cfg.Unit, cfg.ConversionFactor = Mbar, pascalsPerMbar
	case 'B':
		cfg.Unit, cfg.ConversionFactor = Bar, pascalsPerBar
	case 'K':
		cfg.Unit, cfg.ConversionFactor = KiloPascal, pascalsPerKPa
	case 'P':
		cfg.Unit, cfg.ConversionFactor = PSI, pascalsPerPSI
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrPressureUnit, c)
	}

	switch c := code[11]; c {
	case 'D':
		cfg.PressureMin = -cfg.PressureMax
	case 'G':
		cfg.PressureMin = 0
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrRangeType, c)
	}

	switch c := code[12]; {
	case c == 'A' || c == 'S':
		return Config{}, fmt.Errorf("%w: output type %q", ErrInterface, c)
	case c >= '0' && c <= '7':
		// '0' is 0x08 through '7' is 0x78.
		cfg.Addr = 0x08 + 0x10*uint16(c-'0')
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrOutputType, c)
	}

	switch c := code[13]; c {
	case 'A':
		// 10%-90% calibration, no sleep, no temperature output.
	case 'D':
		cfg.HasSleep, cfg.HasThermometer = true, true
	case 'S':
		cfg.HasSleep = true
	case 'T':
		cfg.HasThermometer = true
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrTransferFunction, c)
	}

	// code[14], the supply voltage, carries no calibration content.

	return cfg, nil
}

// Pressure converts a raw 14-bit count to pressure in the part's native
// Unit. Counts outside the calibrated span extrapolate linearly.
func (c Config) Pressure(raw uint16) float64 {
	perCount := (c.PressureMax - c.PressureMin) / float64(c.OutputMax-c.OutputMin)
	return (float64(raw)-float64(c.OutputMin))*perCount + c.PressureMin
}

// Temperature converts a raw 11-bit count to degrees Celsius. The span is
// fixed at -50 to 150°C on every part.
func (c Config) Temperature(raw uint16) float64 {
	return float64(raw)/2047*200 - 50
}
