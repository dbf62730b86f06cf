package abp

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func mustParse(t *testing.T, code string) Config {
	t.Helper()
	cfg, err := ParsePartNumber(code)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestParsePartNumber(t *testing.T) {
	cfg := mustParse(t, "ABPDRRT150PG2A3")
	want := Config{
		PressureMin:      0,
		PressureMax:      150,
		OutputMin:        0x0666,
		OutputMax:        0x3999,
		ConversionFactor: 6894.757293,
		Unit:             PSI,
		Addr:             0x28,
	}
	if cfg != want {
		t.Fatalf("ParsePartNumber() = %+v, want %+v", cfg, want)
	}

	// Characters past the 15 calibration fields, like lead-free suffixes, are
	// ignored.
	if got := mustParse(t, "ABPDRRT150PG2A3-XX"); got != want {
		t.Fatalf("ParsePartNumber() with suffix = %+v, want %+v", got, want)
	}
}

func TestParsePartNumberDifferential(t *testing.T) {
	cfg := mustParse(t, "ABPDRRT015PD2A3")
	if cfg.PressureMin != -15 || cfg.PressureMax != 15 {
		t.Fatalf("got span %g..%g, want -15..15", cfg.PressureMin, cfg.PressureMax)
	}
}

func TestParsePartNumberUnits(t *testing.T) {
	tests := []struct {
		code   string
		unit   PressureUnit
		factor float64
	}{
		{"ABPDRRT100MG2A3", Mbar, 100},
		{"ABPDRRT001BG2A3", Bar, 100000},
		{"ABPDRRT100KG2A3", KiloPascal, 1000},
		{"ABPDRRT150PG2A3", PSI, 6894.757293},
	}
	for _, tt := range tests {
		cfg := mustParse(t, tt.code)
		if cfg.Unit != tt.unit || cfg.ConversionFactor != tt.factor {
			t.Errorf("%s: got (%v, %g), want (%v, %g)", tt.code, cfg.Unit, cfg.ConversionFactor, tt.unit, tt.factor)
		}
	}
}

func TestParsePartNumberAddresses(t *testing.T) {
	want := []uint16{0x08, 0x18, 0x28, 0x38, 0x48, 0x58, 0x68, 0x78}
	for i, addr := range want {
		code := fmt.Sprintf("ABPDRRT150PG%dA3", i)
		if cfg := mustParse(t, code); cfg.Addr != addr {
			t.Errorf("%s: got address %#02x, want %#02x", code, cfg.Addr, addr)
		}
	}
}

func TestParsePartNumberOptions(t *testing.T) {
	tests := []struct {
		code        string
		sleep       bool
		thermometer bool
	}{
		{"ABPDRRT150PG2A3", false, false},
		{"ABPDRRT150PG2D3", true, true},
		{"ABPDRRT150PG2S3", true, false},
		{"ABPDRRT150PG2T3", false, true},
	}
	for _, tt := range tests {
		cfg := mustParse(t, tt.code)
		if cfg.HasSleep != tt.sleep || cfg.HasThermometer != tt.thermometer {
			t.Errorf("%s: got (sleep=%t, thermometer=%t), want (sleep=%t, thermometer=%t)",
				tt.code, cfg.HasSleep, cfg.HasThermometer, tt.sleep, tt.thermometer)
		}
	}
}

func TestParsePartNumberErrors(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{"", ErrPartNumberLength},
		{"ABPDRRT150PG2A", ErrPartNumberLength},
		{"ABXDRRT150PG2A3", ErrSeries},
		{"abpDRRT150PG2A3", ErrSeries},
		{"ABPDRRTXXXPG2A3", ErrPressureRange},
		{"ABPDRRT000PG2A3", ErrPressureRange},
		{"ABPDRRT+15PG2A3", ErrPressureRange},
		{"ABPDRRT150XG2A3", ErrPressureUnit},
		{"ABPDRRT150PX2A3", ErrRangeType},
		{"ABPDRRT150PGAA3", ErrInterface},
		{"ABPDRRT150PGSA3", ErrInterface},
		{"ABPDRRT150PG8A3", ErrOutputType},
		{"ABPDRRT150PG2X3", ErrTransferFunction},
	}
	for _, tt := range tests {
		if _, err := ParsePartNumber(tt.code); !errors.Is(err, tt.want) {
			t.Errorf("ParsePartNumber(%q) = %v, want %v", tt.code, err, tt.want)
		}
	}
}

func TestConfigPressure(t *testing.T) {
	gauge := mustParse(t, "ABPDRRT150PG2A3")
	diff := mustParse(t, "ABPDRRT015PD2A3")
	tests := []struct {
		name string
		cfg  Config
		raw  uint16
		want float64
	}{
		{"gauge low", gauge, 0x0666, 0},
		{"gauge high", gauge, 0x3999, 150},
		{"gauge midpoint", gauge, 8192, 75.0057221},
		{"differential low", diff, 0x0666, -15},
		{"differential high", diff, 0x3999, 15},
	}
	for _, tt := range tests {
		if got := tt.cfg.Pressure(tt.raw); math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("%s: Pressure(%#04x) = %g, want %g", tt.name, tt.raw, got, tt.want)
		}
	}
}

func TestConfigTemperature(t *testing.T) {
	cfg := mustParse(t, "ABPDRRT150PG2T3")
	tests := []struct {
		raw  uint16
		want float64
	}{
		{0, -50},
		{1023, 49.9511480},
		{2047, 150},
	}
	for _, tt := range tests {
		if got := cfg.Temperature(tt.raw); math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("Temperature(%d) = %g, want %g", tt.raw, got, tt.want)
		}
	}
}
