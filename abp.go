// Package abp controls a Honeywell ABP series pressure sensor over I²C.
//
// The ABP series are piezoresistive board-mount pressure sensors with a
// 14-bit digital output, calibrated between 10% and 90% of the output range.
// Some parts additionally expose an 11-bit temperature output, and some sleep
// between readings. The catalog listing printed on the sensor encodes all of
// this; pass it to New as Opts.PartNumber and the driver derives the
// address, span and capabilities itself.
//
// # Datasheet
//
// https://prod-edam.honeywell.com/content/dam/honeywell-edam/sps/siot/de-de/products/sensors/pressure-sensors/board-mount-pressure-sensors/basic-abp-series/documents/sps-siot-basic-board-mount-pressure-abp-series-datasheet-32305128-ciid-155789.pdf
package abp

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// ErrNoThermometer is returned when temperature is requested from a part
// without the temperature output option.
var ErrNoThermometer = errors.New("abp: part has no temperature output")

var errSensingContinuously = errors.New("already sensing continuously")

// Opts holds the configuration options for the sensor.
type Opts struct {
	// PartNumber is the catalog listing printed on the sensor, e.g.
	// "ABPDRRT150PG2A3". There is no usable default: the listing is the only
	// source of the sensor's address and calibration.
	PartNumber string
	// UpdateInterval is the pause between re-reads while the sensor reports
	// stale data, and the shortest interval SenseContinuous will run at.
	// Defaults to the sensor's nominal output refresh period.
	UpdateInterval time.Duration
}

// New opens a handle to the sensor described by opts.PartNumber on bus b.
// Sleep-mode parts are woken so the first reading is fresh.
func New(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	cfg, err := ParsePartNumber(opts.PartNumber)
	if err != nil {
		return nil, err
	}

	d := &Dev{
		d:         &i2c.Dev{Bus: b, Addr: cfg.Addr},
		cfg:       cfg,
		measDelay: opts.UpdateInterval,
		name:      opts.PartNumber[:partNumberLen],
	}
	if d.measDelay <= 0 {
		d.measDelay = defaultUpdateInterval
	}

	if cfg.HasSleep {
		if err := d.Wake(); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Dev is a handle to one ABP sensor on an I²C bus.
type Dev struct {
	d         conn.Conn
	cfg       Config
	measDelay time.Duration
	name      string

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s{%s}", d.name, d.d)
}

// Config returns the calibration parsed from the part number.
func (d *Dev) Config() Config {
	return d.cfg
}

// Sense reads one measurement into e: pressure, plus temperature on parts
// that have the output. A stale reading is waited out by re-reading, up to a
// few update intervals; the other status states are surfaced directly as
// ErrCommandMode or ErrDiagnostic.
func (d *Dev) Sense(e *physic.Env) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return d.wrap(errSensingContinuously)
	}

	return d.sense(e)
}

// SensePressure reads the 2-byte pressure frame once, without waiting out
// stale data: a reading the sensor has not refreshed yet returns ErrStale.
func (d *Dev) SensePressure(e *physic.Env) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return d.wrap(errSensingContinuously)
	}

	return d.sensePressure(e)
}

// SensePressureTemperature reads the 4-byte frame once, filling both
// pressure and temperature. Like SensePressure it does not wait out stale
// data. Parts without the temperature output return ErrNoThermometer.
func (d *Dev) SensePressureTemperature(e *physic.Env) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return d.wrap(errSensingContinuously)
	}
	if !d.cfg.HasThermometer {
		return ErrNoThermometer
	}

	return d.sensePressureTemperature(e)
}

// SenseContinuous returns measurements on a continuous basis.
//
// The application must call Halt() to stop the sensing when done to stop the
// acquisition goroutine and close the channel.
//
// Stale cycles are skipped, not delivered. Any other read failure stops the
// acquisition and closes the channel; the device then refuses single reads
// until Halt() is called.
//
// It's the responsibility of the caller to retrieve the values from the
// channel as fast as possible, otherwise the interval may not be respected.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	// Wind down any previous acquisition first; the sensor free-runs, there
	// is nothing to tell it.
	if err := d.Halt(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	sensing := make(chan physic.Env)
	d.stop = make(chan struct{})
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(sensing)
		d.sensingContinuous(interval, sensing, d.stop)
	}()
	return sensing, nil
}

// Precision reports one LSB of each output: the 14-bit calibrated pressure
// span over the rated range, and on parts with the temperature output the
// 11-bit span over -50 to 150°C.
func (d *Dev) Precision(e *physic.Env) {
	lsb := (d.cfg.PressureMax - d.cfg.PressureMin) / float64(d.cfg.OutputMax-d.cfg.OutputMin) * d.cfg.ConversionFactor
	e.Pressure = physic.Pressure(lsb*1000) * physic.MilliPascal
	if d.cfg.HasThermometer {
		e.Temperature = 200 * physic.Kelvin / 2047
	}
}

// Halt stops the acquisition initiated by SenseContinuous().
//
// The sensor itself keeps free-running; only the goroutine is stopped and
// the channel closed.
func (d *Dev) Halt() error {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.mu.Unlock()
	if stop == nil {
		return nil
	}
	close(stop)
	// Wait with the mutex released: the acquisition goroutine takes it for
	// every read and must get through to see the closed channel.
	d.wg.Wait()

	return nil
}

// Wake pulls a sleep-mode part out of sleep: any read request wakes the
// sensor, so one frame is read and discarded, then the part is given its
// power-up time. Parts without the sleep option ignore the call.
func (d *Dev) Wake() error {
	if !d.cfg.HasSleep {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return d.wrap(errSensingContinuously)
	}

	var buf [2]byte
	if err := d.d.Tx(nil, buf[:]); err != nil {
		return d.wrap(err)
	}
	time.Sleep(wakeDelay)

	return nil
}

func (d *Dev) sense(e *physic.Env) error {
	for try := 0; ; try++ {
		var err error
		if d.cfg.HasThermometer {
			err = d.sensePressureTemperature(e)
		} else {
			err = d.sensePressure(e)
		}
		if !errors.Is(err, ErrStale) || try >= staleRetries {
			return err
		}
		time.Sleep(d.measDelay)
	}
}

func (d *Dev) sensePressure(e *physic.Env) error {
	var buf [2]byte
	if err := d.d.Tx(nil, buf[:]); err != nil {
		return d.wrap(err)
	}

	status, raw := decodePressure(buf)
	if err := status.err(); err != nil {
		return err
	}
	e.Pressure = d.pressure(raw)

	return nil
}

func (d *Dev) sensePressureTemperature(e *physic.Env) error {
	var buf [4]byte
	if err := d.d.Tx(nil, buf[:]); err != nil {
		return d.wrap(err)
	}

	out := decodePressureTemperature(buf)
	if err := out.status.err(); err != nil {
		return err
	}
	e.Pressure = d.pressure(out.pressure)
	temp := d.cfg.Temperature(out.temperature)
	e.Temperature = physic.Temperature(temp*1000)*physic.MilliCelsius + physic.ZeroCelsius

	return nil
}

func (d *Dev) pressure(raw uint16) physic.Pressure {
	pa := d.cfg.Pressure(raw) * d.cfg.ConversionFactor
	return physic.Pressure(pa*1000) * physic.MilliPascal
}

func (d *Dev) sensingContinuous(interval time.Duration, sensing chan<- physic.Env, stop <-chan struct{}) {
	// Ensure the interval is at least the sensor's refresh period.
	if interval < d.measDelay {
		interval = d.measDelay
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	var err error
	for {
		// Halt may fire while no read is in flight; check before taking the
		// lock, not only at the select points below.
		select {
		case <-stop:
			return
		default:
		}
		// Do one initial sensing right away.
		e := physic.Env{}
		d.mu.Lock()
		err = d.sense(&e)
		d.mu.Unlock()
		switch {
		case errors.Is(err, ErrStale):
			// Transient: skip this cycle, the next tick re-reads.
		case err != nil:
			return
		default:
			select {
			case sensing <- e:
			case <-stop:
				return
			}
		}
		select {
		case <-stop:
			return
		case <-t.C:
		}
	}
}

func (d *Dev) wrap(err error) error {
	return fmt.Errorf("abp: %w", err)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
