package main

import (
	"flag"
	"log"
	"time"

	abp "github.com/crjeder/abp-pressure-sensor"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func main() {
	bus := flag.String("bus", "", "Name of the I²C bus")
	part := flag.String("part", "", "Part number printed on the sensor, e.g. ABPDRRT150PG2A3")
	interval := flag.Duration("interval", time.Second, "Time between readings")
	flag.Parse()

	_, err := host.Init()
	if err != nil {
		log.Fatal(err)
	}

	b, err := i2creg.Open(*bus)
	if err != nil {
		log.Fatal(err)
	}

	dev, err := abp.New(b, &abp.Opts{PartNumber: *part})
	if err != nil {
		log.Fatal(err)
	}

	ticker := time.NewTicker(*interval)

	for {
		var e physic.Env
		err = dev.Sense(&e)
		switch {
		case err != nil:
			log.Print(err)
		case dev.Config().HasThermometer:
			log.Printf("Pressure: %s Temperature: %.2f°C", e.Pressure, e.Temperature.Celsius())
		default:
			log.Printf("Pressure: %s", e.Pressure)
		}

		<-ticker.C
	}
}
