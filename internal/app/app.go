// Package app wires the configured components onto one poll loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/sirupsen/logrus"

	"hamlab-sdr-bridge/internal/cat"
	"hamlab-sdr-bridge/internal/config"
	"hamlab-sdr-bridge/internal/feed"
	"hamlab-sdr-bridge/internal/hermes"
	clog "hamlab-sdr-bridge/internal/log"
	"hamlab-sdr-bridge/internal/poll"
	"hamlab-sdr-bridge/internal/radio"
	"hamlab-sdr-bridge/internal/rigctl"
)

// App holds the station and every enabled engine.
type App struct {
	log     logrus.FieldLogger
	cfg     *config.Config
	station *radio.Station
	driver  *poll.Driver

	sink *hermes.UDPSink
	link *hermes.Link
	rig  *rigctl.Server
	cat  *cat.Bridge
	hub  *feed.Hub
	pub  *feed.Publisher
}

// New builds the station and opens the enabled engines. Hardware that does
// not answer discovery is reported and the rest keeps running.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	mode, ok := radio.ParseMode(cfg.Radio.Mode)
	if !ok {
		return nil, fmt.Errorf("unknown radio mode %q", cfg.Radio.Mode)
	}
	a := &App{
		log: log,
		cfg: cfg,
		station: radio.NewStation(radio.StationOptions{
			Title:      cfg.Radio.Title,
			SampleRate: cfg.Radio.SampleRate,
			Frequency:  cfg.Radio.Frequency,
			Mode:       mode,
			PTTControl: cfg.Radio.PTTControl,
		}),
		driver: poll.NewDriver(cfg.Poll.Interval, cfg.Poll.SignalBuffer, clog.Component(log, "poll")),
	}

	if cfg.Rigctl.Enabled {
		rig, err := rigctl.Listen(cfg.Rigctl.Listen, a.station, clog.Component(log, "rigctl"))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.rig = rig
		a.driver.Add(rig)
	}

	if cfg.CAT.Enabled {
		if err := a.openCAT(); err != nil {
			a.Close()
			return nil, err
		}
	}

	if cfg.Hardware.Enabled {
		if err := a.openHardware(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				a.Close()
				return nil, err
			}
			log.Errorf("hardware unavailable: %v", err)
		}
	}

	if cfg.Feed.Enabled {
		a.hub = feed.NewHub(clog.Component(log, "feed"))
		a.pub = feed.NewPublisher(a.station, a.hub, cfg.Radio.Title, clog.Component(log, "feed"))
		a.driver.Add(a.pub)
	}
	return a, nil
}

func (a *App) openCAT() error {
	dialect, err := cat.ParseDialect(a.cfg.CAT.Dialect)
	if err != nil {
		return err
	}
	l := clog.Component(a.log, "cat")
	ep, err := cat.Open(a.cfg.CAT.Device, a.cfg.CAT.PublicName, a.cfg.CAT.Baud, a.driver.Signal, l)
	if err != nil {
		return fmt.Errorf("cat endpoint: %w", err)
	}
	a.cat = cat.NewBridge(ep, a.station, dialect, l)
	a.driver.Add(a.cat)
	return nil
}

func (a *App) openHardware(ctx context.Context) error {
	hw := a.cfg.Hardware
	l := clog.Component(a.log, "hermes")
	resp, err := hermes.Discover(ctx, hermes.DiscoverOptions{
		BroadcastAddr: hw.BroadcastAddr,
		Port:          hw.Port,
		Attempts:      hw.Attempts,
		Delay:         hw.Delay,
		CodeVersion:   hw.CodeVersion,
		BoardID:       hw.BoardID,
		TargetIP:      hw.IP,
	}, l)
	if err != nil {
		return err
	}
	sink, err := hermes.DialSink(resp.IP.String(), hw.Port, resp.LocalIP)
	if err != nil {
		return err
	}
	a.sink = sink
	a.link = hermes.NewLink(sink, a.station, hermes.Options{
		Clock:             hw.Clock,
		TransverterOffset: hw.TransverterOffset,
		BandOutputs:       hw.BandOutputs,
		TxLevel:           hw.TxLevel,
		TxReduction:       hw.TxReduction,
		DigitalTxLevel:    hw.DigitalTxLevel,
	}, l)
	a.link.SetLNA(hw.LNA)
	a.driver.Add(a.link)
	return nil
}

// Station returns the shared radio state.
func (a *App) Station() *radio.Station { return a.station }

// RigctlAddr is the rigctld listen address, nil when disabled.
func (a *App) RigctlAddr() net.Addr {
	if a.rig == nil {
		return nil
	}
	return a.rig.Addr()
}

// CATName is the path CAT clients open, empty when disabled.
func (a *App) CATName() string {
	if a.cat == nil {
		return ""
	}
	return a.cat.Endpoint().Name()
}

// Run drives the poll loop and the feed until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.hub != nil {
		go a.hub.Run(ctx)
		go func() {
			h := feed.Handler(a.hub, a.pub)
			if err := feed.Serve(ctx, a.cfg.Feed.Listen, h, clog.Component(a.log, "feed")); err != nil {
				a.log.Errorf("%v", err)
			}
		}()
	}
	a.log.Infof("%s running", a.cfg.Radio.Title)
	err := a.driver.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close releases every open socket and endpoint.
func (a *App) Close() {
	if a.rig != nil {
		a.rig.Close()
	}
	if a.cat != nil {
		a.cat.Endpoint().Close()
	}
	if a.sink != nil {
		a.sink.Close()
	}
}
