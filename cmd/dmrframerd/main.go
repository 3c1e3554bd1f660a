// Command dmrframerd synchronizes to a DMR TDMA dibit stream, frames individual bursts, and
// reports them alongside sync-loss and carrier-lock correction events.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/dbehnke/dmrframerd/internal/channelconfig"
	"github.com/dbehnke/dmrframerd/internal/config"
	"github.com/dbehnke/dmrframerd/internal/diagnostics"
	"github.com/dbehnke/dmrframerd/internal/dmrburst"
	"github.com/dbehnke/dmrframerd/internal/symbolsource"
)

const version = "1.0.0"

// consoleSink logs every burst and sync-loss event through the standard logger, standing in for whatever real
// downstream consumer (a transcoder, a recorder, a relay) eventually wants the framed bursts.
type consoleSink struct {
	mu         sync.Mutex
	burstCount uint64
	byteCount  uint64
	started    time.Time
}

func newConsoleSink() *consoleSink {
	return &consoleSink{started: time.Now()}
}

func (s *consoleSink) Burst(b dmrburst.Burst) {
	s.mu.Lock()
	s.burstCount++
	s.byteCount += uint64(len(b.Bits))
	s.mu.Unlock()

	if b.Sync.Continuation() {
		// No sync field was actually checked for this burst; its pattern was predicted from the
		// voice superframe chain, so bit-error count and carrier lock are meaningless for it.
		log.Printf("burst #%d slot=%d sync=%s (predicted) ts=%dms", s.burstCount, b.Slot, b.Sync.Label, b.TimestampMs)
		return
	}

	log.Printf("burst #%d slot=%d sync=%s lock=%s errors=%d ts=%dms",
		s.burstCount, b.Slot, b.Sync.Label, b.Lock, b.Errors, b.TimestampMs)
}

func (s *consoleSink) SyncLoss(l dmrburst.SyncLoss) {
	log.Printf("sync lost after %d bits, ts=%dms", l.Bits, l.TimestampMs)
}

func (s *consoleSink) summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("%s bursts framed, %s of burst data, running %s",
		humanize.Comma(int64(s.burstCount)),
		humanize.Bytes(s.byteCount),
		humanize.RelTime(s.started, time.Now(), "", ""))
}

func main() {
	configFile := flag.String("config", "dmrframerd.ini", "path to configuration file")
	flag.Parse()

	runID := uuid.New()
	log.Printf("dmrframerd %s starting (run %s)", version, runID)

	cfg := config.NewConfig(*configFile)
	if err := cfg.Load(); err != nil {
		log.Printf("could not load %s, using defaults: %v", *configFile, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Printf("shutdown signal received")
		cancel()
	}()

	var wg sync.WaitGroup

	sink := newConsoleSink()
	var messageSink dmrburst.MessageSink = sink

	if cfg.GetDiagnosticsEnabled() {
		recorder, err := diagnostics.NewRecorder(diagnostics.Config{
			Path:       cfg.GetDiagnosticsPath(),
			SymbolRate: cfg.GetSymbolRate(),
		}, sink, log.Default())
		if err != nil {
			log.Fatalf("failed to open diagnostics store: %v", err)
		}
		defer recorder.Close()
		messageSink = recorder
		log.Printf("diagnostics session %s", recorder.SessionID())
	}

	if cfg.GetChannelConfigEnabled() {
		store, err := channelconfig.NewStore(channelconfig.Config{
			Path:      cfg.GetChannelConfigPath(),
			CacheSize: cfg.GetChannelConfigCacheSize(),
		}, log.Default())
		if err != nil {
			log.Fatalf("failed to open channel config store: %v", err)
		}
		defer store.Close()

		if url := cfg.GetChannelConfigSyncURL(); url != "" {
			syncer := channelconfig.NewSyncerWithConfig(store, log.Default(), channelconfig.SyncerConfig{
				URL:          url,
				SyncInterval: time.Duration(cfg.GetChannelConfigSyncHours()) * time.Hour,
			})
			wg.Add(1)
			go func() {
				defer wg.Done()
				syncer.Start(ctx)
			}()
		}
	}

	framer := dmrburst.NewMessageFramer(messageSink, dmrburst.NoopPLL{},
		cfg.GetSyncSearchThreshold(), cfg.GetSyncLockThreshold())

	samples := make(chan symbolsource.Sample, 64)
	stop := make(chan struct{})

	var source interface {
		Run(chan<- symbolsource.Sample, <-chan struct{}) error
	}

	switch cfg.GetInputMode() {
	case "file":
		source = symbolsource.NewFileSource(cfg.GetInputSymbolFile(), 512)
	default:
		udp := symbolsource.NewUDPSource(cfg.GetInputAddress(), int(cfg.GetInputPort()))
		if err := udp.Open(); err != nil {
			log.Fatalf("failed to open symbol source: %v", err)
		}
		defer udp.Close()
		source = udp
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := source.Run(samples, stop); err != nil {
			log.Printf("symbol source stopped: %v", err)
		}
		close(samples)
	}()

	statusTicker := time.NewTicker(30 * time.Second)
	defer statusTicker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			close(stop)
			break loop
		case sample, ok := <-samples:
			if !ok {
				break loop
			}
			framer.ReceiveBytes(sample.Bits, sample.TimestampMs)
		case <-statusTicker.C:
			log.Printf("status: %s", sink.summary())
		}
	}

	wg.Wait()
	log.Printf("dmrframerd stopped: %s", sink.summary())
}
