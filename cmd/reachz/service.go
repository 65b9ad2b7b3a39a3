package main

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"reachz/internal/api"
	"reachz/internal/carry"
	"reachz/internal/config"
	"reachz/internal/engine"
	"reachz/internal/hotkey"
	"reachz/internal/input"
	"reachz/internal/input/robot"
	"reachz/internal/network"
	"reachz/internal/osutils"
	"reachz/internal/router"
	"reachz/internal/tray"
)

// Screen size reported by the dry-run sink
const (
	dryRunWidth  = 1920
	dryRunHeight = 1080
)

func newSink(dryRun bool) (input.HostInputSink, int, int) {
	if dryRun {
		log.Warn("Service: dry run, host actions are only logged")
		return input.NewLogSink(dryRunWidth, dryRunHeight), dryRunWidth, dryRunHeight
	}
	sink := robot.New()
	w, h := sink.ScreenSize()
	return sink, w, h
}

// carryHooks fans carry transitions out to the tray and the API
type carryHooks struct {
	mu    sync.Mutex
	hooks []func(carry.State)
}

func (c *carryHooks) add(fn func(carry.State)) {
	c.mu.Lock()
	c.hooks = append(c.hooks, fn)
	c.mu.Unlock()
}

func (c *carryHooks) fire(st carry.State) {
	c.mu.Lock()
	hooks := append([]func(carry.State)(nil), c.hooks...)
	c.mu.Unlock()
	for _, fn := range hooks {
		fn(st)
	}
}

func runService(ctx context.Context, cfgMgr *config.Manager, cfg *config.Config) error {
	log.Printf("Reachz %s starting...", version)

	sink, w, h := newSink(cfg.General.DryRun)
	log.Printf("Service: screen %dx%d", w, h)

	eng := engine.New(ctx, sink, engine.OptionsFromConfig(cfg, w, h))
	eng.ApplyConfig(cfg)
	defer eng.Close()

	hooks := &carryHooks{}
	eng.SetCarryHook(hooks.fire)

	// OSC receiver
	receiver := network.NewOSCReceiver(net.JoinHostPort(cfg.General.ListenIP, strconv.Itoa(cfg.General.Port)))
	receiver.Dispatch = func(msg router.Message) { eng.Dispatch(msg) }
	if err := receiver.Start(); err != nil {
		return fmt.Errorf("starting OSC receiver: %w", err)
	}
	defer receiver.Stop()

	rules := []osutils.FirewallRule{osutils.OSCRule(cfg.General.Port)}
	if cfg.General.APIEnabled {
		rules = append(rules, osutils.APIRule(cfg.General.APIPort))
	}
	go func() {
		for _, rule := range rules {
			if err := osutils.EnsureFirewallRule(rule); err != nil {
				log.Warnf("Service: firewall rule %q: %v", rule.Name, err)
			}
		}
	}()

	for _, target := range network.ListenTargets(cfg.General.ListenIP, cfg.General.Port) {
		log.Printf("Service: send OSC to %s", target)
	}
	log.Printf("Service: %d addresses registered", len(eng.Addresses()))
	for _, addr := range eng.Addresses() {
		log.Debugf("  %s", addr)
	}

	// Control server
	if cfg.General.APIEnabled {
		srv := api.NewServer(eng, cfg.General.APIToken)
		srv.SetReceiverStats(receiver.Stats)
		hooks.add(srv.BroadcastCarry)

		addr := net.JoinHostPort(cfg.General.ListenIP, strconv.Itoa(cfg.General.APIPort))
		go func() {
			if err := srv.Start(addr); err != nil {
				log.Errorf("Service: API server error: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	// Live config reload
	cfgMgr.RegisterChangeCallback(func() {
		eng.ApplyConfig(cfgMgr.Get())
	})
	go func() {
		if err := cfgMgr.Watch(ctx); err != nil {
			log.Warnf("Service: config watch disabled: %v", err)
		}
	}()

	// Cancel hotkey
	hkMgr := hotkey.NewManager()
	if _, err := hkMgr.Register(cfg.General.CancelHotkey, func() { eng.CancelCarry() }); err != nil {
		log.Warnf("Service: invalid cancel hotkey %q: %v", cfg.General.CancelHotkey, err)
	} else if cfg.General.CancelHotkey != "" {
		if err := hkMgr.Start(); err != nil {
			log.Warnf("Service: hotkey hook failed: %v", err)
		} else {
			log.Printf("Service: %s cancels a carry", cfg.General.CancelHotkey)
		}
	}

	if !cfg.General.TrayEnabled {
		log.Println("Reachz running. Press Ctrl+C to stop.")
		<-ctx.Done()
		log.Println("Shutting down...")
		return nil
	}

	runTray(ctx, eng, hooks, receiver)
	log.Println("Shutting down...")
	return nil
}

// runTray shows the tray menu and blocks until Quit or ctx is done
func runTray(ctx context.Context, eng *engine.Engine, hooks *carryHooks, receiver *network.OSCReceiver) {
	t := tray.New("Reachz")

	listen := "Listening on " + receiver.LocalAddr().String()
	t.AddMenuItem(listen, nil)
	statusID := t.AddMenuItem("Not carrying", nil)
	t.AddSeparator()
	cancelID := t.AddMenuItem("Cancel carry", func() { eng.CancelCarry() })
	t.SetItemEnabled(cancelID, false)
	t.AddSeparator()
	t.AddMenuItem("Quit", t.Stop)

	hooks.add(func(st carry.State) {
		if st.Holding {
			preview := carry.Preview(st.Text, 30)
			t.SetItemTitle(statusID, "Carrying: "+preview)
			t.SetTooltip("Reachz - carrying " + preview)
		} else {
			t.SetItemTitle(statusID, "Not carrying")
			t.SetTooltip("Reachz")
		}
		t.SetItemEnabled(cancelID, st.Holding)
	})

	go func() {
		<-ctx.Done()
		t.Stop()
	}()

	log.Println("Reachz running. Press Ctrl+C to stop.")
	t.Run()
}
