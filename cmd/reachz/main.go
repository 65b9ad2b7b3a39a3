// Reachz - touch-surface receiver
// Turns OSC messages from a phone or tablet into pointer, scroll, zoom and paste actions.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"reachz/internal/config"
	"reachz/internal/engine"
	"reachz/internal/input"
	"reachz/internal/network"
	"reachz/internal/protocol"
)

var version = "0.3.0"

// serviceFlags are the command-line overrides for the config file
type serviceFlags struct {
	configPath string
	logLevel   string
	listenIP   string
	port       int
	dryRun     bool
	api        bool
	apiPort    int
	noTray     bool
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var flags serviceFlags

	cmd := &cobra.Command{
		Use:   "reachz",
		Short: "Receive touch-surface OSC messages and act on this computer",
		Long: "reachz listens for OSC messages from a touch controller and turns them into\n" +
			"cursor moves, clicks, scrolling, zoom gestures and carry-and-drop pasting.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgMgr, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}
			cfg := cfgMgr.Get()
			applyFlags(cmd, &flags, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			setupLogging(cfg.General.LogLevel)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runService(ctx, cfgMgr, cfg)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (.json or .toml); default is the user config dir")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	f := cmd.Flags()
	f.StringVar(&flags.listenIP, "ip", "", "address to listen on for OSC")
	f.IntVar(&flags.port, "port", 0, "UDP port to listen on for OSC")
	f.BoolVar(&flags.dryRun, "dry-run", false, "log host actions instead of performing them")
	f.BoolVar(&flags.api, "api", false, "enable the HTTP/WebSocket control server")
	f.IntVar(&flags.apiPort, "api-port", 0, "port for the control server")
	f.BoolVar(&flags.noTray, "no-tray", false, "run without the system tray icon")

	cmd.AddCommand(sendCmd(), addressesCmd(), monitorCmd(), autostartCmd(), versionCmd())
	return cmd
}

// applyFlags overrides cfg with every flag the user set explicitly
func applyFlags(cmd *cobra.Command, flags *serviceFlags, cfg *config.Config) {
	changed := func(name string) bool { return cmd.Flags().Changed(name) }
	if changed("log-level") {
		cfg.General.LogLevel = flags.logLevel
	}
	if changed("ip") {
		cfg.General.ListenIP = flags.listenIP
	}
	if changed("port") {
		cfg.General.Port = flags.port
	}
	if changed("dry-run") {
		cfg.General.DryRun = flags.dryRun
	}
	if changed("api") {
		cfg.General.APIEnabled = flags.api
	}
	if changed("api-port") {
		cfg.General.APIPort = flags.apiPort
	}
	if changed("no-tray") {
		cfg.General.TrayEnabled = !flags.noTray
	}
}

func loadConfig(path string) (*config.Manager, error) {
	var cfgMgr *config.Manager
	if path != "" {
		cfgMgr = config.NewManagerAt(path)
	} else {
		var err error
		cfgMgr, err = config.NewManager()
		if err != nil {
			return nil, fmt.Errorf("initializing config: %w", err)
		}
	}
	if err := cfgMgr.Load(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfgMgr, nil
}

func setupLogging(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

func sendCmd() *cobra.Command {
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "send <address> [args...]",
		Short: "Send one OSC message, e.g. send /trackpad 0.5 0.5",
		Long: "Send one OSC message to a running receiver. Arguments that parse as\n" +
			"integers are sent as int32, other numbers as float32, the rest as strings.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sender := network.NewOSCSender(host, port)
			oscArgs := network.ParseArgs(args[1:])
			if err := sender.Send(args[0], oscArgs...); err != nil {
				return err
			}
			fmt.Printf("Sent %s %v to %s\n", args[0], oscArgs, net.JoinHostPort(host, strconv.Itoa(port)))
			return nil
		},
	}
	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "receiver host")
	cmd.Flags().IntVar(&port, "port", 9000, "receiver OSC port")
	return cmd
}

func addressesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "addresses",
		Short: "List the OSC addresses the receiver understands",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			eng := engine.New(context.Background(), input.NewLogSink(1, 1), engine.DefaultOptions(1, 1))
			defer eng.Close()
			for _, addr := range eng.Addresses() {
				fmt.Println(addr)
			}
		},
	}
}

func monitorCmd() *cobra.Command {
	var (
		addr  string
		token string
	)
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Watch carry state changes on a receiver's control server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client := network.NewWSClient(addr, token)
			client.OnConnect = func() {
				if err := client.RequestStatus(); err != nil {
					log.Warnf("Monitor: status request failed: %v", err)
				}
			}
			client.OnStatus = func(raw json.RawMessage) {
				var st engine.Status
				if err := json.Unmarshal(raw, &st); err != nil {
					return
				}
				fmt.Printf("status: carrying=%v speed=%g curve=%s joystick=%v\n",
					st.Carrying, st.Speed, st.Curve, st.JoystickRunning)
			}
			client.OnCarry = func(p protocol.CarryPayload) {
				if p.Holding {
					fmt.Printf("carrying: %s\n", p.Preview)
				} else {
					fmt.Println("carry: empty")
				}
			}
			client.Start()
			<-ctx.Done()
			client.Close()
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "api", "127.0.0.1:9001", "control server address")
	cmd.Flags().StringVar(&token, "token", "", "API bearer token")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("reachz version %s\n", version)
		},
	}
}
