package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/mTix/internal/replica/events"
	"github.com/msto63/mTix/internal/replica/server"
	"github.com/msto63/mTix/internal/replica/store"
	"github.com/msto63/mTix/pkg/core/config"
	"github.com/msto63/mTix/pkg/core/discovery"
	"github.com/msto63/mTix/pkg/core/version"
)

var (
	serveHost       string
	servePort       int
	serveReplicas   int
	serveStore      string
	serveSQLitePath string
	serveAMQPURL    string
	serveAdvertise  string
	serveRegister   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local dev cluster",
	Long: `Runs one or more dev replicas of the ticketing backend. Replicas started
together share one store and listen on consecutive ports, so killing one
of them exercises client failover.

Examples:
  mtix serve                              # one replica on :50051
  mtix serve --replicas 3                 # :50051, :50052, :50053
  mtix serve --store sqlite --register    # persistent, announced in etcd`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.StringVar(&serveHost, "host", "", "listen host (default from config)")
	flags.IntVar(&servePort, "port", 0, "port of the first replica (default from config)")
	flags.IntVar(&serveReplicas, "replicas", 1, "number of replicas")
	flags.StringVar(&serveStore, "store", "", "memory or sqlite (default from config)")
	flags.StringVar(&serveSQLitePath, "sqlite-path", "", "SQLite database file")
	flags.StringVar(&serveAMQPURL, "amqp-url", "", "publish booking events to this RabbitMQ broker")
	flags.StringVar(&serveAdvertise, "advertise", "", "host to register instead of the listen host")
	flags.BoolVar(&serveRegister, "register", false, "register replicas in the coordination store")
}

func applyServeFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host = serveHost
	}
	if flags.Changed("port") {
		cfg.Server.Port = servePort
	}
	if flags.Changed("store") {
		cfg.Server.Store = serveStore
	}
	if flags.Changed("sqlite-path") {
		cfg.Server.SQLitePath = serveSQLitePath
	}
	if flags.Changed("amqp-url") {
		cfg.Server.AMQPURL = serveAMQPURL
	}
	if flags.Changed("advertise") {
		cfg.Server.Advertise = serveAdvertise
	}
	if flags.Changed("register") {
		cfg.Server.Register = serveRegister
	}
	if serveReplicas < 1 {
		return fmt.Errorf("--replicas must be at least 1")
	}
	return cfg.Validate()
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Server.Store {
	case config.StoreSQLite:
		return store.NewSQLiteStore(store.SQLiteConfig{Path: cfg.Server.SQLitePath})
	default:
		return store.NewMemoryStore(), nil
	}
}

func openPublisher(cfg *config.Config, logger *slog.Logger) events.Publisher {
	if cfg.Server.AMQPURL == "" {
		return events.Nop{}
	}
	return events.NewAMQP(cfg.Server.AMQPURL, logger)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyServeFlags(cmd, cfg); err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, cancel := signalContext()
	defer cancel()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	publisher := openPublisher(cfg, logger)
	defer publisher.Close()

	fmt.Printf("mTix dev cluster %s\n", version.Replica)
	fmt.Println("=====================")
	fmt.Printf("Store: %s\n", cfg.Server.Store)
	fmt.Println()

	var replicas []*server.Server
	for i := range serveReplicas {
		port := cfg.Server.Port + i
		sc := server.Config{Host: cfg.Server.Host, Port: port}
		if cfg.Server.Advertise != "" {
			sc.Advertise = discovery.Endpoint{Host: cfg.Server.Advertise, Port: port}.String()
		}

		opts := []server.Option{server.WithPublisher(publisher)}
		if cfg.Server.Register {
			reg, err := discovery.NewRegistrarFromConfig(cfg.Discovery, logger)
			if err != nil {
				stopAll(replicas)
				return err
			}
			if reg != nil {
				opts = append(opts, server.WithRegistrar(reg))
			}
		}

		s := server.New(sc, st, logger.With("replica", i+1), opts...)
		if err := s.Start(ctx); err != nil {
			stopAll(replicas)
			return err
		}
		replicas = append(replicas, s)
		fmt.Printf("  [+] replica %d  %s\n", i+1, s.AdvertiseAddress())
	}

	fmt.Println()
	fmt.Println("Press Ctrl+C to stop.")
	<-ctx.Done()

	fmt.Println()
	fmt.Println("Stopping...")
	stopAll(replicas)
	return nil
}

func stopAll(replicas []*server.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, s := range replicas {
		s.Stop(ctx)
	}
}
