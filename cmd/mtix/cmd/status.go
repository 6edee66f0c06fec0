package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/mTix/pkg/core/discovery"
	coregrpc "github.com/msto63/mTix/pkg/core/grpc"
	"github.com/msto63/mTix/pkg/core/health"
)

var statusTimeout time.Duration

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of every backend replica",
	Long: `Resolves the replica list the same way the client does and checks
each endpoint with the gRPC health protocol.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().DurationVar(&statusTimeout, "timeout", 2*time.Second, "timeout per replica")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, cancel := signalContext()
	defer cancel()

	resolver, err := discovery.NewResolverFromConfig(cfg.Discovery, logger)
	if err != nil {
		return err
	}
	replicas, err := resolver.Resolve(ctx)
	_ = resolver.Close()
	if err != nil {
		return err
	}

	fmt.Println("mTix Status")
	fmt.Println("===========")
	fmt.Println()
	fmt.Printf("Discovery: %s (key %q, source %s)\n", cfg.Discovery.Mode, cfg.Discovery.Key, replicas.Source())
	fmt.Println()
	fmt.Println("Replicas:")
	fmt.Println("---------")

	pool := coregrpc.NewConnectionPool(coregrpc.DefaultClientConfig(""))
	defer pool.Close()

	healthy := 0
	for i, ep := range replicas.Endpoints() {
		res := checkReplica(ctx, pool, ep)
		icon := "[-]"
		if res.Status == health.StatusHealthy {
			icon = "[+]"
			healthy++
		}
		fmt.Printf("  %s %d. %-25s %-10s %s\n", icon, i+1, ep.String(), res.Status, res.Message)
	}

	fmt.Println()
	switch {
	case healthy == replicas.Len():
		fmt.Println("All replicas are serving.")
	case healthy == 0:
		fmt.Println("No replica is serving.")
		fmt.Println("Start a local cluster with: mtix serve --replicas 3")
	default:
		fmt.Printf("%d of %d replicas are serving.\n", healthy, replicas.Len())
	}
	return nil
}

func checkReplica(ctx context.Context, pool *coregrpc.ConnectionPool, ep discovery.Endpoint) health.CheckResult {
	return health.GRPCChecker(ep.String(), ep.String(), pool, statusTimeout).Check(ctx)
}
