package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/joy-dx/banknet/reachability"
	"github.com/joy-dx/banknet/relays"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print reachability transitions until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			monitor := reachability.ProvideMonitor(&netCfg)
			defer monitor.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", time.Now().Format(time.RFC3339), stateName(monitor.IsConnected()))
			unsubscribe := monitor.OnChange(func(connected bool) {
				fmt.Fprintf(out, "%s %s\n", time.Now().Format(time.RFC3339), stateName(connected))
			})
			defer unsubscribe()

			if metricsAddr != "" {
				srv, err := serveMetrics(metricsAddr, monitor)
				if err != nil {
					return err
				}
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve a reachability gauge on this address under /metrics")
	return cmd
}

func stateName(connected bool) string {
	if connected {
		return "online"
	}
	return "offline"
}

func serveMetrics(addr string, monitor *reachability.Monitor) (*http.Server, error) {
	reg := prometheus.NewRegistry()
	err := reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "banknet_reachable",
		Help: "1 when the network path is usable.",
	}, func() float64 {
		if monitor.IsConnected() {
			return 1
		}
		return 0
	}))
	if err != nil {
		return nil, fmt.Errorf("register reachability gauge: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			netCfg.Relay().Error(relays.RlyNetLog{Msg: "metrics server failed", Err: err.Error()})
		}
	}()
	return srv, nil
}
