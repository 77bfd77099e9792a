package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"strings"
	"time"

	"github.com/joy-dx/banknet"
	"github.com/joy-dx/banknet/dto"
	"github.com/joy-dx/banknet/plugins"
	"github.com/joy-dx/banknet/reachability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type sendOptions struct {
	data     string
	form     bool
	query    []string
	s3       bool
	meta     map[string]string
	offline  bool
	timeout  time.Duration
	showHead bool
}

func sendCmd() *cobra.Command {
	var so sendOptions
	cmd := &cobra.Command{
		Use:   "send METHOD PATH",
		Short: "Send one request through the standard plugin chain and print the response",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if so.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, so.timeout)
				defer cancel()
			}

			req, err := buildRequest(args[0], args[1], so)
			if err != nil {
				return err
			}

			netCfg.S3.Metadata = mergeMetadata(netCfg.S3.Metadata, so.meta)

			var checker dto.ConnectivityChecker
			if !so.offline {
				monitor := reachability.ProvideMonitor(&netCfg)
				defer monitor.Close()
				checker = monitor
			}

			chainOpts := banknet.ChainOptions{
				Checker:    checker,
				Registerer: prometheus.NewRegistry(),
			}
			if opts.token != "" {
				chainOpts.Tokens = plugins.StaticToken(opts.token)
			}
			chain, err := banknet.StandardChain(&netCfg, chainOpts)
			if err != nil {
				return err
			}

			svc := banknet.NewNetSvc(&netCfg, chain...)
			if err := svc.Hydrate(ctx); err != nil {
				return err
			}

			resp, err := banknet.Send[dto.Response](ctx, banknet.NewAPIClient(svc), req)
			if err != nil {
				return err
			}
			printResponse(cmd, resp, so.showHead)
			return nil
		},
	}

	cmd.Flags().StringVarP(&so.data, "data", "d", "", "request body, sent as JSON unless --form is set")
	cmd.Flags().BoolVar(&so.form, "form", false, "send --data as application/x-www-form-urlencoded key=value pairs")
	cmd.Flags().StringArrayVarP(&so.query, "query", "q", nil, "query parameter as key=value, repeatable")
	cmd.Flags().BoolVar(&so.s3, "s3", false, "route the request to the S3 client")
	cmd.Flags().StringToStringVar(&so.meta, "meta", nil, "object metadata for S3 uploads as key=value, repeatable")
	cmd.Flags().BoolVar(&so.offline, "no-reachability", false, "skip the connectivity pre-check")
	cmd.Flags().DurationVar(&so.timeout, "timeout", 30*time.Second, "overall deadline, 0 disables it")
	cmd.Flags().BoolVarP(&so.showHead, "include", "i", false, "print response headers")
	return cmd
}

func buildRequest(method, path string, so sendOptions) (*dto.Request, error) {
	req := dto.DefaultRequest()
	req.WithMethod(strings.ToUpper(method)).WithPath(path).WithTaskName("cli")
	if so.s3 {
		req.WithClientRef(dto.NET_S3_CLIENT_REF)
	}

	for _, q := range so.query {
		k, v, ok := strings.Cut(q, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid query %q, expected key=value", q)
		}
		req.WithQuery(k, v)
	}

	if so.data == "" {
		return &req, nil
	}
	switch {
	case so.form:
		values := map[string]string{}
		for _, pair := range strings.Split(so.data, "&") {
			k, v, _ := strings.Cut(pair, "=")
			values[k] = v
		}
		req.WithBodyType("application/x-www-form-urlencoded").WithBody(values)
	case so.s3:
		req.WithBodyType("").WithBody([]byte(so.data))
	default:
		if !json.Valid([]byte(so.data)) {
			return nil, fmt.Errorf("--data is not valid JSON")
		}
		req.WithBody(json.RawMessage(so.data))
	}
	return &req, nil
}

// mergeMetadata lets flag values override metadata from the config file.
func mergeMetadata(base, flags map[string]string) map[string]string {
	if len(flags) == 0 {
		return base
	}
	merged := make(map[string]string, len(base)+len(flags))
	maps.Copy(merged, base)
	maps.Copy(merged, flags)
	return merged
}

func printResponse(cmd *cobra.Command, resp dto.Response, headers bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d %s\n", resp.StatusCode, http.StatusText(resp.StatusCode))
	if headers {
		_ = resp.Headers.Write(out)
	}
	if len(resp.Body) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, string(resp.Body))
	}
}
