// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/toml"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/matrixorigin/mapjoin/pkg/common/moerr"
	"github.com/matrixorigin/mapjoin/pkg/config"
	"github.com/matrixorigin/mapjoin/pkg/logutil"
	v2 "github.com/matrixorigin/mapjoin/pkg/util/metric/v2"
)

var (
	configFileFlag  = flag.String("config", "", "toml configuration file")
	dumpConfigFlag  = flag.Bool("dump-config", false, "print the effective configuration and exit")
	metricsAddrFlag = flag.String("metrics-addr", "", "serve prometheus metrics on this address after the run, until interrupted")

	buildRowsFlag = flag.Int("build-rows", 1000000, "rows on the build side")
	probeRowsFlag = flag.Int("probe-rows", 1000000, "rows on the probe side")
	batchSizeFlag = flag.Int("batch-size", 8192, "rows per batch")
	keysFlag      = flag.Int("keys", 100000, "distinct join key values")
	nullRatioFlag = flag.Float64("null-ratio", 0, "fraction of null keys")
	workersFlag   = flag.Int("workers", 0, "parallel probe workers, 0 means GOMAXPROCS")
	seedFlag      = flag.Int64("seed", 1, "random seed")
)

func loadConfig(ctx context.Context) (*config.Config, error) {
	if *configFileFlag == "" {
		return config.ParseConfig(ctx, "")
	}
	return config.LoadConfig(ctx, *configFileFlag)
}

func (w workload) validate(ctx context.Context) error {
	if w.BuildRows < 0 || w.ProbeRows < 0 {
		return moerr.NewInvalidArg(ctx, "rows", fmt.Sprintf("%d/%d", w.BuildRows, w.ProbeRows))
	}
	if w.BatchSize <= 0 {
		return moerr.NewInvalidArg(ctx, "batch-size", w.BatchSize)
	}
	if w.Keys <= 0 {
		return moerr.NewInvalidArg(ctx, "keys", w.Keys)
	}
	if w.NullRatio < 0 || w.NullRatio > 1 {
		return moerr.NewInvalidArg(ctx, "null-ratio", w.NullRatio)
	}
	return nil
}

func waitSignal() {
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGTERM, syscall.SIGINT)
	<-sigchan
}

func serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(v2.GetPrometheusGatherer(), promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	errC := make(chan error, 1)
	go func() {
		errC <- srv.ListenAndServe()
	}()
	logutil.Info(ctx, "serving metrics, interrupt to exit", zap.String("addr", addr))
	done := make(chan struct{})
	go func() {
		waitSignal()
		close(done)
	}()
	select {
	case err := <-errC:
		return err
	case <-done:
	}
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg, err := loadConfig(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed. error:%v\n", err)
		os.Exit(-1)
	}
	if *dumpConfigFlag {
		if err = toml.NewEncoder(os.Stdout).Encode(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "encode config failed. error:%v\n", err)
			os.Exit(-1)
		}
		return
	}
	logutil.SetupMOLogger(&cfg.Log)

	w := workload{
		BuildRows: *buildRowsFlag,
		ProbeRows: *probeRowsFlag,
		BatchSize: *batchSizeFlag,
		Keys:      *keysFlag,
		NullRatio: *nullRatioFlag,
		Workers:   *workersFlag,
		Seed:      *seedFlag,
	}
	if err = w.validate(ctx); err != nil {
		logutil.Error(ctx, "bad workload", zap.Error(err))
		os.Exit(-1)
	}

	stop := startCPUProfile(ctx)
	res, err := w.run(ctx, cfg.JoinTable)
	stop()
	writeAllocsProfile(ctx)
	if err != nil {
		logutil.Error(ctx, "map join failed", zap.Error(err))
		os.Exit(-1)
	}
	logutil.Info(ctx, "map join done",
		zap.Int("keys", res.Stats.Keys),
		zap.Int("build-rows", res.Stats.Rows),
		zap.Int("output-rows", res.OutputRows),
		zap.Duration("build", res.Build),
		zap.Duration("probe", res.Probe))

	if *metricsAddrFlag != "" {
		if err = serveMetrics(ctx, *metricsAddrFlag); err != nil {
			logutil.Error(ctx, "metrics server failed", zap.Error(err))
			os.Exit(-1)
		}
	}
}
