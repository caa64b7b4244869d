package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"skyharbor.ai/internal/persistence/indexdb"
	"skyharbor.ai/internal/persistence/snapshot"
	"skyharbor.ai/internal/sim/fleet"
	"skyharbor.ai/internal/sim/logistics"
	"skyharbor.ai/internal/transport/ws"
)

func main() {
	var (
		addr         = flag.String("addr", ":8080", "http listen address")
		scenarioPath = flag.String("scenario", "./configs/fleet.yaml", "fleet scenario path")
		dataDir      = flag.String("data", "./data", "runtime data directory")
		disableDB    = flag.Bool("disable_db", false, "disable the sqlite transfer index")

		snapPath   = flag.String("snapshot", "", "path to snapshot to load (optional)")
		loadLatest = flag.Bool("load_latest_snapshot", true, "load latest snapshot from data dir if present (when -snapshot is empty)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	scen, err := fleet.Load(*scenarioPath)
	if err != nil {
		logger.Fatalf("load scenario: %v", err)
	}
	flt, err := scen.Build()
	if err != nil {
		logger.Fatalf("build fleet: %v", err)
	}

	_ = os.MkdirAll(*dataDir, 0o755)

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
	}

	eng := logistics.New(scen.EngineConfig(), flt, flt, logger)
	if idx != nil {
		eng.SetAuditLogger(idx)
	}

	// Resume from snapshot when one exists; otherwise install the
	// scenario's standing requests.
	startTick := uint64(0)
	snapshotToLoad := strings.TrimSpace(*snapPath)
	if snapshotToLoad == "" && *loadLatest {
		snapshotToLoad = latestSnapshot(*dataDir)
	}
	if snapshotToLoad != "" {
		snap, err := snapshot.ReadSnapshot(snapshotToLoad)
		if err != nil {
			logger.Fatalf("read snapshot %s: %v", snapshotToLoad, err)
		}
		eng.ImportSnapshot(snap)
		startTick = snap.Header.Tick
		logger.Printf("resumed from %s at tick %d", snapshotToLoad, startTick)
	} else {
		if err := scen.RegisterAll(eng); err != nil {
			logger.Fatalf("register scenario requests: %v", err)
		}
	}

	obs := ws.NewServer(logger)

	srv := &server{
		log:      logger,
		eng:      eng,
		flt:      flt,
		idx:      idx,
		obs:      obs,
		dataDir:  *dataDir,
		admin:    make(chan adminReq, 64),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		tickRate: eng.Config().TickRateHz,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("/v1/requests", srv.handleRequests)
	mux.HandleFunc("/v1/can_receive", srv.handleCanReceive)
	mux.HandleFunc("/v1/explain", srv.handleExplain)
	mux.HandleFunc("/v1/pods", srv.handlePods)
	mux.HandleFunc("/v1/transfers", srv.handleTransfers)
	mux.HandleFunc("/v1/observer", obs.Handler())

	httpSrv := &http.Server{Addr: *addr, Handler: mux}

	go srv.run(startTick)

	go func() {
		logger.Printf("listening on %s", *addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Printf("shutting down")

	close(srv.stop)
	// Join the sim goroutine: its final snapshot still writes through the
	// index, which the deferred Close tears down.
	<-srv.done

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
}

// latestSnapshot finds the newest snapshot file in the data dir by name;
// names embed the zero-padded tick so lexical order is tick order.
func latestSnapshot(dataDir string) string {
	entries, err := os.ReadDir(filepath.Join(dataDir, "snapshots"))
	if err != nil {
		return ""
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".snap.zst") {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return filepath.Join(dataDir, "snapshots", names[len(names)-1])
}
