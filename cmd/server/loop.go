package main

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"skyharbor.ai/internal/persistence/indexdb"
	"skyharbor.ai/internal/persistence/snapshot"
	"skyharbor.ai/internal/protocol"
	"skyharbor.ai/internal/sim/fleet"
	"skyharbor.ai/internal/sim/logistics"
	"skyharbor.ai/internal/transport/ws"
)

type server struct {
	log *log.Logger
	eng *logistics.Engine
	flt *fleet.Fleet
	idx *indexdb.SQLiteIndex
	obs *ws.Server

	dataDir  string
	tickRate int

	admin chan adminReq
	stop  chan struct{}
	done  chan struct{}

	// Owned by the run goroutine; handleAdmin runs there too.
	tick uint64
}

// run owns all engine mutation. Admin requests are funneled through a
// channel so the registries are only ever touched on this goroutine. done
// closes after the final snapshot so main can join before tearing down the
// index.
func (s *server) run(startTick uint64) {
	defer close(s.done)

	cfg := s.eng.Config()
	interval := time.Second / time.Duration(s.tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.tick = startTick
	for {
		select {
		case <-s.stop:
			s.writeSnapshot(s.tick)
			return
		case req := <-s.admin:
			s.handleAdmin(req)
		case <-ticker.C:
			tick := s.tick + 1
			s.tick = tick
			s.eng.ResolveArrivals(tick)
			if tick%uint64(cfg.CycleEveryTicks) == 0 {
				s.eng.ProcessCycle(tick)
			}
			if tick%uint64(cfg.SweepEveryTicks) == 0 {
				s.eng.Sweep(tick)
			}
			if tick%uint64(cfg.SnapshotEveryTicks) == 0 {
				s.writeSnapshot(tick)
			}
			s.obs.Broadcast(s.eng.DrainEvents())
		}
	}
}

func (s *server) writeSnapshot(tick uint64) {
	snap := s.eng.ExportSnapshot(tick)
	path := filepath.Join(s.dataDir, "snapshots", fmt.Sprintf("%012d.snap.zst", tick))
	if err := snapshot.WriteSnapshot(path, snap); err != nil {
		s.log.Printf("write snapshot: %v", err)
		return
	}
	if s.idx != nil {
		s.idx.RecordSnapshot(path, snap)
	}
}

type adminKind int

const (
	adminRegister adminKind = iota + 1
	adminRemove
	adminList
	adminCanReceive
	adminPods
	adminExplain
)

type adminReq struct {
	kind adminKind

	platform  logistics.PlatformID
	source    logistics.PlatformID
	item      logistics.ItemID
	minimum   int
	requested int
	quantity  int

	resp chan adminResp
}

type adminResp struct {
	ok       bool
	reason   string
	requests map[logistics.ItemID]logistics.Request
	pods     []logistics.Pod
}

func (s *server) handleAdmin(req adminReq) {
	var resp adminResp
	switch req.kind {
	case adminRegister:
		resp.ok = s.eng.RegisterRequest(req.platform, req.item, req.minimum, req.requested)
	case adminRemove:
		resp.ok = s.eng.RemoveRequest(req.platform, req.item)
	case adminList:
		resp.ok = true
		resp.requests = s.eng.Requests(req.platform)
	case adminCanReceive:
		resp.ok, resp.reason = s.eng.CanReceiveItems(req.platform, req.item, req.quantity)
	case adminPods:
		resp.ok = true
		resp.pods = s.eng.PendingPods()
	case adminExplain:
		resp.ok, resp.reason = s.eng.ExplainTransfer(req.source, req.platform, req.item, s.tick)
	}
	req.resp <- resp
}

// ask round-trips an admin request through the sim goroutine. During
// shutdown the sim goroutine may be gone, so both the send and the reply
// wait bail out on stop.
func (s *server) ask(req adminReq) adminResp {
	req.resp = make(chan adminResp, 1)
	select {
	case s.admin <- req:
	case <-s.stop:
		return adminResp{reason: protocol.ErrInternal}
	}
	select {
	case r := <-req.resp:
		return r
	case <-s.stop:
		return adminResp{reason: protocol.ErrInternal}
	}
}
