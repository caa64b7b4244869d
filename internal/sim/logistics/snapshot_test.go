package logistics

import (
	"reflect"
	"testing"

	"skyharbor.ai/internal/persistence/snapshot"
)

func populatedEngine(t *testing.T) *Engine {
	t.Helper()
	h := newFakeHost()
	ship := h.addPlatform("ship-1", "Hauler", "ship", "orbit-1")
	depot := h.addPlatform("depot", "Depot", "station", "orbit-1")
	depot.stock("iron-plate", 1000)
	ship.space("iron-plate", 500)

	e := newTestEngine(Config{TransitTicks: 100}, h)
	e.RegisterRequest("ship-1", "iron-plate", 100, 300)
	e.RegisterRequest("ship-1", "rocket-fuel", 10, 50)
	e.ProcessCycle(10)
	return e
}

func TestSnapshot_ExportImportRoundtrip(t *testing.T) {
	e := populatedEngine(t)
	snap := e.ExportSnapshot(42)

	if snap.Header.Version != snapshotVersion || snap.Header.Tick != 42 {
		t.Fatalf("header %+v", snap.Header)
	}
	if len(snap.Pods) != 1 || len(snap.Cooldowns) != 1 || len(snap.Reservations) != 1 {
		t.Fatalf("export rows: pods=%d cooldowns=%d reservations=%d",
			len(snap.Pods), len(snap.Cooldowns), len(snap.Reservations))
	}

	restored := newTestEngine(Config{TransitTicks: 100}, newFakeHost())
	restored.ImportSnapshot(snap)

	again := restored.ExportSnapshot(42)
	if !reflect.DeepEqual(snap, again) {
		t.Fatalf("roundtrip mismatch:\n%+v\n%+v", snap, again)
	}
	if restored.LastCycleTick() != e.LastCycleTick() {
		t.Fatalf("last cycle tick lost")
	}
}

func TestSnapshot_ImportSkipsMalformedRows(t *testing.T) {
	e := newTestEngine(Config{}, newFakeHost())
	e.ImportSnapshot(snapshot.EngineV1{
		Requests: []snapshot.RequestV1{
			{Platform: "", Item: "iron-plate", Minimum: 1, Requested: 1},
			{Platform: "ship-1", Item: "iron-plate", Minimum: 0, Requested: 5},
			{Platform: "ship-1", Item: "iron-plate", Minimum: 10, Requested: 5},
			{Platform: "ship-1", Item: "copper-plate", Minimum: 1, Requested: 5},
		},
		Reservations: []snapshot.ReservationV1{
			{Dest: "ship-1", Item: "iron-plate", Count: 0},
			{Dest: "ship-1", Item: "copper-plate", Count: 7},
		},
		Pods: []snapshot.PodV1{
			{Source: "depot", Dest: "ship-1", Item: "iron-plate", Count: 0},
			{Source: "depot", Dest: "ship-1", Item: "copper-plate", Count: 3, ETA: 100},
		},
	})

	if _, ok := e.RequestFor("ship-1", "iron-plate"); ok {
		t.Fatalf("malformed request rows should be skipped")
	}
	if _, ok := e.RequestFor("ship-1", "copper-plate"); !ok {
		t.Fatalf("well-formed request row should import")
	}
	if e.reservedFor("ship-1", "iron-plate") != 0 || e.reservedFor("ship-1", "copper-plate") != 7 {
		t.Fatalf("reservation import filter broken")
	}
	if len(e.PendingPods()) != 1 {
		t.Fatalf("zero-count pod should be skipped")
	}
}
