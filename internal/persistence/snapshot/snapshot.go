package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

type Header struct {
	Version int    `json:"version"`
	Tick    uint64 `json:"tick"`
}

// EngineV1 is the abstract engine snapshot: one collection per registry
// plus the last cycle tick. The host owns persistence mechanics; this is
// the only on-disk layout the engine knows about.
type EngineV1 struct {
	Header Header `json:"header"`

	LastCycleTick uint64 `json:"last_cycle_tick"`

	Requests     []RequestV1     `json:"requests"`
	Cooldowns    []CooldownV1    `json:"cooldowns,omitempty"`
	Reservations []ReservationV1 `json:"reservations,omitempty"`
	Pods         []PodV1         `json:"pods,omitempty"`
}

type RequestV1 struct {
	Platform      string `json:"platform"`
	Item          string `json:"item"`
	Minimum       int    `json:"minimum"`
	Requested     int    `json:"requested"`
	LastProcessed uint64 `json:"last_processed,omitempty"`
}

type CooldownV1 struct {
	Dest             string `json:"dest"`
	Source           string `json:"source"`
	Item             string `json:"item"`
	LastTransferTick uint64 `json:"last_transfer_tick"`
}

type ReservationV1 struct {
	Dest  string `json:"dest"`
	Item  string `json:"item"`
	Count int    `json:"count"`
}

type PodV1 struct {
	Source  string `json:"source"`
	Dest    string `json:"dest"`
	Item    string `json:"item"`
	Count   int    `json:"count"`
	ETA     uint64 `json:"eta"`
	Created uint64 `json:"created"`
}

func WriteSnapshot(path string, snap EngineV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 64*1024)
	defer bw.Flush()

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

func ReadSnapshot(path string) (EngineV1, error) {
	var snap EngineV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)

	// Skip the header line; the gob body carries the header too.
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}
