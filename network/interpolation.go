package network

import (
	"time"

	"github.com/automoto/friendlyjam/shared/fixed"
	"github.com/automoto/friendlyjam/shared/model"
)

const snapshotBufferSize = 32

type snapshotRecord struct {
	Snapshot model.PlayerSnapshot
	At       time.Duration
}

// SnapshotBuffer is a ring buffer of relayed player snapshots stamped with
// their local arrival time, used to draw the remote avatar smoothly.
type SnapshotBuffer struct {
	history [snapshotBufferSize]snapshotRecord
	count   int
	next    int
}

// Push records snap as received at local time at. Times must not decrease.
func (b *SnapshotBuffer) Push(snap model.PlayerSnapshot, at time.Duration) {
	b.history[b.next] = snapshotRecord{Snapshot: snap, At: at}
	b.next = (b.next + 1) % snapshotBufferSize
	if b.count < snapshotBufferSize {
		b.count++
	}
}

func (b *SnapshotBuffer) record(age int) snapshotRecord {
	idx := (b.next - 1 - age + 2*snapshotBufferSize) % snapshotBufferSize
	return b.history[idx]
}

// Latest returns the newest snapshot.
func (b *SnapshotBuffer) Latest() (model.PlayerSnapshot, bool) {
	if b.count == 0 {
		return model.PlayerSnapshot{}, false
	}
	return b.record(0).Snapshot, true
}

// Sample returns the avatar as it was at local time at, interpolating the
// position between the two snapshots around it. Snapshots from different
// levels are never blended.
func (b *SnapshotBuffer) Sample(at time.Duration) (model.PlayerSnapshot, bool) {
	if b.count == 0 {
		return model.PlayerSnapshot{}, false
	}
	newest := b.record(0)
	if at >= newest.At {
		return newest.Snapshot, true
	}
	for age := 1; age < b.count; age++ {
		older, newer := b.record(age), b.record(age-1)
		if older.At > at {
			continue
		}
		if older.At == at {
			return older.Snapshot, true
		}
		if older.Snapshot.Level != newer.Snapshot.Level || newer.At == older.At {
			return newer.Snapshot, true
		}
		t := fixed.FromFloat(float64(at-older.At) / float64(newer.At-older.At))
		out := newer.Snapshot
		out.X = lerp(older.Snapshot.X, newer.Snapshot.X, t)
		out.Y = lerp(older.Snapshot.Y, newer.Snapshot.Y, t)
		return out, true
	}
	return b.record(b.count - 1).Snapshot, true
}

func lerp(a, b, t fixed.Num) fixed.Num {
	return a.Add(b.Sub(a).Mul(t))
}
