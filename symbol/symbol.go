// Package symbol manages symbols. Symbols are deduped strings represented as
// small integers.
package symbol

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/grailbio/base/log"

	"github.com/basilTeam/basil/hash"
)

// ID represents an interned symbol.
type ID int32

const (
	// Invalid is a sentinel.
	Invalid = ID(0)
)

type idInfo struct {
	name string
	hash hash.Hash
}

// table is the singleton symbol intern table.
type table struct {
	sync.Mutex

	// preInterned is the max ID value of symbols interned before
	// MarkPreInternedSymbols was called. Basil is single-process, so unlike the
	// teacher's table (which used this to ship symbols cheaply across bigslice
	// worker processes), preInterned here is purely a diagnostic marker of how
	// many symbols were registered during compiler init.
	preInterned ID

	// The readers can access the following fields using acquire loads.
	// The writers must synchronize using the mutex.
	syms   map[string]ID
	idsPtr unsafe.Pointer // *[]idInfo
}

var symbols table

func maybeInit() {
	if symbols.syms == nil {
		syms := make(map[string]ID, 1024)
		ids := make([]idInfo, 0, 1024)
		syms["(invalid)"] = 0
		ids = append(ids, idInfo{"(invalid)", hash.String("(invalid)")})
		symbols = table{syms: syms, idsPtr: unsafe.Pointer(&ids)}
	}
}

func init() {
	maybeInit()
}

func (t *table) ids() []idInfo {
	return *(*[]idInfo)(atomic.LoadPointer(&t.idsPtr))
}

// MarkPreInternedSymbols must be called at the end of Basil compiler
// initialization, once every predefined symbol (operators, keywords) has been
// interned.
func MarkPreInternedSymbols() {
	symbols.Lock()
	defer symbols.Unlock()
	symbols.preInterned = ID(len(symbols.ids()))
	log.Debug.Printf("Pre-interned %d symbols", symbols.preInterned)
}

// Hash hashes a symbol.
func (id ID) Hash() hash.Hash {
	return symbols.ids()[id].hash
}

// Str returns a human-readable string.
//
// Note: we don't call it String() since it makes the code deadlock prone in
// debuggers that stringify values under a lock.
func (id ID) Str() string {
	name := symbols.ids()[id].name
	if name == "" {
		log.Panicf("symboltable: id %d not found", id)
	}
	return name
}

// Intern finds or creates an ID for the given string.
func Intern(v string) ID {
	maybeInit()
	if v == "" {
		log.Panicf("Empty symbol")
	}
	symbols.Lock()
	defer symbols.Unlock()
	if id, ok := symbols.syms[v]; ok {
		return id
	}
	// Slow path: add a new symbol.
	ids := symbols.ids()
	id := ID(len(ids))
	if id == Invalid {
		id++
	}
	for len(ids) <= int(id) {
		ids = append(ids, idInfo{})
	}
	ids[id] = idInfo{v, hash.String(v)}
	atomic.StorePointer(&symbols.idsPtr, unsafe.Pointer(&ids))
	symbols.syms[v] = id
	return id
}

// Reset clears the intern table. Symbols interned from package-level vars
// (predefined.go) are invalidated by a Reset, so this exists for whole-process
// teardown in tests, not for between-compilation resets — the intern table is
// one of the process-wide tables that deliberately survives compilations
// (driver.NewPipeline documents which do not).
func Reset() {
	symbols.Lock()
	defer symbols.Unlock()
	syms := make(map[string]ID, 1024)
	ids := make([]idInfo, 0, 1024)
	syms["(invalid)"] = 0
	ids = append(ids, idInfo{"(invalid)", hash.String("(invalid)")})
	symbols.syms = syms
	atomic.StorePointer(&symbols.idsPtr, unsafe.Pointer(&ids))
	symbols.preInterned = 0
}
