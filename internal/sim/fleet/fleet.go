package fleet

import (
	"fmt"
	"sort"

	"skyharbor.ai/internal/sim/logistics"
)

// Catalog carries per-item stack sizes for slot-capacity math.
type Catalog struct {
	DefaultStackSize int
	StackSizes       map[logistics.ItemID]int
}

func (c Catalog) StackSize(item logistics.ItemID) int {
	if n, ok := c.StackSizes[item]; ok && n > 0 {
		return n
	}
	if c.DefaultStackSize > 0 {
		return c.DefaultStackSize
	}
	return 100
}

// Bay is a slot-based cargo endpoint. Free capacity for an item is empty
// slots times stack size plus headroom in that item's partial stack.
type Bay struct {
	ID       logistics.EndpointID
	Slots    int
	contents map[logistics.ItemID]int
}

// Platform is a host-side mobile storage entity.
type Platform struct {
	ID         logistics.PlatformID
	Name       string
	Collective string
	Tag        string
	Valid      bool
	Group      logistics.GroupKey
	Bays       []*Bay
}

// Fleet is an in-memory platform directory plus inventory access. It backs
// the server binary and tests; a real host would implement the same two
// engine interfaces.
type Fleet struct {
	catalog   Catalog
	platforms map[logistics.PlatformID]*Platform
	bays      map[logistics.EndpointID]*Bay
}

func New(catalog Catalog) *Fleet {
	return &Fleet{
		catalog:   catalog,
		platforms: map[logistics.PlatformID]*Platform{},
		bays:      map[logistics.EndpointID]*Bay{},
	}
}

// AddPlatform registers a platform. Bay ids are namespaced by platform id
// so scenario files can reuse short bay names.
func (f *Fleet) AddPlatform(id logistics.PlatformID, name, collective, tag string, group logistics.GroupKey, baySlots map[string]int) (*Platform, error) {
	if id == "" {
		return nil, fmt.Errorf("empty platform id")
	}
	if _, ok := f.platforms[id]; ok {
		return nil, fmt.Errorf("duplicate platform id: %s", id)
	}
	p := &Platform{
		ID:         id,
		Name:       name,
		Collective: collective,
		Tag:        tag,
		Valid:      true,
		Group:      group,
	}
	bayNames := make([]string, 0, len(baySlots))
	for n := range baySlots {
		bayNames = append(bayNames, n)
	}
	sort.Strings(bayNames)
	for _, n := range bayNames {
		slots := baySlots[n]
		if slots <= 0 {
			return nil, fmt.Errorf("platform %s bay %s: slots must be > 0", id, n)
		}
		b := &Bay{
			ID:       logistics.EndpointID(fmt.Sprintf("%s/%s", id, n)),
			Slots:    slots,
			contents: map[logistics.ItemID]int{},
		}
		p.Bays = append(p.Bays, b)
		f.bays[b.ID] = b
	}
	f.platforms[id] = p
	return p, nil
}

// SetValid flips a platform's validity (host lifecycle, e.g. destruction).
func (f *Fleet) SetValid(id logistics.PlatformID, valid bool) {
	if p := f.platforms[id]; p != nil {
		p.Valid = valid
	}
}

// SetGroup moves a platform between orbits; empty means in transit.
func (f *Fleet) SetGroup(id logistics.PlatformID, group logistics.GroupKey) {
	if p := f.platforms[id]; p != nil {
		p.Group = group
	}
}

// Stock adds items to a bay directly, bypassing capacity checks. Scenario
// setup only.
func (f *Fleet) Stock(ep logistics.EndpointID, item logistics.ItemID, count int) {
	b := f.bays[ep]
	if b == nil || count <= 0 {
		return
	}
	b.contents[item] += count
}

// Platform implements logistics.Directory.
func (f *Fleet) Platform(id logistics.PlatformID) (logistics.PlatformState, bool) {
	p := f.platforms[id]
	if p == nil {
		return logistics.PlatformState{}, false
	}
	return f.state(p), true
}

// Platforms implements logistics.Directory. Stable id order.
func (f *Fleet) Platforms() []logistics.PlatformState {
	ids := make([]logistics.PlatformID, 0, len(f.platforms))
	for id := range f.platforms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]logistics.PlatformState, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.state(f.platforms[id]))
	}
	return out
}

func (f *Fleet) state(p *Platform) logistics.PlatformState {
	eps := make([]logistics.EndpointID, 0, len(p.Bays))
	for _, b := range p.Bays {
		eps = append(eps, b.ID)
	}
	return logistics.PlatformState{
		ID:         p.ID,
		Name:       p.Name,
		Collective: p.Collective,
		Tag:        p.Tag,
		Valid:      p.Valid,
		Group:      p.Group,
		Endpoints:  eps,
	}
}

// ItemCount implements logistics.Inventory.
func (f *Fleet) ItemCount(ep logistics.EndpointID, item logistics.ItemID) int {
	b := f.bays[ep]
	if b == nil {
		return 0
	}
	return b.contents[item]
}

// FreeCapacity implements logistics.Inventory.
func (f *Fleet) FreeCapacity(ep logistics.EndpointID, item logistics.ItemID) int {
	b := f.bays[ep]
	if b == nil {
		return 0
	}
	stack := f.catalog.StackSize(item)
	empty := b.Slots - f.usedSlots(b)
	if empty < 0 {
		empty = 0
	}
	free := empty * stack
	if rem := b.contents[item] % stack; rem > 0 {
		free += stack - rem
	}
	return free
}

// Remove implements logistics.Inventory.
func (f *Fleet) Remove(ep logistics.EndpointID, item logistics.ItemID, count int) int {
	b := f.bays[ep]
	if b == nil || count <= 0 {
		return 0
	}
	have := b.contents[item]
	if have <= 0 {
		return 0
	}
	n := min(have, count)
	b.contents[item] -= n
	if b.contents[item] <= 0 {
		delete(b.contents, item)
	}
	return n
}

// Insert implements logistics.Inventory.
func (f *Fleet) Insert(ep logistics.EndpointID, item logistics.ItemID, count int) int {
	b := f.bays[ep]
	if b == nil || count <= 0 {
		return 0
	}
	free := f.FreeCapacity(ep, item)
	n := min(free, count)
	if n <= 0 {
		return 0
	}
	b.contents[item] += n
	return n
}

func (f *Fleet) usedSlots(b *Bay) int {
	used := 0
	for item, n := range b.contents {
		if n <= 0 {
			continue
		}
		stack := f.catalog.StackSize(item)
		used += (n + stack - 1) / stack
	}
	return used
}
