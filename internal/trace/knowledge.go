package trace

import (
	"github.com/tlsfuzz/puffer/internal/agent"
	"github.com/tlsfuzz/puffer/internal/signature"
	"github.com/tlsfuzz/puffer/internal/tlsmsg"
	"github.com/tlsfuzz/puffer/internal/types"
)

// storedClaim is one knowledge-store entry: a claimed sub-value of a
// message drained from an agent's outbound channel, tagged with the
// TlsMessageType it was classified under and the raw per-(agent,type)
// counter it was inserted at.
type storedClaim struct {
	MessageType tlsmsg.Type
	RawCounter  int
	Shape       types.Shape
	Value       any
}

type counterKey struct {
	agent agent.Name
	mt    tlsmsg.Type
}

// Knowledge is the append-only store mapping (producing agent,
// optional message_type, counter-within-that-type) to an owned typed
// value.
type Knowledge struct {
	byAgent     map[agent.Name][]storedClaim
	nextCounter map[counterKey]int
}

// NewKnowledge returns an empty Knowledge store.
func NewKnowledge() *Knowledge {
	return &Knowledge{
		byAgent:     make(map[agent.Name][]storedClaim),
		nextCounter: make(map[counterKey]int),
	}
}

// Insert records one claim produced by a, classified as mt, assigning
// it the next strictly-increasing counter for the (a, mt) pair.
func (k *Knowledge) Insert(a agent.Name, mt tlsmsg.Type, claim tlsmsg.Claim) {
	key := counterKey{agent: a, mt: mt}
	counter := k.nextCounter[key]
	k.nextCounter[key] = counter + 1
	k.byAgent[a] = append(k.byAgent[a], storedClaim{
		MessageType: mt,
		RawCounter:  counter,
		Shape:       claim.Shape,
		Value:       claim.Value,
	})
}

// CounterFor returns the next raw counter that would be assigned for
// (a, mt), i.e. the number of entries already recorded under that
// exact message type — used by property 3 (knowledge ordering) tests.
func (k *Knowledge) CounterFor(a agent.Name, mt tlsmsg.Type) int {
	return k.nextCounter[counterKey{agent: a, mt: mt}]
}

// Lookup resolves a Variable symbol: the (v.Counter)-th entry, in
// insertion order, produced by v.Agent whose value Shape equals
// v.Shape and whose MessageType matches v.MessageType's optional
// filter.
func (k *Knowledge) Lookup(v signature.Variable) (any, bool) {
	matchIndex := 0
	for _, e := range k.byAgent[v.Agent] {
		if !e.Shape.Equal(v.Shape) {
			continue
		}
		if !e.MessageType.Matches(v.MessageType) {
			continue
		}
		if matchIndex == v.Counter {
			return e.Value, true
		}
		matchIndex++
	}
	return nil, false
}
