package corpus

import (
	"github.com/tlsfuzz/puffer/internal/reftls"
	"github.com/tlsfuzz/puffer/internal/types"
)

// shapeRegistry maps a Shape's printable name back to the Shape value
// itself, so a Variable's type can round-trip through YAML without
// reflecting over an arbitrary string at decode time. It only needs an
// entry for every concrete message type that ever appears as a
// Variable's declared Shape in a seed or a mutator-synthesized
// recipe — internal/mutate never mints a Variable of its own, it only
// relocates existing ones (see internal/mutate/generate.go), so this
// list only has to cover internal/reftls's message catalogue.
var shapeRegistry = buildShapeRegistry()

func buildShapeRegistry() map[string]types.Shape {
	shapes := []types.Shape{
		types.Of[reftls.ClientHello](),
		types.Of[reftls.ServerHello](),
		types.Of[reftls.Certificate](),
		types.Of[reftls.ServerHelloDone](),
		types.Of[reftls.ServerKeyExchange](),
		types.Of[reftls.ClientKeyExchange](),
		types.Of[reftls.ChangeCipherSpec](),
		types.Of[reftls.Finished](),
		types.Of[reftls.NewSessionTicket](),
		types.Of[reftls.EncryptedRecord](),
	}
	reg := make(map[string]types.Shape, len(shapes))
	for _, s := range shapes {
		reg[s.String()] = s
	}
	return reg
}

func lookupShape(name string) (types.Shape, bool) {
	s, ok := shapeRegistry[name]
	return s, ok
}
