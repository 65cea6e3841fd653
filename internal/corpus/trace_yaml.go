// Package corpus implements persisted fuzzer state: a self-describing
// YAML encoding of a Trace (seed traces and every fuzzer-discovered
// trace alike) plus a SQLite catalogue that
// indexes already-kept coverage signatures without re-parsing every
// YAML file on disk.
package corpus

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/tlsfuzz/puffer/internal/agent"
	"github.com/tlsfuzz/puffer/internal/signature"
	"github.com/tlsfuzz/puffer/internal/term"
	"github.com/tlsfuzz/puffer/internal/tlsmsg"
	"github.com/tlsfuzz/puffer/internal/trace"
)

// traceDTO is the on-disk shape of a Trace: descriptors plus steps,
// with every term recipe reduced to function names and nested
// children so it survives a YAML round-trip without carrying any
// unexported Go state.
type traceDTO struct {
	Descriptors []descriptorDTO `yaml:"descriptors"`
	Steps       []stepDTO       `yaml:"steps"`
}

type descriptorDTO struct {
	Name    uint32 `yaml:"name"`
	Role    string `yaml:"role"`
	Version string `yaml:"version"`
}

type stepDTO struct {
	Agent  uint32    `yaml:"agent"`
	Kind   string    `yaml:"kind"` // "input" or "output"
	Recipe *termDTO  `yaml:"recipe,omitempty"`
}

type termDTO struct {
	Kind     string     `yaml:"kind"` // "app" or "var"
	Function string     `yaml:"function,omitempty"`
	Children []*termDTO `yaml:"children,omitempty"`

	VarShape       string         `yaml:"var_shape,omitempty"`
	VarAgent       uint32         `yaml:"var_agent,omitempty"`
	VarMessageKind string         `yaml:"var_message_kind,omitempty"`
	VarHandshake   string         `yaml:"var_handshake,omitempty"`
	VarCounter     int            `yaml:"var_counter,omitempty"`
}

// EncodeTrace converts tr into its YAML document bytes. Callers that
// also want to persist metadata (run id, coverage, discovery time)
// should use Entry/SaveEntry instead; both build on the same
// traceToDTO conversion.
func EncodeTrace(tr *trace.Trace) ([]byte, error) {
	return yaml.Marshal(traceToDTO(tr))
}

// DecodeTrace parses a YAML document produced by EncodeTrace back into
// a Trace, resolving every function name against sig — the same
// contract term.Builder.App has: the caller must register the right
// fn_* catalogue into sig before decoding (see internal/reftls/fn).
func DecodeTrace(data []byte, sig *signature.Signature) (*trace.Trace, error) {
	var dto traceDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("corpus: decode trace: %w", err)
	}
	return dtoToTrace(dto, sig)
}

func traceToDTO(tr *trace.Trace) traceDTO {
	dto := traceDTO{
		Descriptors: make([]descriptorDTO, len(tr.Descriptors)),
		Steps:       make([]stepDTO, len(tr.Steps)),
	}
	for i, d := range tr.Descriptors {
		dto.Descriptors[i] = descriptorDTO{
			Name:    uint32(d.Name),
			Role:    d.Role.String(),
			Version: d.Version.String(),
		}
	}
	for i, s := range tr.Steps {
		sd := stepDTO{Agent: uint32(s.Agent)}
		switch a := s.Action.(type) {
		case trace.Input:
			sd.Kind = "input"
			sd.Recipe = termToDTO(a.Recipe)
		case trace.Output:
			sd.Kind = "output"
		}
		dto.Steps[i] = sd
	}
	return dto
}

func dtoToTrace(dto traceDTO, sig *signature.Signature) (*trace.Trace, error) {
	descriptors := make([]agent.Descriptor, len(dto.Descriptors))
	for i, d := range dto.Descriptors {
		role, err := parseRole(d.Role)
		if err != nil {
			return nil, err
		}
		version, err := parseVersion(d.Version)
		if err != nil {
			return nil, err
		}
		descriptors[i] = agent.Descriptor{Name: agent.Name(d.Name), Role: role, Version: version}
	}

	b := term.NewBuilder(sig)
	steps := make([]trace.Step, len(dto.Steps))
	for i, sd := range dto.Steps {
		step := trace.Step{Agent: agent.Name(sd.Agent)}
		switch sd.Kind {
		case "input":
			recipe, err := dtoToTerm(sd.Recipe, b)
			if err != nil {
				return nil, fmt.Errorf("corpus: step %d: %w", i, err)
			}
			step.Action = trace.Input{Recipe: recipe}
		case "output":
			step.Action = trace.Output{}
		default:
			return nil, fmt.Errorf("corpus: step %d: unknown action kind %q", i, sd.Kind)
		}
		steps[i] = step
	}
	return trace.NewTrace(descriptors, steps), nil
}

func termToDTO(t *term.Term) *termDTO {
	if t == nil {
		return nil
	}
	if t.Kind == term.KindVariable {
		v := t.Variable
		dto := &termDTO{
			Kind:       "var",
			VarShape:   v.Shape.String(),
			VarAgent:   uint32(v.Agent),
			VarCounter: v.Counter,
		}
		if v.MessageType != nil {
			dto.VarMessageKind = v.MessageType.Kind.String()
			dto.VarHandshake = v.MessageType.Handshake.String()
		}
		return dto
	}
	dto := &termDTO{Kind: "app", Function: t.Function.Name}
	if len(t.Children) > 0 {
		dto.Children = make([]*termDTO, len(t.Children))
		for i, c := range t.Children {
			dto.Children[i] = termToDTO(c)
		}
	}
	return dto
}

func dtoToTerm(dto *termDTO, b *term.Builder) (*term.Term, error) {
	if dto == nil {
		return nil, fmt.Errorf("corpus: nil recipe")
	}
	switch dto.Kind {
	case "app":
		children := make([]*term.Term, len(dto.Children))
		for i, c := range dto.Children {
			child, err := dtoToTerm(c, b)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		return b.App(dto.Function, children...), nil
	case "var":
		shape, ok := lookupShape(dto.VarShape)
		if !ok {
			return nil, fmt.Errorf("corpus: unknown variable shape %q (not in the corpus shape registry)", dto.VarShape)
		}
		var filter *tlsmsg.Type
		if dto.VarMessageKind != "" {
			kind, err := parseMessageKind(dto.VarMessageKind)
			if err != nil {
				return nil, err
			}
			handshake := parseHandshakeType(dto.VarHandshake)
			filter = &tlsmsg.Type{Kind: kind, Handshake: handshake}
		}
		v := signature.NewVarByTypeShape(shape, agent.Name(dto.VarAgent), filter, dto.VarCounter)
		return b.Var(v), nil
	default:
		return nil, fmt.Errorf("corpus: unknown term kind %q", dto.Kind)
	}
}

func parseRole(s string) (agent.Role, error) {
	switch s {
	case "client":
		return agent.RoleClient, nil
	case "server":
		return agent.RoleServer, nil
	default:
		return 0, fmt.Errorf("corpus: unknown role %q", s)
	}
}

func parseVersion(s string) (agent.TLSVersion, error) {
	switch s {
	case "1.2":
		return agent.TLS12, nil
	case "1.3":
		return agent.TLS13, nil
	default:
		return 0, fmt.Errorf("corpus: unknown TLS version %q", s)
	}
}

func parseMessageKind(s string) (tlsmsg.Kind, error) {
	switch s {
	case "Handshake":
		return tlsmsg.Handshake, nil
	case "ChangeCipherSpec":
		return tlsmsg.ChangeCipherSpec, nil
	case "Alert":
		return tlsmsg.Alert, nil
	case "ApplicationData":
		return tlsmsg.ApplicationData, nil
	case "Heartbeat":
		return tlsmsg.Heartbeat, nil
	default:
		return 0, fmt.Errorf("corpus: unknown message kind %q", s)
	}
}

func parseHandshakeType(s string) tlsmsg.HandshakeType {
	for h := tlsmsg.HandshakeAny; h <= tlsmsg.Finished; h++ {
		if h.String() == s {
			return h
		}
	}
	return tlsmsg.HandshakeAny
}
