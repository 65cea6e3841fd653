// Package tlsmsg defines the coarse TlsMessageType taxonomy used to
// classify drained output messages for knowledge-store indexing and to
// filter variable bindings.
package tlsmsg

// HandshakeType enumerates the handshake sub-types that can refine a
// Handshake MessageType. The zero value, HandshakeAny, is used as the
// "matches any handshake message" wildcard.
type HandshakeType int

const (
	HandshakeAny HandshakeType = iota
	ClientHello
	ServerHello
	Certificate
	CertificateVerify
	ServerKeyExchange
	ServerHelloDone
	ClientKeyExchange
	EncryptedExtensions
	NewSessionTicket
	Finished
)

func (h HandshakeType) String() string {
	switch h {
	case HandshakeAny:
		return "Any"
	case ClientHello:
		return "ClientHello"
	case ServerHello:
		return "ServerHello"
	case Certificate:
		return "Certificate"
	case CertificateVerify:
		return "CertificateVerify"
	case ServerKeyExchange:
		return "ServerKeyExchange"
	case ServerHelloDone:
		return "ServerHelloDone"
	case ClientKeyExchange:
		return "ClientKeyExchange"
	case EncryptedExtensions:
		return "EncryptedExtensions"
	case NewSessionTicket:
		return "NewSessionTicket"
	case Finished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// Kind is the top-level TlsMessageType classification.
type Kind int

const (
	Handshake Kind = iota
	ChangeCipherSpec
	Alert
	ApplicationData
	Heartbeat
)

func (k Kind) String() string {
	switch k {
	case Handshake:
		return "Handshake"
	case ChangeCipherSpec:
		return "ChangeCipherSpec"
	case Alert:
		return "Alert"
	case ApplicationData:
		return "ApplicationData"
	case Heartbeat:
		return "Heartbeat"
	default:
		return "Unknown"
	}
}

// Type is a fully classified TlsMessageType: Handshake(Option<HandshakeType>)
// or one of the flat variants.
type Type struct {
	Kind      Kind
	Handshake HandshakeType // only meaningful when Kind == Handshake
}

// Matches reports whether t satisfies a variable's optional message
// type filter. A nil filter matches everything; a Handshake filter
// with HandshakeAny matches any handshake sub-type: a None
// handshake subtype in a variable filter matches any handshake
// message.
func (t Type) Matches(filter *Type) bool {
	if filter == nil {
		return true
	}
	if t.Kind != filter.Kind {
		return false
	}
	if t.Kind != Handshake {
		return true
	}
	return filter.Handshake == HandshakeAny || filter.Handshake == t.Handshake
}

func (t Type) String() string {
	if t.Kind == Handshake && t.Handshake != HandshakeAny {
		return "Handshake(" + t.Handshake.String() + ")"
	}
	if t.Kind == Handshake {
		return "Handshake(Any)"
	}
	return t.Kind.String()
}
