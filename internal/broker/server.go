package broker

import (
	"context"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
)

// ObjectiveRecord is one worker's report of a crashing trace, kept by
// the broker for whichever process drives the corpus directory
// (persisted state lives in internal/corpus; the broker only relays
// the bytes that end up written there).
type ObjectiveRecord struct {
	RunID     string
	Reason    string
	TraceYAML []byte
	Received  time.Time
}

// Server implements EdgeService: it merges every worker's reported
// coverage edges into one mutex-guarded set of raw edge ids and keeps
// every reported objective, shared across worker processes over gRPC
// (each Worker's own fuzzer.EdgeMap stays local to its process).
type Server struct {
	grpcServer *grpc.Server

	mu         sync.Mutex
	edges      map[uint64]struct{}
	objectives []ObjectiveRecord
}

// NewServer returns a Server ready to Serve once a listener is
// attached.
func NewServer() *Server {
	s := &Server{
		grpcServer: grpc.NewServer(),
		edges:      make(map[uint64]struct{}),
	}
	s.grpcServer.RegisterService(serviceDesc(), s)
	return s
}

func serviceDesc() *grpc.ServiceDesc {
	return &grpc.ServiceDesc{
		ServiceName: serviceFQN,
		HandlerType: (*interface{})(nil),
		Metadata:    fileDescriptor.GetName(),
		Methods: []grpc.MethodDesc{
			{
				MethodName: reportEdgesRPC,
				Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
					s := srv.(*Server)
					req := dynamic.NewMessage(edgeReportDescriptor)
					if err := dec(req); err != nil {
						return nil, err
					}
					return s.handleReportEdges(ctx, req)
				},
			},
			{
				MethodName: reportObjectRPC,
				Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
					s := srv.(*Server)
					req := dynamic.NewMessage(objectiveDescriptor)
					if err := dec(req); err != nil {
						return nil, err
					}
					return s.handleReportObjective(ctx, req)
				},
			},
		},
	}
}

func (s *Server) handleReportEdges(_ context.Context, req *dynamic.Message) (*dynamic.Message, error) {
	edges := getUint64Repeated(req, "edges")

	s.mu.Lock()
	for _, e := range edges {
		s.edges[e] = struct{}{}
	}
	s.mu.Unlock()

	return ack(true)
}

func (s *Server) handleReportObjective(_ context.Context, req *dynamic.Message) (*dynamic.Message, error) {
	rec := ObjectiveRecord{
		RunID:     getString(req, "run_id"),
		Reason:    getString(req, "reason"),
		TraceYAML: getBytes(req, "trace_yaml"),
		Received:  time.Now(),
	}

	s.mu.Lock()
	s.objectives = append(s.objectives, rec)
	s.mu.Unlock()

	return ack(true)
}

func ack(ok bool) (*dynamic.Message, error) {
	resp := dynamic.NewMessage(ackDescriptor)
	if err := setBool(resp, "ok", ok); err != nil {
		return nil, err
	}
	return resp, nil
}

// Serve blocks, serving EdgeService on lis until GracefulStop is
// called.
func (s *Server) Serve(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

// MergedEdges returns every distinct edge id reported so far, sorted
// for deterministic comparison in tests and catalog signatures.
func (s *Server) MergedEdges() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uint64, 0, len(s.edges))
	for e := range s.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Objectives returns every objective reported so far.
func (s *Server) Objectives() []ObjectiveRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ObjectiveRecord, len(s.objectives))
	copy(out, s.objectives)
	return out
}

// GracefulStop stops accepting new RPCs and waits for in-flight ones
// to finish.
func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}
