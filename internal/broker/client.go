package broker

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client is a worker's handle onto a remote broker Server.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to a broker listening at target (host:port).
func Dial(target string) (*Client, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("broker: dial %s: %w", target, err)
	}
	return &Client{conn: conn}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// ReportEdges sends one worker round's newly-observed coverage edges.
func (c *Client) ReportEdges(ctx context.Context, runID string, edges []uint64) error {
	req := dynamic.NewMessage(edgeReportDescriptor)
	if err := setString(req, "run_id", runID); err != nil {
		return err
	}
	if err := setUint64Repeated(req, "edges", edges); err != nil {
		return err
	}

	resp := dynamic.NewMessage(ackDescriptor)
	if err := c.conn.Invoke(ctx, "/"+serviceFQN+"/"+reportEdgesRPC, req, resp); err != nil {
		return fmt.Errorf("broker: ReportEdges: %w", err)
	}
	return nil
}

// ReportObjective sends a crashing trace, serialized by the caller
// (cmd/puffer passes internal/corpus.SaveEntry's YAML) into traceYAML, for the broker to
// relay to whichever process owns the objectives directory.
func (c *Client) ReportObjective(ctx context.Context, runID, reason string, traceYAML []byte) error {
	req := dynamic.NewMessage(objectiveDescriptor)
	if err := setString(req, "run_id", runID); err != nil {
		return err
	}
	if err := setString(req, "reason", reason); err != nil {
		return err
	}
	if err := setBytes(req, "trace_yaml", traceYAML); err != nil {
		return err
	}

	resp := dynamic.NewMessage(ackDescriptor)
	if err := c.conn.Invoke(ctx, "/"+serviceFQN+"/"+reportObjectRPC, req, resp); err != nil {
		return fmt.Errorf("broker: ReportObjective: %w", err)
	}
	return nil
}
