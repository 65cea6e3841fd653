// Package broker implements the EdgeService gRPC service that provides
// scheduler wiring: multiple cmd/puffer worker processes each report
// their newly-discovered coverage edges and objective (crash) traces
// to one broker, which merges them. The wire messages are built
// dynamically at init time via jhump/protoreflect's descriptor
// builder, the same dynamic-message approach used for user-supplied
// .proto files elsewhere in the ecosystem, but here there is no .proto
// file on disk at all — the descriptor is assembled in Go.
package broker

import (
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/builder"
)

const (
	serviceFQN      = "puffer.broker.EdgeService"
	edgeReportName  = "EdgeReport"
	objectiveName   = "ObjectiveReport"
	ackName         = "Ack"
	reportEdgesRPC  = "ReportEdges"
	reportObjectRPC = "ReportObjective"
)

var (
	fileDescriptor        *desc.FileDescriptor
	edgeReportDescriptor  *desc.MessageDescriptor
	objectiveDescriptor   *desc.MessageDescriptor
	ackDescriptor         *desc.MessageDescriptor
	edgeServiceDescriptor *desc.ServiceDescriptor
)

func init() {
	ackMsg := builder.NewMessage(ackName).
		AddField(builder.NewField("ok", builder.FieldTypeBool()))

	edgeMsg := builder.NewMessage(edgeReportName).
		AddField(builder.NewField("run_id", builder.FieldTypeString())).
		AddField(builder.NewField("edges", builder.FieldTypeUInt64()).SetRepeated())

	objectiveMsg := builder.NewMessage(objectiveName).
		AddField(builder.NewField("run_id", builder.FieldTypeString())).
		AddField(builder.NewField("reason", builder.FieldTypeString())).
		AddField(builder.NewField("trace_yaml", builder.FieldTypeBytes()))

	svc := builder.NewService("EdgeService").
		AddMethod(builder.NewMethod(reportEdgesRPC,
			builder.RpcTypeMessage(edgeMsg, false),
			builder.RpcTypeMessage(ackMsg, false))).
		AddMethod(builder.NewMethod(reportObjectRPC,
			builder.RpcTypeMessage(objectiveMsg, false),
			builder.RpcTypeMessage(ackMsg, false)))

	fb := builder.NewFile("broker.proto").
		SetPackageName("puffer.broker").
		AddMessage(ackMsg).
		AddMessage(edgeMsg).
		AddMessage(objectiveMsg).
		AddService(svc)

	fd, err := fb.Build()
	if err != nil {
		panic(fmt.Sprintf("broker: failed to build dynamic descriptor: %v", err))
	}

	fileDescriptor = fd
	ackDescriptor = fd.FindMessage("puffer.broker." + ackName)
	edgeReportDescriptor = fd.FindMessage("puffer.broker." + edgeReportName)
	objectiveDescriptor = fd.FindMessage("puffer.broker." + objectiveName)
	edgeServiceDescriptor = fd.FindService(serviceFQN)

	if ackDescriptor == nil || edgeReportDescriptor == nil || objectiveDescriptor == nil || edgeServiceDescriptor == nil {
		panic("broker: descriptor built but could not be looked back up by name")
	}
}
