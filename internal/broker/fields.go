package broker

import (
	"fmt"

	"github.com/jhump/protoreflect/dynamic"
)

func setString(msg *dynamic.Message, name, val string) error {
	fd := msg.GetMessageDescriptor().FindFieldByName(name)
	if fd == nil {
		return fmt.Errorf("broker: field %q not found on %s", name, msg.GetMessageDescriptor().GetName())
	}
	return msg.SetField(fd, val)
}

func getString(msg *dynamic.Message, name string) string {
	fd := msg.GetMessageDescriptor().FindFieldByName(name)
	if fd == nil {
		return ""
	}
	s, _ := msg.GetField(fd).(string)
	return s
}

func setBytes(msg *dynamic.Message, name string, val []byte) error {
	fd := msg.GetMessageDescriptor().FindFieldByName(name)
	if fd == nil {
		return fmt.Errorf("broker: field %q not found on %s", name, msg.GetMessageDescriptor().GetName())
	}
	return msg.SetField(fd, val)
}

func getBytes(msg *dynamic.Message, name string) []byte {
	fd := msg.GetMessageDescriptor().FindFieldByName(name)
	if fd == nil {
		return nil
	}
	b, _ := msg.GetField(fd).([]byte)
	return b
}

func setBool(msg *dynamic.Message, name string, val bool) error {
	fd := msg.GetMessageDescriptor().FindFieldByName(name)
	if fd == nil {
		return fmt.Errorf("broker: field %q not found on %s", name, msg.GetMessageDescriptor().GetName())
	}
	return msg.SetField(fd, val)
}

func setUint64Repeated(msg *dynamic.Message, name string, vals []uint64) error {
	fd := msg.GetMessageDescriptor().FindFieldByName(name)
	if fd == nil {
		return fmt.Errorf("broker: field %q not found on %s", name, msg.GetMessageDescriptor().GetName())
	}
	ifaces := make([]interface{}, len(vals))
	for i, v := range vals {
		ifaces[i] = v
	}
	return msg.SetField(fd, ifaces)
}

func getUint64Repeated(msg *dynamic.Message, name string) []uint64 {
	fd := msg.GetMessageDescriptor().FindFieldByName(name)
	if fd == nil {
		return nil
	}
	raw, _ := msg.GetField(fd).([]interface{})
	out := make([]uint64, 0, len(raw))
	for _, v := range raw {
		if u, ok := v.(uint64); ok {
			out = append(out, u)
		}
	}
	return out
}
