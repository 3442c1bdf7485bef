package plugin

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"github.com/bufbuild/protocompile"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// ServiceName is the fully qualified name of the plugin service.
const ServiceName = "io.pact.plugin.PactPlugin"

const protoFile = "plugin.proto"

//go:embed plugin.proto
var protoSource string

var (
	// ErrServiceNotFound is returned when the compiled schema lacks the plugin service.
	ErrServiceNotFound = errors.New("service not found")

	// ErrMethodNotFound is returned when a method is not part of the plugin service.
	ErrMethodNotFound = errors.New("method not found")

	// ErrMessageNotFound is returned when a message is not part of the schema.
	ErrMessageNotFound = errors.New("message not found")
)

// Schema is the compiled plugin interface.
type Schema struct {
	file    protoreflect.FileDescriptor
	service protoreflect.ServiceDescriptor
}

// LoadSchema compiles the embedded plugin interface definition.
func LoadSchema(ctx context.Context) (*Schema, error) {
	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			Accessor: protocompile.SourceAccessorFromMap(map[string]string{
				protoFile: protoSource,
			}),
		}),
	}

	compiled, err := compiler.Compile(ctx, protoFile)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", protoFile, err)
	}
	file := compiled[0]

	svc := file.Services().ByName(protoreflect.FullName(ServiceName).Name())
	if svc == nil {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, ServiceName)
	}
	return &Schema{file: file, service: svc}, nil
}

// Service returns the plugin service descriptor.
func (s *Schema) Service() protoreflect.ServiceDescriptor {
	return s.service
}

// Method returns a method of the plugin service by name.
func (s *Schema) Method(name string) (protoreflect.MethodDescriptor, error) {
	m := s.service.Methods().ByName(protoreflect.Name(name))
	if m == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrMethodNotFound, ServiceName, name)
	}
	return m, nil
}

// Methods returns the names of all plugin methods in sorted order.
func (s *Schema) Methods() []string {
	methods := s.service.Methods()
	names := make([]string, 0, methods.Len())
	for i := 0; i < methods.Len(); i++ {
		names = append(names, string(methods.Get(i).Name()))
	}
	sort.Strings(names)
	return names
}

// Message returns a top level message descriptor by its short name, for
// example "Body".
func (s *Schema) Message(name string) (protoreflect.MessageDescriptor, error) {
	md := s.file.Messages().ByName(protoreflect.Name(name))
	if md == nil {
		return nil, fmt.Errorf("%w: %s", ErrMessageNotFound, name)
	}
	return md, nil
}
