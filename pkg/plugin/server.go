package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"path"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/getmockd/form-urlencoded-plugin/pkg/logging"
	"github.com/getmockd/form-urlencoded-plugin/pkg/metrics"
)

// Server errors.
var (
	// ErrServerAlreadyRunning is returned when attempting to start a running server.
	ErrServerAlreadyRunning = errors.New("server is already running")

	// ErrNilPlugin is returned when no plugin is given to NewServer.
	ErrNilPlugin = errors.New("plugin cannot be nil")

	// ErrNilSchema is returned when no schema is given to NewServer.
	ErrNilSchema = errors.New("schema cannot be nil")
)

// unaryCall runs one plugin call on the protojson encoding of its request.
type unaryCall func(ctx context.Context, req []byte) (any, error)

// bind adapts a typed plugin call to unaryCall.
func bind[Req, Resp any](call func(context.Context, *Req) (*Resp, error)) unaryCall {
	return func(ctx context.Context, data []byte) (any, error) {
		var req Req
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "failed to decode request: %v", err)
		}
		return call(ctx, &req)
	}
}

// Server serves a Plugin over gRPC.
type Server struct {
	addr       string
	plugin     *Plugin
	schema     *Schema
	grpcServer *grpc.Server
	listener   net.Listener
	mu         sync.RWMutex
	running    bool
	log        *slog.Logger
	metrics    *metrics.Registry
}

// NewServer creates a server that will listen on addr ("host:port", port 0
// picks a free port).
func NewServer(addr string, p *Plugin, schema *Schema) (*Server, error) {
	if p == nil {
		return nil, ErrNilPlugin
	}
	if schema == nil {
		return nil, ErrNilSchema
	}
	return &Server{
		addr:   addr,
		plugin: p,
		schema: schema,
		log:    logging.Nop(),
	}, nil
}

// SetLogger sets the operational logger for the server.
func (s *Server) SetLogger(log *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if log != nil {
		s.log = log
	} else {
		s.log = logging.Nop()
	}
}

// SetMetrics sets the registry calls are recorded in.
func (s *Server) SetMetrics(reg *metrics.Registry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = reg
}

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrServerAlreadyRunning
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = listener

	s.grpcServer = grpc.NewServer(grpc.ChainUnaryInterceptor(s.observe))
	if err := s.registerService(); err != nil {
		_ = listener.Close()
		return err
	}

	go func() {
		if err := s.grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			s.log.Error("gRPC server error", "error", err)
		}
	}()

	s.running = true
	s.log.Info("plugin server started", "address", listener.Addr().String())
	return nil
}

// Stop stops the server gracefully, forcing it down after timeout or when
// ctx is done.
func (s *Server) Stop(ctx context.Context, timeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		s.log.Warn("graceful stop timed out, forcing", "timeout", timeout)
		s.grpcServer.Stop()
	case <-ctx.Done():
		s.grpcServer.Stop()
	}

	s.running = false
	s.log.Info("plugin server stopped")
	return nil
}

// IsRunning returns true if server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Address returns the address the server is listening on.
func (s *Server) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Port returns the bound port, or 0 before Start.
func (s *Server) Port() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return 0
	}
	if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

func (s *Server) calls() map[string]unaryCall {
	return map[string]unaryCall{
		"InitPlugin":           bind(s.plugin.InitPlugin),
		"UpdateCatalogue":      bind(s.updateCatalogue),
		"CompareContents":      bind(s.plugin.CompareContents),
		"ConfigureInteraction": bind(s.plugin.ConfigureInteraction),
		"GenerateContent":      bind(s.plugin.GenerateContent),
	}
}

// updateCatalogue answers with google.protobuf.Empty.
func (s *Server) updateCatalogue(ctx context.Context, req *Catalogue) (*struct{}, error) {
	if err := s.plugin.UpdateCatalogue(ctx, req); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

// registerService registers the plugin service with hand-built descriptors
// backed by dynamic messages.
func (s *Server) registerService() error {
	calls := s.calls()
	methods := make([]grpc.MethodDesc, 0, len(calls))

	for _, name := range s.schema.Methods() {
		call, ok := calls[name]
		if !ok {
			continue
		}
		method, err := s.schema.Method(name)
		if err != nil {
			return err
		}
		methods = append(methods, grpc.MethodDesc{
			MethodName: name,
			Handler:    s.unaryHandler(method, call),
		})
	}

	s.grpcServer.RegisterService(&grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*any)(nil),
		Methods:     methods,
		Metadata:    protoFile,
	}, struct{}{})
	return nil
}

func (s *Server) unaryHandler(method protoreflect.MethodDescriptor, call unaryCall) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := fmt.Sprintf("/%s/%s", ServiceName, method.Name())

	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := dynamicpb.NewMessage(method.Input())
		if err := dec(req); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "failed to decode request: %v", err)
		}

		handler := func(ctx context.Context, in any) (any, error) {
			msg, ok := in.(proto.Message)
			if !ok {
				return nil, status.Errorf(codes.Internal, "unexpected request type %T", in)
			}
			return s.invoke(ctx, method, call, msg)
		}
		if interceptor == nil {
			return handler(ctx, req)
		}
		return interceptor(ctx, req, &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}, handler)
	}
}

// invoke bridges a dynamic request to the plugin call and its result back to
// a dynamic response.
func (s *Server) invoke(ctx context.Context, method protoreflect.MethodDescriptor, call unaryCall, req proto.Message) (any, error) {
	data, err := protojson.Marshal(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "failed to read request: %v", err)
	}

	result, err := call(ctx, data)
	if err != nil {
		return nil, err
	}

	resp, err := buildResponse(method.Output(), result)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to build response: %v", err)
	}
	return resp, nil
}

// buildResponse converts a wire value into a dynamic message of type desc.
func buildResponse(desc protoreflect.MessageDescriptor, data any) (*dynamicpb.Message, error) {
	msg := dynamicpb.NewMessage(desc)
	if data == nil {
		return msg, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response data: %w", err)
	}
	if err := protojson.Unmarshal(jsonData, msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response into proto: %w", err)
	}
	return msg, nil
}

// observe logs and measures every call.
func (s *Server) observe(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	elapsed := time.Since(start)

	method := path.Base(info.FullMethod)
	code := status.Code(err)
	s.metrics.ObserveCall(method, code, elapsed)

	if err != nil {
		s.log.Warn("plugin call failed", "method", method, "code", code.String(), "duration", elapsed, "error", err)
	} else {
		s.log.Debug("plugin call", "method", method, "duration", elapsed)
	}
	return resp, err
}
