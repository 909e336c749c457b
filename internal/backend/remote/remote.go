// Package remote is a reference Backend (spec §6) that ships an
// AnalyzedProgram's facts to an out-of-process sink over gRPC, instead
// of rendering them locally the way internal/backend/goemit does.
//
// Grounded on the teacher's internal/evaluator/builtins_grpc.go: the
// same grpc.NewClient + insecure.NewCredentials() dial idiom
// (builtinGrpcConnect), and the same protoparse.Parser{ImportPaths}
// idiom (builtinGrpcLoadProto) to optionally validate a user-supplied
// .proto schema before invoking it. Unlike the teacher's dynamic
// message marshalling (objectToDynamicMessage / dynamic.NewMessage),
// this package sends google.protobuf.Struct request/response values
// directly — the sink's own .proto is expected to declare its method
// in terms of google.protobuf.Struct, so there is no per-field mapping
// to hand-translate.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jhump/protoreflect/desc/protoparse"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	vbackend "github.com/vexel-lang/vexelc/internal/backend"
	"github.com/vexel-lang/vexelc/internal/config"
	"github.com/vexel-lang/vexelc/internal/report"
)

const defaultMethod = "/vexel.backend.AnalysisSink/Submit"

// Backend dials backend_options["address"] and submits the analysed
// program's report.Document as a google.protobuf.Struct.
type Backend struct{}

func New() *Backend { return &Backend{} }

func (b *Backend) Info() vbackend.Info {
	return vbackend.Info{Name: "remote", Description: "submits the analysis report to a gRPC sink", Version: "0.1.0"}
}

// ValidateOptions implements backend.OptionsValidator: an address is
// mandatory, and a supplied proto_schema must actually declare the
// method this backend will invoke.
func (b *Backend) ValidateOptions(opts *config.Options) error {
	if opts.BackendOptions["address"] == "" {
		return fmt.Errorf("remote backend: backend_options[\"address\"] is required")
	}
	schema := opts.BackendOptions["proto_schema"]
	if schema == "" {
		return nil
	}
	return validateSchemaDeclaresMethod(schema, methodName(opts))
}

func methodName(opts *config.Options) string {
	if m := opts.BackendOptions["method"]; m != "" {
		return m
	}
	return defaultMethod
}

// validateSchemaDeclaresMethod parses schema with protoparse and
// confirms some service in it declares a method matching the trailing
// "Service/Method" component of fullMethod.
func validateSchemaDeclaresMethod(schema, fullMethod string) error {
	want := serviceAndMethod(fullMethod)

	parser := protoparse.Parser{ImportPaths: []string{filepath.Dir(schema)}}
	fds, err := parser.ParseFiles(filepath.Base(schema))
	if err != nil {
		return fmt.Errorf("remote backend: parsing proto schema %s: %w", schema, err)
	}
	for _, fd := range fds {
		for _, svc := range fd.GetServices() {
			for _, m := range svc.GetMethods() {
				if svc.GetName()+"/"+m.GetName() == want {
					return nil
				}
			}
		}
	}
	return fmt.Errorf("remote backend: proto schema %s declares no method %q", schema, want)
}

func serviceAndMethod(fullMethod string) string {
	trimmed := fullMethod
	if len(trimmed) > 0 && trimmed[0] == '/' {
		trimmed = trimmed[1:]
	}
	// fullMethod is "/package.Service/Method"; the package qualifier is
	// not part of the service/method pair protoreflect exposes per-file.
	idx := -1
	for i := len(trimmed) - 1; i >= 0; i-- {
		if trimmed[i] == '/' {
			idx = i
			break
		}
	}
	if idx < 0 {
		return trimmed
	}
	servicePath := trimmed[:idx]
	method := trimmed[idx+1:]
	dot := -1
	for i := len(servicePath) - 1; i >= 0; i-- {
		if servicePath[i] == '.' {
			dot = i
			break
		}
	}
	service := servicePath
	if dot >= 0 {
		service = servicePath[dot+1:]
	}
	return service + "/" + method
}

// Emit serialises prog's analysis report into a google.protobuf.Struct
// and submits it to the configured sink over a plaintext gRPC channel.
func (b *Backend) Emit(prog *vbackend.AnalyzedProgram, opts *config.Options) error {
	// ToDocument's *ast.Module parameter only labels the report with a
	// module name; a multi-instance AnalyzedProgram has no single
	// module to name here, matching WriteText's own nil-module callers.
	doc := report.ToDocument(nil, prog.Analysis, prog.Optimization)

	payload, err := structFromDocument(doc)
	if err != nil {
		return fmt.Errorf("remote backend: converting report to struct: %w", err)
	}

	address := opts.BackendOptions["address"]
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("remote backend: dialing %s: %w", address, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp := &structpb.Struct{}
	if err := conn.Invoke(ctx, methodName(opts), payload, resp); err != nil {
		return fmt.Errorf("remote backend: invoking %s: %w", methodName(opts), err)
	}
	return nil
}

// structFromDocument round-trips doc through encoding/json so its
// report.Document field tags become plain string keys structpb.NewStruct
// accepts — structpb only understands JSON-shaped values
// (string/float64/bool/nil/[]any/map[string]any), not arbitrary structs.
func structFromDocument(doc *report.Document) (*structpb.Struct, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}
