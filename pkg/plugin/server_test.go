package plugin

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"github.com/jhump/protoreflect/dynamic/grpcdynamic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/getmockd/form-urlencoded-plugin/pkg/metrics"
)

func startServer(t *testing.T) (*Server, *Schema, *grpc.ClientConn) {
	t.Helper()
	ctx := context.Background()

	schema, err := LoadSchema(ctx)
	require.NoError(t, err)

	srv, err := NewServer("127.0.0.1:0", New(), schema)
	require.NoError(t, err)
	srv.SetMetrics(metrics.New())
	require.NoError(t, srv.Start(ctx))
	t.Cleanup(func() { _ = srv.Stop(context.Background(), 5*time.Second) })

	conn, err := grpc.NewClient(srv.Address(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return srv, schema, conn
}

// invoke calls a plugin method with a request given as protojson and
// returns the response as a generic JSON map.
func invoke(t *testing.T, schema *Schema, conn *grpc.ClientConn, method, request string) (map[string]any, error) {
	t.Helper()
	md, err := schema.Method(method)
	require.NoError(t, err)

	req := dynamicpb.NewMessage(md.Input())
	require.NoError(t, protojson.Unmarshal([]byte(request), req))
	resp := dynamicpb.NewMessage(md.Output())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.Invoke(ctx, "/"+ServiceName+"/"+method, req, resp); err != nil {
		return nil, err
	}

	data, err := protojson.Marshal(resp)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out, nil
}

func TestNewServer(t *testing.T) {
	schema, err := LoadSchema(context.Background())
	require.NoError(t, err)

	_, err = NewServer(":0", nil, schema)
	assert.ErrorIs(t, err, ErrNilPlugin)

	_, err = NewServer(":0", New(), nil)
	assert.ErrorIs(t, err, ErrNilSchema)
}

func TestServerStartStop(t *testing.T) {
	schema, err := LoadSchema(context.Background())
	require.NoError(t, err)
	srv, err := NewServer("127.0.0.1:0", New(), schema)
	require.NoError(t, err)

	assert.False(t, srv.IsRunning())
	assert.Equal(t, 0, srv.Port())

	require.NoError(t, srv.Start(context.Background()))
	assert.True(t, srv.IsRunning())
	assert.NotZero(t, srv.Port())
	assert.ErrorIs(t, srv.Start(context.Background()), ErrServerAlreadyRunning)

	require.NoError(t, srv.Stop(context.Background(), time.Second))
	assert.False(t, srv.IsRunning())
	require.NoError(t, srv.Stop(context.Background(), time.Second))
}

func TestServerInitPluginWithDynamicStub(t *testing.T) {
	_, _, conn := startServer(t)

	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{protoFile: protoSource}),
	}
	files, err := parser.ParseFiles(protoFile)
	require.NoError(t, err)
	method := files[0].FindService(ServiceName).FindMethodByName("InitPlugin")
	require.NotNil(t, method)

	req := dynamic.NewMessage(method.GetInputType())
	req.SetFieldByName("implementation", "pact-go")
	req.SetFieldByName("version", "2.0.0")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	respMsg, err := grpcdynamic.NewStub(conn).InvokeRpc(ctx, method, req)
	require.NoError(t, err)

	resp, ok := respMsg.(*dynamic.Message)
	require.True(t, ok)
	catalogue, ok := resp.GetFieldByName("catalogue").([]interface{})
	require.True(t, ok)
	require.Len(t, catalogue, 2)

	first := catalogue[0].(*dynamic.Message)
	assert.Equal(t, "form-urlencoded", first.GetFieldByName("key"))
	assert.Equal(t, int32(0), first.GetFieldByName("type"))
	second := catalogue[1].(*dynamic.Message)
	assert.Equal(t, int32(1), second.GetFieldByName("type"))
}

func TestServerRoundTrip(t *testing.T) {
	_, schema, conn := startServer(t)

	configured, err := invoke(t, schema, conn, "ConfigureInteraction", `{
		"contentType": "application/x-www-form-urlencoded",
		"contentsConfig": {
			"field:name": "matching(type,'Fred')",
			"field:id": "matching(regex,'\\d+','100')"
		}
	}`)
	require.NoError(t, err)

	interactions, ok := configured["interaction"].([]any)
	require.True(t, ok)
	require.Len(t, interactions, 1)
	interaction := interactions[0].(map[string]any)
	contents := interaction["contents"].(map[string]any)
	assert.Equal(t, "application/x-www-form-urlencoded", contents["contentType"])
	assert.Equal(t, "aWQ9MTAwJm5hbWU9RnJlZA==", contents["content"]) // id=100&name=Fred
	assert.Equal(t, "```\nid=100&name=Fred\n```\n", interaction["interactionMarkup"])

	rulesJSON, err := json.Marshal(interaction["rules"])
	require.NoError(t, err)

	compared, err := invoke(t, schema, conn, "CompareContents", `{
		"expected": {"contentType": "application/x-www-form-urlencoded", "content": "aWQ9MTAwJm5hbWU9RnJlZA=="},
		"actual": {"contentType": "application/x-www-form-urlencoded", "content": "aWQ9YWJjJm5hbWU9R2VvcmdlJm5ldz0x"},
		"rules": `+string(rulesJSON)+`
	}`)
	require.NoError(t, err)

	results := compared["results"].(map[string]any)
	mismatches := results[""].(map[string]any)["mismatches"].([]any)
	require.Len(t, mismatches, 2)
	assert.Equal(t, `Expected 'abc' to match '\d+'`, mismatches[0].(map[string]any)["mismatch"])
	assert.Equal(t, "field:id", mismatches[0].(map[string]any)["path"])
	assert.Equal(t, "Unexpected field 'new', but was not allowed", mismatches[1].(map[string]any)["mismatch"])

	generated, err := invoke(t, schema, conn, "GenerateContent", `{
		"contents": {"contentType": "application/x-www-form-urlencoded", "content": "aWQ9MTAwJm5hbWU9RnJlZA=="},
		"generators": {"field:id": {"type": "RandomInt", "values": {"min": 7, "max": 7}}}
	}`)
	require.NoError(t, err)
	assert.Equal(t, "aWQ9NyZuYW1lPUZyZWQ=", generated["contents"].(map[string]any)["content"]) // id=7&name=Fred
}

func TestServerUpdateCatalogue(t *testing.T) {
	_, schema, conn := startServer(t)

	resp, err := invoke(t, schema, conn, "UpdateCatalogue", `{"catalogue": [{"type": "TRANSPORT", "key": "http"}]}`)
	require.NoError(t, err)
	assert.Empty(t, resp)
}

func TestServerAbortedStatus(t *testing.T) {
	_, schema, conn := startServer(t)

	_, err := invoke(t, schema, conn, "ConfigureInteraction", `{"contentType": "application/x-www-form-urlencoded"}`)
	require.Error(t, err)

	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.Aborted, st.Code())
	assert.Equal(t, "Invalid field definition: no configuration provided to match/generate form urlencoded content", st.Message())
	assert.Len(t, st.Details(), 1)
}
