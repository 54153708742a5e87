package jsonpointer

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func TestEscapeUnescape(t *testing.T) {
	tests := []struct {
		name      string
		unescaped string
		escaped   string
	}{
		{name: "plain", unescaped: "pets", escaped: "pets"},
		{name: "slash", unescaped: "/health", escaped: "~1health"},
		{name: "tilde", unescaped: "a~b", escaped: "a~0b"},
		{name: "both", unescaped: "~/", escaped: "~0~1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.escaped, Escape(tt.unescaped))
			require.Equal(t, tt.unescaped, Unescape(tt.escaped))
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		ptr     string
		want    []string
		wantErr bool
	}{
		{name: "empty", ptr: "", want: nil},
		{name: "single", ptr: "/components", want: []string{"components"}},
		{name: "nested", ptr: "/paths/~1health/get", want: []string{"paths", "/health", "get"}},
		{name: "escaped tilde", ptr: "/a~0b", want: []string{"a~b"}},
		{name: "missing slash", ptr: "components", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.ptr)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFromParts(t *testing.T) {
	require.Equal(t, "", FromParts(nil))
	require.Equal(t, "/paths/~1health/get", FromParts([]string{"paths", "/health", "get"}))

	roundTrip, err := Parse(FromParts([]string{"a/b", "c~d"}))
	require.NoError(t, err)
	require.Equal(t, []string{"a/b", "c~d"}, roundTrip)
}

func testNode(t *testing.T) *yaml.Node {
	t.Helper()
	var root yaml.Node
	err := yaml.Unmarshal([]byte(`
paths:
  /health:
    get:
      operationId: health
components:
  schemas:
    Pet:
      type: object
tags:
  - name: one
  - name: two
`), &root)
	require.NoError(t, err)
	return &root
}

func TestGet(t *testing.T) {
	root := testNode(t)

	tests := []struct {
		name    string
		ptr     string
		want    string
		wantErr error
	}{
		{name: "nested mapping", ptr: "/paths/~1health/get/operationId", want: "health"},
		{name: "component", ptr: "/components/schemas/Pet/type", want: "object"},
		{name: "sequence index", ptr: "/tags/1/name", want: "two"},
		{name: "missing key", ptr: "/components/parameters", wantErr: ErrNotFound},
		{name: "index out of range", ptr: "/tags/5", wantErr: ErrNotFound},
		{name: "non numeric index", ptr: "/tags/first", wantErr: ErrInvalid},
		{name: "descend into scalar", ptr: "/paths/~1health/get/operationId/x", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Get(root, tt.ptr)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got.Value)
		})
	}
}

func TestGetWholeDocument(t *testing.T) {
	root := testNode(t)
	got, err := Get(root, "")
	require.NoError(t, err)
	require.Equal(t, yaml.MappingNode, got.Kind)
}
