package refs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLocation(t *testing.T) {
	loc, err := NewLocation("specs/api.yaml")
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(loc.Locator))
	require.Equal(t, "", loc.Fragment)

	loc, err = NewLocation("https://example.com/api.yaml#/info")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/api.yaml", loc.Locator)
	require.Equal(t, "/info", loc.Fragment)

	_, err = NewLocation("#/components/schemas/Pet")
	require.Error(t, err)
}

func TestLocationString(t *testing.T) {
	require.Equal(t, "/tmp/api.yaml", Location{Locator: "/tmp/api.yaml"}.String())
	require.Equal(t, "/tmp/api.yaml#/info", Location{Locator: "/tmp/api.yaml", Fragment: "/info"}.String())
	require.Equal(t, "/tmp/api.yaml", Location{Locator: "/tmp/api.yaml", Fragment: "/info"}.DocKey())
}

func TestLocationResolve(t *testing.T) {
	fileBase := Location{Locator: "/srv/specs/api.yaml"}
	urlBase := Location{Locator: "https://example.com/specs/api.yaml"}

	tests := []struct {
		name string
		base Location
		ref  Ref
		want Location
	}{
		{
			name: "fragment only keeps base locator",
			base: fileBase,
			ref:  "#/components/schemas/Pet",
			want: Location{Locator: "/srv/specs/api.yaml", Fragment: "/components/schemas/Pet"},
		},
		{
			name: "relative file",
			base: fileBase,
			ref:  "pets.yaml#/components/schemas/Pet",
			want: Location{Locator: "/srv/specs/pets.yaml", Fragment: "/components/schemas/Pet"},
		},
		{
			name: "relative file with parent dir",
			base: fileBase,
			ref:  "../shared/errors.yaml",
			want: Location{Locator: "/srv/shared/errors.yaml"},
		},
		{
			name: "absolute file",
			base: fileBase,
			ref:  "/srv/other/x.yaml#/a",
			want: Location{Locator: "/srv/other/x.yaml", Fragment: "/a"},
		},
		{
			name: "absolute url from file base",
			base: fileBase,
			ref:  "https://example.com/x.yaml#/a",
			want: Location{Locator: "https://example.com/x.yaml", Fragment: "/a"},
		},
		{
			name: "relative url",
			base: urlBase,
			ref:  "pets.yaml#/a",
			want: Location{Locator: "https://example.com/specs/pets.yaml", Fragment: "/a"},
		},
		{
			name: "relative url with parent dir",
			base: urlBase,
			ref:  "../common/pets.yaml",
			want: Location{Locator: "https://example.com/common/pets.yaml"},
		},
		{
			name: "fragment only keeps url base",
			base: urlBase,
			ref:  "#/info",
			want: Location{Locator: "https://example.com/specs/api.yaml", Fragment: "/info"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.base.Resolve(tt.ref)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
