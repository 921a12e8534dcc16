package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraconstructs/credentials/internal/auth"
)

func TestParseAttributeArgs(t *testing.T) {
	t.Run("repeated keys append", func(t *testing.T) {
		attributes, err := parseAttributeArgs([]string{"action=read", "action=update", "resourceType=catalog-entity"})
		require.NoError(t, err)

		assert.Equal(t, []string{"read", "update"}, attributes["action"])
		assert.Equal(t, []string{"catalog-entity"}, attributes["resourceType"])
	})

	t.Run("no args", func(t *testing.T) {
		attributes, err := parseAttributeArgs(nil)
		require.NoError(t, err)
		assert.Nil(t, attributes)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, arg := range []string{"action", "=read", "action="} {
			_, err := parseAttributeArgs([]string{arg})
			assert.Error(t, err, arg)
		}
	})
}

func TestParseOutputFormat(t *testing.T) {
	mode, err := parseOutputFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, outputJSON, mode)

	_, err = parseOutputFormat("yaml")
	assert.Error(t, err)
}

func TestRenderCredentials(t *testing.T) {
	creds, err := auth.NewServicePrincipalCredentials("my-service", auth.WithToken("my-token"))
	require.NoError(t, err)

	tests := []struct {
		mode outputMode
		want string
	}{
		{mode: outputString, want: "backstageCredentials{servicePrincipal{my-service}}\n"},
		{mode: outputJSON, want: `{"$$type":"@backstage/BackstageCredentials","version":"v1","principal":{"type":"service","subject":"my-service"}}` + "\n"},
		{
			mode: outputBoth,
			want: "backstageCredentials{servicePrincipal{my-service}}\n" +
				`{"$$type":"@backstage/BackstageCredentials","version":"v1","principal":{"type":"service","subject":"my-service"}}` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, renderCredentials(&buf, creds, tt.mode))
			assert.Equal(t, tt.want, buf.String())
			assert.NotContains(t, buf.String(), "my-token")
		})
	}
}

func TestReadInput(t *testing.T) {
	readFile := func(name string) ([]byte, error) {
		if name == "creds.json" {
			return []byte("from-file"), nil
		}
		return nil, errors.New("not found")
	}

	data, err := readInput(strings.NewReader("from-stdin"), "", readFile)
	require.NoError(t, err)
	assert.Equal(t, "from-stdin", string(data))

	data, err = readInput(strings.NewReader("from-stdin"), "-", readFile)
	require.NoError(t, err)
	assert.Equal(t, "from-stdin", string(data))

	data, err = readInput(strings.NewReader("from-stdin"), "creds.json", readFile)
	require.NoError(t, err)
	assert.Equal(t, "from-file", string(data))
}
