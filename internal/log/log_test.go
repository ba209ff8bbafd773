package log

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestSetup_VerboseEnablesDebug(t *testing.T) {
	t.Cleanup(func() { Setup(nil, false, false) })

	var buf bytes.Buffer
	Setup(&buf, false, false)
	Debug().Msg("hidden")
	require.Empty(t, buf.String())

	Setup(&buf, true, false)
	Debug().Str("url", "http://example.test").Msg("visible")
	require.Contains(t, buf.String(), `"message":"visible"`)
	require.Contains(t, buf.String(), `"url":"http://example.test"`)
}

func TestError_CarriesStack(t *testing.T) {
	t.Cleanup(func() { Setup(nil, false, false) })

	var buf bytes.Buffer
	Setup(&buf, false, false)
	Error().Err(errors.New("boom")).Msg("failed")
	require.Contains(t, buf.String(), `"stack"`)
}
