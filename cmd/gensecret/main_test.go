package main

import (
	"bytes"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

func TestWriteSecrets(t *testing.T) {
	t.Run("output is valid env file", func(t *testing.T) {
		var buf bytes.Buffer

		err := writeSecrets(&buf, rand.Reader)
		require.NoError(t, err)

		env, err := godotenv.Unmarshal(buf.String())
		require.NoError(t, err)
		require.Len(t, env, 2)
		require.Len(t, env["JWT_ACCESS_SECRET"], 2*SecretKeyBytesLen)
		require.Len(t, env["JWT_REFRESH_SECRET"], 2*SecretKeyBytesLen)
		require.NotEqual(t, env["JWT_ACCESS_SECRET"], env["JWT_REFRESH_SECRET"], "secrets must differ")
	})

	t.Run("short random source", func(t *testing.T) {
		var buf bytes.Buffer

		err := writeSecrets(&buf, strings.NewReader("too short"))

		require.Error(t, err)
	})
}
