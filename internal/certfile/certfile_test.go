package certfile_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azctl/azctl/internal/certfile"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestRead_PEM(t *testing.T) {
	t.Parallel()

	pem := "-----BEGIN CERTIFICATE-----\nMIIB\n-----END CERTIFICATE-----\n"
	path := writeFile(t, "cert.pem", []byte(pem))

	got, err := certfile.Read(path)
	require.NoError(t, err)
	assert.Equal(t, pem, got)
}

func TestRead_DER(t *testing.T) {
	t.Parallel()

	der := []byte{0x30, 0x82, 0x01, 0x0a}
	path := writeFile(t, "cert.cer", der)

	got, err := certfile.Read(path)
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(der), got)
}

func TestRead_Empty(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "empty.pem", nil)

	_, err := certfile.Read(path)
	assert.Error(t, err)
}

func TestRead_Missing(t *testing.T) {
	t.Parallel()

	_, err := certfile.Read(filepath.Join(t.TempDir(), "nope.pem"))
	assert.Error(t, err)
}
