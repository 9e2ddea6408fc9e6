// Package certfile reads X.509 certificates for upload to the management
// API, which accepts either PEM text or a base64-encoded DER blob.
package certfile

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

const pemHeader = "-----BEGIN"

// Read loads the certificate at path. PEM content is returned verbatim;
// anything else is treated as DER and base64-encoded.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read certificate %q: %w", path, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("certificate %q is empty", path)
	}
	if strings.Contains(string(data), pemHeader) {
		return string(data), nil
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
