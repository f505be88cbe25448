package checkout

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// MaxProofSize bounds the screenshot accepted as payment proof.
const MaxProofSize = 5 << 20

// EncodeProof reads the image at path and returns it as a data URI.
func EncodeProof(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open payment proof: %w", err)
	}
	defer f.Close()

	b, err := io.ReadAll(io.LimitReader(f, MaxProofSize+1))
	if err != nil {
		return "", fmt.Errorf("read payment proof: %w", err)
	}
	if len(b) > MaxProofSize {
		return "", &ValidationError{Message: "Payment proof is larger than 5 MB"}
	}

	mime := http.DetectContentType(b)
	if !strings.HasPrefix(mime, "image/") {
		return "", &ValidationError{Message: "Payment proof must be an image"}
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

// DecodeImage returns the bytes of a base64 image data URI, such as the
// QRIS code returned by the API.
func DecodeImage(dataURI string) ([]byte, error) {
	header, payload, ok := strings.Cut(dataURI, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("not an image data uri")
	}

	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return b, nil
}
