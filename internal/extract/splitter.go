// internal/extract/splitter.go
package extract

import (
	"bytes"
	"fmt"
)

// pngSignature opens every PNG image. The stream splitter's whole contract
// is built on this fixed 8-byte sequence.
var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// SplitPNGStream splits a concatenated PNG byte stream into discrete image
// payloads.
//
// Contract: the stream must begin with the PNG signature; a new payload
// starts at each subsequent byte offset exactly matching the signature;
// the final payload extends to the end of the stream. The splitter does
// not validate payload contents beyond the signature, so a truncated final
// image is returned as-is and surfaces later when the enhancer rejects it.
func SplitPNGStream(data []byte) ([][]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image stream")
	}
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, fmt.Errorf("image stream does not begin with a PNG signature")
	}

	var payloads [][]byte
	start := 0
	for {
		next := bytes.Index(data[start+len(pngSignature):], pngSignature)
		if next < 0 {
			payloads = append(payloads, data[start:])
			return payloads, nil
		}
		end := start + len(pngSignature) + next
		payloads = append(payloads, data[start:end])
		start = end
	}
}
