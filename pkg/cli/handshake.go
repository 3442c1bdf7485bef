package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Handshake is the line the plugin driver reads from standard output to
// find the server.
type Handshake struct {
	Port      int    `json:"port"`
	ServerKey string `json:"serverKey"`
}

// writeHandshake writes the handshake as a single line and flushes it. The
// driver blocks until it sees the newline.
func writeHandshake(w io.Writer, h Handshake) error {
	key, err := json.Marshal(h.ServerKey)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "{\"port\":%d, \"serverKey\":%s}\n", h.Port, key); err != nil {
		return err
	}
	return bw.Flush()
}
